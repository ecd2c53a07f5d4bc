package sqlinline

const QEnsureUser = `--sql c3b0eacf-b187-49e9-98ad-87657f663841
insert into users (id)
values ($1::text)
on conflict (id) do nothing;
`

const QSelectUserByID = `--sql d0864eb4-1c85-4dc2-9d43-42303eac93b9
select id, coalesce(name, ''), coalesce(handle, ''), coalesce(email, ''), is_registered, created_at
from users
where id = $1::text
limit 1;
`

const QBindUserProfile = `--sql b470b590-5ab4-48cb-a7bb-b38e39dcfbdb
update users
set name = nullif($2::text, ''),
    handle = nullif($3::text, ''),
    email = nullif($4::text, ''),
    is_registered = true
where id = $1::text;
`
