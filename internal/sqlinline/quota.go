package sqlinline

const QGetOrCreateQuotaAccount = `--sql ab0b71fd-37be-4716-90d1-b64cf393b9a0
with created as (
    insert into quota_accounts (user_id)
    values ($1::text)
    on conflict (user_id) do nothing
    returning user_id, free_requests_used, paid_balance, last_reset_at, updated_at
)
select user_id, free_requests_used, paid_balance, last_reset_at, updated_at from created
union all
select user_id, free_requests_used, paid_balance, last_reset_at, updated_at
from quota_accounts where user_id = $1::text
limit 1;
`

const QResetFreeUsage = `--sql 09876379-cb2c-4310-aa5c-10542b36cde3
update quota_accounts
set free_requests_used = 0,
    last_reset_at = $2::timestamptz,
    updated_at = now()
where user_id = $1::text;
`

const QConsumeFree = `--sql a248dbf9-9d49-4e1a-b69a-9e62695a17d1
update quota_accounts
set free_requests_used = free_requests_used + 1,
    updated_at = now()
where user_id = $1::text
  and free_requests_used < $2::int
returning free_requests_used;
`

const QConsumePaid = `--sql 245cdccd-3fb7-44fd-b869-9d534c73d53c
update quota_accounts
set paid_balance = paid_balance - 1,
    updated_at = now()
where user_id = $1::text
  and paid_balance > 0
returning paid_balance;
`

const QAddPaidBalance = `--sql 9a35cec4-96e2-429f-b372-7bd0b7b4fead
update quota_accounts
set paid_balance = paid_balance + $2::int,
    updated_at = now()
where user_id = $1::text
returning paid_balance;
`
