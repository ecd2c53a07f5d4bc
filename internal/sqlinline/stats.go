package sqlinline

const QStatsTotals = `--sql 94f3a958-2541-4c75-b484-fa3dec27888c
select
    (select count(*) from users),
    (select count(*) from chat_messages where role = 'user'),
    (select coalesce(sum(amount_minor), 0) from purchases where status = 'paid'),
    (select coalesce(sum(amount_minor), 0) from purchases where status = 'pending'),
    (select count(*) from purchases),
    (select coalesce(sum(free_requests_used), 0) from quota_accounts),
    (select coalesce(sum(paid_balance), 0) from quota_accounts);
`

const QStatsRevenueByPackage = `--sql f0f45def-c675-4262-9e51-e76e0c5a3e8a
select package_type, count(*), coalesce(sum(amount_minor), 0)
from purchases
where status = 'paid'
group by package_type
order by package_type;
`

const QStatsRevenueByCountry = `--sql 09a3a264-98b9-4bbe-beb3-a0fe7d894dc8
select coalesce(buyer_country, ''), count(*), coalesce(sum(amount_minor), 0)
from purchases
where status = 'paid'
group by buyer_country
order by 3 desc;
`

const QStatsNewUsersByDay = `--sql bf9c080b-fcc7-46df-b40d-b4badb3a07ba
select to_char(created_at::date, 'YYYY-MM-DD'), count(*)
from users
where created_at >= current_date - interval '30 days'
group by created_at::date
order by created_at::date desc
limit 30;
`
