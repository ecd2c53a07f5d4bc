package sqlinline

const QInsertPurchase = `--sql 2f81813b-955b-4dbd-a5b5-9a46118f050f
insert into purchases (id, user_id, package_type, amount_minor, requests_granted, status, gateway_payment_id, payment_url, buyer_country)
values ($1::uuid, $2::text, $3::text, $4::bigint, $5::int, $6::text, $7::text, $8::text, nullif($9::text, ''));
`

const QSelectPurchaseByGatewayID = `--sql 6840ac76-81e2-4ad4-9761-17189122d0df
select id, user_id, package_type, amount_minor, requests_granted, status,
       coalesce(gateway_payment_id, ''), coalesce(payment_url, ''), coalesce(buyer_country, ''),
       created_at, paid_at
from purchases
where gateway_payment_id = $1::text
limit 1;
`

const QMarkPurchasePaid = `--sql ec0bd0bc-2c2a-487b-90f2-41fc7806b207
update purchases
set status = 'paid',
    paid_at = $2::timestamptz
where gateway_payment_id = $1::text
  and status = 'pending'
returning id, user_id, package_type, amount_minor, requests_granted, status,
          coalesce(gateway_payment_id, ''), coalesce(payment_url, ''), coalesce(buyer_country, ''),
          created_at, paid_at;
`

const QMarkPurchaseFailed = `--sql 7a118a8a-4372-4fc1-b680-06beea893011
update purchases
set status = 'failed'
where gateway_payment_id = $1::text
  and status = 'pending'
returning id;
`

const QListPurchasesByUser = `--sql c0aa1f0d-7e81-461d-8731-2bcadc172992
select id, user_id, package_type, amount_minor, requests_granted, status,
       coalesce(gateway_payment_id, ''), coalesce(payment_url, ''), coalesce(buyer_country, ''),
       created_at, paid_at
from purchases
where user_id = $1::text
order by created_at desc
limit $2::int;
`
