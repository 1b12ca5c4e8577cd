package sqlinline

const QInsertPayment = `--sql 005896bf-0150-482e-b2d9-1e3e611359fd
insert into payments (user_id, charge_ref, amount)
values ($1::bigint, $2::text, $3::bigint)
returning id;
`

const QListPayments = `--sql 6de786fb-eace-443e-8b7a-93de646cee94
select id, user_id, charge_ref, amount, created_at
from payments
order by created_at desc
limit $1::int;
`
