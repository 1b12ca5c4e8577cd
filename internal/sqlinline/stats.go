package sqlinline

const QStatsSummary = `--sql 3bf0df7a-6773-48c1-86ca-4b74b4a8946f
with u as (
    select count(*) as total_users,
           count(*) filter (where free_generations_used < $1::int) as users_with_quota_left,
           coalesce(sum(free_generations_used), 0) as free_generations
    from users
),
p as (
    select count(*) as total_payments,
           coalesce(sum(amount), 0) as total_amount
    from payments
)
select u.total_users,
       u.users_with_quota_left,
       p.total_payments,
       p.total_amount,
       p.total_payments + u.free_generations as total_generations
from u, p;
`
