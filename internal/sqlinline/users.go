package sqlinline

const QUpsertUser = `--sql b41c8bb8-ef37-4253-99c8-c5c24746d090
insert into users (user_id, username, first_name, last_name)
values ($1::bigint, $2::text, $3::text, $4::text)
on conflict (user_id) do nothing;
`

const QSelectUser = `--sql 6f3f71bf-5d96-4dec-beb5-f5eedb769d29
select user_id, coalesce(username, ''), coalesce(first_name, ''), coalesce(last_name, ''), free_generations_used, created_at
from users
where user_id = $1::bigint
limit 1;
`

const QIncrementFreeUsed = `--sql db541291-a0c9-41d9-b768-c32f2d5887de
update users
set free_generations_used = free_generations_used + 1
where user_id = $1::bigint
returning free_generations_used;
`

const QResetFreeUsed = `--sql c9e3c8f2-9f59-47f9-9ef1-6d9b14786201
insert into users (user_id, free_generations_used)
values ($1::bigint, 0)
on conflict (user_id) do update set free_generations_used = 0;
`
