package sqlinline

// Schema bootstrap. Applied at startup; both statements are idempotent.

const QCreateUsers = `--sql 31d9a58d-a97b-4062-be2d-2fd49d28e6ea
create table if not exists users (
    user_id bigint primary key,
    username text,
    first_name text,
    last_name text,
    free_generations_used int not null default 0,
    created_at timestamptz not null default now()
);
`

const QCreatePayments = `--sql 269409b4-d882-4f00-a527-da3fb04bf2f0
create table if not exists payments (
    id bigserial primary key,
    user_id bigint not null references users(user_id),
    charge_ref text not null,
    amount bigint not null,
    created_at timestamptz not null default now()
);
`
