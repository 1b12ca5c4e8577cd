package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wojakbot/internal/domain"
	"wojakbot/internal/infra"
	"wojakbot/internal/sqlinline"
)

// PG implements domain.Ledger backed by PostgreSQL. Every operation runs as
// a single statement, so counter mutations are atomic per user without
// explicit locking.
type PG struct {
	sql       infra.SQLExecutor
	freeQuota int
}

// NewPG creates a ledger over the given executor. freeQuota is only used by
// AggregateStats to count users with quota remaining.
func NewPG(sql infra.SQLExecutor, freeQuota int) *PG {
	return &PG{sql: sql, freeQuota: freeQuota}
}

// EnsureSchema applies the idempotent DDL for the users and payments tables.
func (l *PG) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{sqlinline.QCreateUsers, sqlinline.QCreatePayments} {
		if _, err := l.sql.Exec(ctx, q); err != nil {
			return fmt.Errorf("ledger: ensure schema: %w", err)
		}
	}
	return nil
}

func (l *PG) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QSelectUser, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.FreeGenerationsUsed, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("ledger: get user: %w", err)
	}
	return &u, nil
}

func (l *PG) UpsertUser(ctx context.Context, id int64, profile domain.Profile) error {
	if _, err := l.sql.Exec(ctx, sqlinline.QUpsertUser, id, profile.Username, profile.FirstName, profile.LastName); err != nil {
		return fmt.Errorf("ledger: upsert user: %w", err)
	}
	return nil
}

func (l *PG) IncrementFreeUsed(ctx context.Context, id int64) (int, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QIncrementFreeUsed, id)
	var used int
	if err := row.Scan(&used); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("ledger: increment free used: %w", err)
	}
	return used, nil
}

func (l *PG) ResetFreeUsed(ctx context.Context, id int64) error {
	if _, err := l.sql.Exec(ctx, sqlinline.QResetFreeUsed, id); err != nil {
		return fmt.Errorf("ledger: reset free used: %w", err)
	}
	return nil
}

func (l *PG) RecordPayment(ctx context.Context, userID int64, chargeRef string, amount int64) error {
	row := l.sql.QueryRow(ctx, sqlinline.QInsertPayment, userID, chargeRef, amount)
	var paymentID int64
	if err := row.Scan(&paymentID); err != nil {
		return fmt.Errorf("ledger: record payment: %w", err)
	}
	return nil
}

// ListRecentPayments returns the newest payment records for the audit
// surface, most recent first.
func (l *PG) ListRecentPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	rows, err := l.sql.Query(ctx, sqlinline.QListPayments, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger: list payments: %w", err)
	}
	defer rows.Close()

	var items []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.ChargeRef, &p.Amount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ledger: scan payment: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: list payments: %w", err)
	}
	return items, nil
}

func (l *PG) AggregateStats(ctx context.Context) (*domain.Stats, error) {
	row := l.sql.QueryRow(ctx, sqlinline.QStatsSummary, l.freeQuota)
	var s domain.Stats
	if err := row.Scan(&s.TotalUsers, &s.UsersWithQuotaLeft, &s.TotalPayments, &s.TotalAmount, &s.TotalGenerations); err != nil {
		return nil, fmt.Errorf("ledger: aggregate stats: %w", err)
	}
	return &s, nil
}

var _ domain.Ledger = (*PG)(nil)
