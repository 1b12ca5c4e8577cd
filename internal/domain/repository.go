package domain

import "context"

// Ledger defines durable access to users and payments. Every write persists
// before the call returns; callers never retry on error because the counter
// increment is not idempotent.
type Ledger interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	// UpsertUser inserts the user if absent. An existing row, including its
	// counter, is left untouched.
	UpsertUser(ctx context.Context, id int64, profile Profile) error
	// IncrementFreeUsed atomically adds one to the counter and returns the
	// new value.
	IncrementFreeUsed(ctx context.Context, id int64) (int, error)
	// ResetFreeUsed sets the counter to zero, creating the row if absent.
	ResetFreeUsed(ctx context.Context, id int64) error
	RecordPayment(ctx context.Context, userID int64, chargeRef string, amount int64) error
	AggregateStats(ctx context.Context) (*Stats, error)
}
