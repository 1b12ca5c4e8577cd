package domain

import "time"

// Payment is an append-only record of a confirmed external transaction.
type Payment struct {
	ID        int64
	UserID    int64
	ChargeRef string
	Amount    int64
	CreatedAt time.Time
}

// Stats aggregates the ledger for the admin report. TotalGenerations is
// defined as TotalPayments plus the sum of all free counters.
type Stats struct {
	TotalUsers         int64
	UsersWithQuotaLeft int64
	TotalPayments      int64
	TotalAmount        int64
	TotalGenerations   int64
}
