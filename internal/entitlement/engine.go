// Package entitlement decides whether a generation request rides on the free
// tier or requires payment. The decision is derived from the persisted
// counter; the engine holds no per-user state of its own.
package entitlement

import (
	"context"
	"errors"
	"fmt"

	"wojakbot/internal/domain"
)

// Outcome enumerates entitlement decisions.
type Outcome int

const (
	// AllowedFree grants a complimentary generation; the counter has
	// already been incremented when the decision is returned.
	AllowedFree Outcome = iota
	// PaymentRequired means the free quota is exhausted. No state changed.
	PaymentRequired
)

// Decision is the result of CheckAndConsume.
type Decision struct {
	Outcome   Outcome
	Remaining int // free generations left after this one; valid for AllowedFree
}

// Engine is the single policy point gating generation access.
type Engine struct {
	ledger    domain.Ledger
	freeQuota int
	price     int64
}

func New(ledger domain.Ledger, freeQuota int, price int64) *Engine {
	return &Engine{ledger: ledger, freeQuota: freeQuota, price: price}
}

// Price returns the cost of one paid generation in provider currency units.
func (e *Engine) Price() int64 { return e.price }

// CheckAndConsume reads the user's counter and either consumes a free slot
// or demands payment. A user never seen before counts as zero used. The
// counter increment is committed before the decision is returned, so a crash
// after this call can never grant an uncounted free generation.
func (e *Engine) CheckAndConsume(ctx context.Context, userID int64) (Decision, error) {
	user, err := e.ledger.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Decision{}, fmt.Errorf("entitlement: read counter: %w", err)
	}

	used := 0
	if user != nil {
		used = user.FreeGenerationsUsed
	}
	if used >= e.freeQuota {
		return Decision{Outcome: PaymentRequired}, nil
	}

	if user == nil {
		if err := e.ledger.UpsertUser(ctx, userID, domain.Profile{}); err != nil {
			return Decision{}, fmt.Errorf("entitlement: create user: %w", err)
		}
	}
	after, err := e.ledger.IncrementFreeUsed(ctx, userID)
	if err != nil {
		return Decision{}, fmt.Errorf("entitlement: consume free slot: %w", err)
	}
	remaining := e.freeQuota - after
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Outcome: AllowedFree, Remaining: remaining}, nil
}

// ConfirmPayment records a confirmed external transaction. It deliberately
// leaves the free counter alone: a payment buys exactly one generation,
// tracked by the caller's workflow, not by the ledger.
func (e *Engine) ConfirmPayment(ctx context.Context, userID int64, chargeRef string, amount int64) error {
	if err := e.ledger.UpsertUser(ctx, userID, domain.Profile{}); err != nil {
		return fmt.Errorf("entitlement: confirm payment: %w", err)
	}
	if err := e.ledger.RecordPayment(ctx, userID, chargeRef, amount); err != nil {
		return fmt.Errorf("entitlement: confirm payment: %w", err)
	}
	return nil
}

// AdministrativeReset re-grants the full free quota by zeroing the counter.
// Authorization is the caller's responsibility; the engine knows nothing
// about identities.
func (e *Engine) AdministrativeReset(ctx context.Context, userID int64) error {
	if err := e.ledger.ResetFreeUsed(ctx, userID); err != nil {
		return fmt.Errorf("entitlement: reset: %w", err)
	}
	return nil
}
