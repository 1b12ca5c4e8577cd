package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"wojakbot/internal/domain"
)

type memLedger struct {
	users    map[int64]*domain.User
	payments []domain.Payment
	failWith error
}

func newMemLedger() *memLedger {
	return &memLedger{users: make(map[int64]*domain.User)}
}

func (m *memLedger) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memLedger) UpsertUser(ctx context.Context, id int64, profile domain.Profile) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.users[id]; !ok {
		m.users[id] = &domain.User{
			ID:        id,
			Username:  profile.Username,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			CreatedAt: time.Now(),
		}
	}
	return nil
}

func (m *memLedger) IncrementFreeUsed(ctx context.Context, id int64) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	u.FreeGenerationsUsed++
	return u.FreeGenerationsUsed, nil
}

func (m *memLedger) ResetFreeUsed(ctx context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	u, ok := m.users[id]
	if !ok {
		m.users[id] = &domain.User{ID: id, CreatedAt: time.Now()}
		return nil
	}
	u.FreeGenerationsUsed = 0
	return nil
}

func (m *memLedger) RecordPayment(ctx context.Context, userID int64, chargeRef string, amount int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.payments = append(m.payments, domain.Payment{
		ID:        int64(len(m.payments) + 1),
		UserID:    userID,
		ChargeRef: chargeRef,
		Amount:    amount,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memLedger) AggregateStats(ctx context.Context) (*domain.Stats, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	s := &domain.Stats{TotalPayments: int64(len(m.payments))}
	var freeUsed int64
	for _, u := range m.users {
		s.TotalUsers++
		if u.FreeGenerationsUsed < 3 {
			s.UsersWithQuotaLeft++
		}
		freeUsed += int64(u.FreeGenerationsUsed)
	}
	for _, p := range m.payments {
		s.TotalAmount += p.Amount
	}
	s.TotalGenerations = s.TotalPayments + freeUsed
	return s, nil
}

func TestCheckAndConsumeFreshUserSequence(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)
	ctx := context.Background()

	wantRemaining := []int{2, 1, 0}
	for i, want := range wantRemaining {
		d, err := engine.CheckAndConsume(ctx, 100)
		if err != nil {
			t.Fatalf("generation %d: unexpected error: %v", i+1, err)
		}
		if d.Outcome != AllowedFree {
			t.Fatalf("generation %d: outcome = %v, want AllowedFree", i+1, d.Outcome)
		}
		if d.Remaining != want {
			t.Fatalf("generation %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}

	d, err := engine.CheckAndConsume(ctx, 100)
	if err != nil {
		t.Fatalf("generation 4: unexpected error: %v", err)
	}
	if d.Outcome != PaymentRequired {
		t.Fatalf("generation 4: outcome = %v, want PaymentRequired", d.Outcome)
	}
	if got := store.users[100].FreeGenerationsUsed; got != 3 {
		t.Fatalf("counter = %d, want 3 (payment-required must not mutate)", got)
	}
}

func TestCheckAndConsumeUnknownUserLikeZero(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)

	d, err := engine.CheckAndConsume(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != AllowedFree || d.Remaining != 2 {
		t.Fatalf("got %+v, want AllowedFree remaining 2", d)
	}
	if store.users[7] == nil || store.users[7].FreeGenerationsUsed != 1 {
		t.Fatalf("expected lazily created user with counter 1")
	}
}

func TestCheckAndConsumeLedgerFailure(t *testing.T) {
	store := newMemLedger()
	store.failWith = errors.New("connection refused")
	engine := New(store, 3, 45)

	if _, err := engine.CheckAndConsume(context.Background(), 1); err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestConfirmPaymentLeavesCounterAlone(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)
	ctx := context.Background()

	store.users[55] = &domain.User{ID: 55, FreeGenerationsUsed: 3}
	before, _ := store.AggregateStats(ctx)

	if err := engine.ConfirmPayment(ctx, 55, "charge-abc", 45); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after, _ := store.AggregateStats(ctx)
	if after.TotalPayments != before.TotalPayments+1 {
		t.Fatalf("total payments = %d, want %d", after.TotalPayments, before.TotalPayments+1)
	}
	if after.TotalAmount != before.TotalAmount+45 {
		t.Fatalf("total amount = %d, want %d", after.TotalAmount, before.TotalAmount+45)
	}
	if got := store.users[55].FreeGenerationsUsed; got != 3 {
		t.Fatalf("counter = %d, want 3 (payment must not reset quota)", got)
	}
}

func TestAdministrativeReset(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)
	ctx := context.Background()

	store.users[9] = &domain.User{ID: 9, FreeGenerationsUsed: 5}
	if err := engine.AdministrativeReset(ctx, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.users[9].FreeGenerationsUsed; got != 0 {
		t.Fatalf("counter = %d, want 0", got)
	}

	d, err := engine.CheckAndConsume(ctx, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != AllowedFree || d.Remaining != 2 {
		t.Fatalf("after reset got %+v, want AllowedFree remaining 2", d)
	}
}

func TestAdministrativeResetAbsentUser(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)
	ctx := context.Background()

	if err := engine.AdministrativeReset(ctx, 404); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, err := engine.CheckAndConsume(ctx, 404)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Outcome != AllowedFree {
		t.Fatalf("outcome = %v, want AllowedFree", d.Outcome)
	}
}

func TestStatsIdentityAfterMixedOperations(t *testing.T) {
	store := newMemLedger()
	engine := New(store, 3, 45)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := engine.CheckAndConsume(ctx, 1); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := engine.CheckAndConsume(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := engine.ConfirmPayment(ctx, 1, "ref-1", 45); err != nil {
		t.Fatal(err)
	}
	if err := engine.ConfirmPayment(ctx, 3, "ref-2", 45); err != nil {
		t.Fatal(err)
	}
	if err := engine.AdministrativeReset(ctx, 2); err != nil {
		t.Fatal(err)
	}

	stats, err := store.AggregateStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var freeUsed int64
	for _, u := range store.users {
		freeUsed += int64(u.FreeGenerationsUsed)
	}
	if stats.TotalGenerations != stats.TotalPayments+freeUsed {
		t.Fatalf("total_generations = %d, want payments %d + free %d",
			stats.TotalGenerations, stats.TotalPayments, freeUsed)
	}
}
