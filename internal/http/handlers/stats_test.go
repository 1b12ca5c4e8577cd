package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"wojakbot/internal/domain"
)

type fakeStatsSource struct {
	stats    *domain.Stats
	payments []domain.Payment
	err      error
}

func (f *fakeStatsSource) AggregateStats(ctx context.Context) (*domain.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeStatsSource) ListRecentPayments(ctx context.Context, limit int) ([]domain.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.payments) {
		return f.payments[:limit], nil
	}
	return f.payments, nil
}

func newStatsApp(src *fakeStatsSource) *App {
	return NewApp(src, zerolog.Nop(), "secret")
}

func TestStatsRequiresToken(t *testing.T) {
	app := newStatsApp(&fakeStatsSource{stats: &domain.Stats{}})

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rec := httptest.NewRecorder()
	app.StatsSummary(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	app.StatsSummary(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestStatsDisabledWithoutConfiguredToken(t *testing.T) {
	app := NewApp(&fakeStatsSource{stats: &domain.Stats{}}, zerolog.Nop(), "")

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	app.StatsSummary(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 when no token configured", rec.Code)
	}
}

func TestStatsSummary(t *testing.T) {
	app := newStatsApp(&fakeStatsSource{stats: &domain.Stats{
		TotalUsers:         10,
		UsersWithQuotaLeft: 4,
		TotalPayments:      6,
		TotalAmount:        270,
		TotalGenerations:   30,
	}})

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	app.StatsSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["total_generations"] != 30 || body["total_amount"] != 270 {
		t.Fatalf("body = %v", body)
	}
}

func TestStatsError(t *testing.T) {
	app := newStatsApp(&fakeStatsSource{err: errors.New("down")})

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	app.StatsSummary(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestPaymentsRecent(t *testing.T) {
	app := newStatsApp(&fakeStatsSource{payments: []domain.Payment{
		{ID: 2, UserID: 1, ChargeRef: "b", Amount: 45, CreatedAt: time.Now()},
		{ID: 1, UserID: 1, ChargeRef: "a", Amount: 45, CreatedAt: time.Now()},
	}})

	req := httptest.NewRequest(http.MethodGet, "/v1/payments?limit=1", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	app.PaymentsRecent(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0]["charge_ref"] != "b" {
		t.Fatalf("items = %v", body.Items)
	}
}
