package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"wojakbot/internal/domain"
)

// StatsSource is the slice of the ledger the admin surface reads.
type StatsSource interface {
	AggregateStats(ctx context.Context) (*domain.Stats, error)
	ListRecentPayments(ctx context.Context, limit int) ([]domain.Payment, error)
}

// App is the handler container for the operational HTTP surface.
type App struct {
	Ledger     StatsSource
	Logger     zerolog.Logger
	AdminToken string
}

func NewApp(ledger StatsSource, logger zerolog.Logger, adminToken string) *App {
	return &App{Ledger: ledger, Logger: logger, AdminToken: adminToken}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
