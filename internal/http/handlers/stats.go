package handlers

import (
	"net/http"
	"strconv"
	"strings"
)

func (a *App) authorized(r *http.Request) bool {
	if a.AdminToken == "" {
		return false
	}
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	return ok && token == a.AdminToken
}

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	stats, err := a.Ledger.AggregateStats(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to load stats")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":           stats.TotalUsers,
		"users_with_quota_left": stats.UsersWithQuotaLeft,
		"total_payments":        stats.TotalPayments,
		"total_amount":          stats.TotalAmount,
		"total_generations":     stats.TotalGenerations,
	})
}

func (a *App) PaymentsRecent(w http.ResponseWriter, r *http.Request) {
	if !a.authorized(r) {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	payments, err := a.Ledger.ListRecentPayments(r.Context(), limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("failed to load payments")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}
	items := make([]map[string]any, 0, len(payments))
	for _, p := range payments {
		items = append(items, map[string]any{
			"id":         p.ID,
			"user_id":    p.UserID,
			"charge_ref": p.ChargeRef,
			"amount":     p.Amount,
			"created_at": p.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
