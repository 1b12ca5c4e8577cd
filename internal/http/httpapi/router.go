package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"wojakbot/internal/http/handlers"
	"wojakbot/internal/middleware"
)

// NewRouter builds the operational HTTP surface: health plus the
// token-guarded admin endpoints.
func NewRouter(app *handlers.App, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
	)

	r.Get("/healthz", app.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", app.StatsSummary)
		r.Get("/payments", app.PaymentsRecent)
	})

	return r
}
