// Package httptransport assembles the service's HTTP surface.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tradegate/internal/compliance/handler"
	"tradegate/internal/platform/middleware"
)

// NewRouter wires the compliance routes, health and metrics endpoints.
// Mutating compliance routes are guarded by bearer auth when a validator is
// configured.
func NewRouter(h *handler.Handler, validator *middleware.JWTValidator, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestMeta)

	var auth func(http.Handler) http.Handler
	if validator != nil {
		auth = middleware.RequireAuth(validator, logger)
	}

	r.Route("/compliance", func(r chi.Router) {
		h.Routes(r, auth)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
