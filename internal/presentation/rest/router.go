// Package rest exposes the simulator over HTTP/JSON.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig collects what NewRouter mounts. Metrics and RateLimiter are
// optional.
type RouterConfig struct {
	Simulations *SimulationHandler
	Health      *HealthHandler
	Metrics     http.Handler
	RateLimiter *RateLimiter
	Logger      *slog.Logger
}

// NewRouter builds the HTTP handler. Probes and /metrics bypass the rate
// limiter.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(chimw.Recoverer)

	cfg.Health.RegisterRoutes(r)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(RateLimitMiddleware(cfg.RateLimiter))
		}
		cfg.Simulations.RegisterRoutes(r)
	})

	return r
}
