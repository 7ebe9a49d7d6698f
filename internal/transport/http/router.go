// Package httptransport assembles the public HTTP surface from the module handlers.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yojanamitra/internal/platform/metrics"
	"yojanamitra/internal/platform/middleware"
	"yojanamitra/pkg/platform/httputil"
	"yojanamitra/pkg/platform/middleware/metadata"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one backing dependency.
type HealthCheck func(ctx context.Context) error

// Config carries what the router needs besides the handlers.
type Config struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	SessionCookie string
	HealthChecks  map[string]HealthCheck
	// RateLimit runs after the session is resolved; nil disables it.
	RateLimit func(http.Handler) http.Handler
}

// NewRouter mounts the handlers behind the shared middleware chain.
// /metrics and /healthz sit outside the session middleware.
func NewRouter(cfg Config, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recovery(cfg.Logger, cfg.Metrics))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(cfg.HealthChecks))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logger(cfg.Logger, cfg.Metrics))
		r.Use(middleware.Session(cfg.SessionCookie, cfg.Logger))
		if cfg.RateLimit != nil {
			r.Use(cfg.RateLimit)
		}
		for _, h := range handlers {
			h.Register(r)
		}
	})
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				report[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": report})
	}
}
