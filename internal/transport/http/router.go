// Package httptransport assembles the HTTP surface: the shared middleware
// chain, the operational endpoints, and the per-context handlers.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medledger/internal/platform/metrics"
	"medledger/internal/platform/middleware"
)

// RouteRegistrar is implemented by every handler package.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// NewRouter wires the full HTTP surface. Handlers attach their own auth
// middleware per route group; everything else in the chain is shared.
func NewRouter(logger *slog.Logger, m *metrics.Metrics, health *HealthHandler, handlers ...RouteRegistrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(m))

	r.Get("/healthz", health.handle)
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
