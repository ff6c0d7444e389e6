package httptransport

import (
	"context"
	"net/http"
	"time"

	"medledger/internal/transport/http/shared"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness of the service and its dependencies. The
// ledger bridge is deliberately not probed here: the service stays up and
// degrades per request when the ledger is away.
type HealthHandler struct {
	checks map[string]HealthCheck
}

// NewHealthHandler creates a HealthHandler. Nil checks are skipped so callers
// can pass probes for optional dependencies unconditionally.
func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	kept := make(map[string]HealthCheck, len(checks))
	for name, check := range checks {
		if check != nil {
			kept[name] = check
		}
	}
	return &HealthHandler{checks: kept}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	status := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	shared.WriteJSON(w, status, resp)
}
