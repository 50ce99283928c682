package httptransport

import (
	"context"
	"net/http"
	"sort"
	"time"

	"minimarket/pkg/platform/circuit"
	"minimarket/pkg/platform/httputil"
)

const healthCheckTimeout = 2 * time.Second

// Check pings one dependency.
type Check func(ctx context.Context) error

// Health reports storage reachability and the backend breaker position.
// An open breaker degrades the report but does not fail it: carts keep
// working from storage while the backend recovers.
type Health struct {
	checks  map[string]Check
	breaker func() circuit.State
}

func NewHealth(checks map[string]Check, breaker func() circuit.State) *Health {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &Health{checks: checks, breaker: breaker}
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Backend string            `json:"backend,omitempty"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.checks))}
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	if h.breaker != nil {
		resp.Backend = string(h.breaker())
		if resp.Backend == string(circuit.StateOpen) && status == http.StatusOK {
			resp.Status = "degraded"
		}
	}
	httputil.WriteJSON(w, status, resp)
}
