package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
)

// Pinger checks that a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	deps    map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler over the named dependencies
func NewHealthHandler(deps map[string]Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{deps: deps, timeout: timeout}
}

// Live handles GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Ready handles GET /health/ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			loggerFor(r).Warn().Err(err).Str("dependency", name).Msg("Readiness check failed")
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	respondWithJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
	})
}

func loggerFor(r *http.Request) *zerolog.Logger {
	return observability.LoggerFromContext(r.Context())
}
