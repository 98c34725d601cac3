package api

import (
	"context"
	"net/http"
	"time"
)

// Liveness handles GET /healthz: the process is up.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Health handles GET /health: ping the database and cache. A degraded
// dependency is reported per-service with a 503, so orchestrators can keep
// the process but shed traffic.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	services := map[string]string{}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		services["database"] = "down"
		healthy = false
	} else {
		services["database"] = "up"
	}

	if h.rdb == nil {
		services["redis"] = "disabled"
	} else if err := h.rdb.Ping(ctx).Err(); err != nil {
		services["redis"] = "down"
		healthy = false
	} else {
		services["redis"] = "up"
	}

	status := http.StatusOK
	state := "healthy"

	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	writeJSON(w, status, map[string]any{"status": state, "services": services})
}
