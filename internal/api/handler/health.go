package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/colebaker/ytfetch/internal/registry"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	reg *registry.Registry
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(reg *registry.Registry) *HealthHandler {
	return &HealthHandler{reg: reg}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Jobs      *registry.Stats `json:"jobs,omitempty"`
}

// Live handles GET /health - liveness probe.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready - readiness probe with job counts.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	stats := h.reg.Stats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Jobs:      &stats,
	})
}
