package http

import (
	"net/http"
	"time"

	"github.com/skipmark/skipmark-server/internal/api/respond"
	"github.com/skipmark/skipmark-server/internal/health"
)

// HealthHandler serves the service and store health endpoints.
type HealthHandler struct {
	monitor *health.Monitor
}

func NewHealthHandler(monitor *health.Monitor) *HealthHandler {
	return &HealthHandler{monitor: monitor}
}

// CheckHealth handles GET /api/health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "UP",
			"message":   "Service is healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	msg := h.monitor.LastError()
	if msg == "" {
		msg = "One or more dependencies unavailable"
	}
	respond.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"status":    "DOWN",
		"message":   msg,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckStoreHealth handles GET /api/health/db with a live ping.
func (h *HealthHandler) CheckStoreHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.monitor.PingStore(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "DOWN",
			"message": err.Error(),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "UP",
		"message": "Store is healthy",
	})
}
