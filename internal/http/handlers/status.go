package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusHandler answers the root and health endpoints.
type StatusHandler struct {
	service string
	now     func() time.Time
}

// NewStatusHandler creates a status handler for the named service.
func NewStatusHandler(service string) *StatusHandler {
	return &StatusHandler{service: service, now: time.Now}
}

// Root handles GET /.
func (h *StatusHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"service":   h.service,
		"message":   "Service is running",
		"timestamp": h.timestamp(),
	})
}

// HealthCheck handles GET /health.
func (h *StatusHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"message":   h.service + " is running",
		"timestamp": h.timestamp(),
	})
}

func (h *StatusHandler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
