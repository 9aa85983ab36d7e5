package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusEndpoints(t *testing.T) {
	h := NewStatusHandler("WhatsApp Business Bot")
	h.now = func() time.Time { return time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    map[string]string
	}{
		{"root", h.Root, map[string]string{
			"status":    "OK",
			"service":   "WhatsApp Business Bot",
			"message":   "Service is running",
			"timestamp": "2026-10-17T09:30:00Z",
		}},
		{"health", h.HealthCheck, map[string]string{
			"status":    "OK",
			"message":   "WhatsApp Business Bot is running",
			"timestamp": "2026-10-17T09:30:00Z",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body)
		})
	}
}
