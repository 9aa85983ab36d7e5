package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/whatsapp-menu-bot/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/whatsapp-menu-bot/internal/http/middleware"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

// WebhookHandler serves the messaging platform webhook.
type WebhookHandler interface {
	HandleVerification(w http.ResponseWriter, r *http.Request)
	HandleWebhook(w http.ResponseWriter, r *http.Request)
}

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Status         *handlers.StatusHandler
	Webhook        WebhookHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	status := cfg.Status
	if status == nil {
		status = handlers.NewStatusHandler("WhatsApp Business Bot")
	}
	r.Get("/", status.Root)
	r.Get("/health", status.HealthCheck)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Webhook != nil {
		r.Route("/webhook", func(wh chi.Router) {
			wh.Get("/", cfg.Webhook.HandleVerification)
			wh.Post("/", cfg.Webhook.HandleWebhook)
		})
	}

	return r
}
