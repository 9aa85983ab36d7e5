package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/whatsapp-menu-bot/cmd/mainconfig"
	"github.com/wolfman30/whatsapp-menu-bot/internal/api/router"
	"github.com/wolfman30/whatsapp-menu-bot/internal/channels/whatsapp"
	appconfig "github.com/wolfman30/whatsapp-menu-bot/internal/config"
	"github.com/wolfman30/whatsapp-menu-bot/internal/conversation"
	"github.com/wolfman30/whatsapp-menu-bot/internal/http/handlers"
	"github.com/wolfman30/whatsapp-menu-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

const serviceName = "WhatsApp Business Bot"

func main() {
	if err := appconfig.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp-menu-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"session_store", cfg.SessionStore,
		"verify_token", logging.Redact(cfg.VerifyToken),
		"access_token", logging.Redact(cfg.AccessToken),
		"phone_number_id", cfg.PhoneNumberID,
	)
	if err := cfg.Validate(); err != nil {
		logger.Warn("configuration incomplete, webhook features may not work", "error", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sessions, err := mainconfig.BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			logger.Warn("session store close failed", "error", err)
		}
	}()

	srv, err := newServer(cfg, logger, sessions.Store)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// newServer wires the engine, WhatsApp adapter and router into an HTTP server.
func newServer(cfg *appconfig.Config, logger *logging.Logger, store conversation.SessionStore) (*http.Server, error) {
	flow, err := mainconfig.BuildFlow(cfg)
	if err != nil {
		return nil, err
	}

	metricsHandler, messagingMetrics, conversationMetrics := setupMetrics()

	engine := conversation.NewEngine(store, flow, logger, conversation.WithMetrics(conversationMetrics))
	adapter := whatsapp.NewAdapter(whatsapp.AdapterConfig{
		AccessToken:   cfg.AccessToken,
		PhoneNumberID: cfg.PhoneNumberID,
		AppSecret:     cfg.AppSecret,
		VerifyToken:   cfg.VerifyToken,
		APIVersion:    cfg.GraphAPIVersion,
		SendTimeout:   cfg.SendTimeout,
		Responder:     engine,
		Metrics:       messagingMetrics,
		Logger:        logger,
	})
	adapter.SetGraphAPIBase(cfg.GraphAPIBase)

	r := router.New(&router.Config{
		Logger:         logger,
		Status:         handlers.NewStatusHandler(serviceName),
		Webhook:        adapter,
		MetricsHandler: metricsHandler,
	})

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, nil
}

func setupMetrics() (http.Handler, *metrics.MessagingMetrics, *metrics.ConversationMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewMessagingMetrics(reg), metrics.NewConversationMetrics(reg)
}
