package whatsapp

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/whatsapp-menu-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

// Responder produces the reply for one inbound message.
type Responder interface {
	Handle(ctx context.Context, userID, message string) string
}

// AdapterConfig holds the dependencies of the WhatsApp adapter.
type AdapterConfig struct {
	AccessToken   string
	PhoneNumberID string
	AppSecret     string
	VerifyToken   string
	APIVersion    string
	SendTimeout   time.Duration
	Responder     Responder
	Metrics       *metrics.MessagingMetrics
	Logger        *logging.Logger
}

// Adapter is the WhatsApp channel adapter.
// It handles inbound webhooks from Meta, asks the responder for a reply
// and sends it via the Graph API.
type Adapter struct {
	client    *Client
	webhook   *WebhookHandler
	responder Responder
	metrics   *metrics.MessagingMetrics
	tracer    trace.Tracer
	logger    *logging.Logger
}

// NewAdapter creates a new WhatsApp adapter.
func NewAdapter(cfg AdapterConfig) *Adapter {
	if cfg.Responder == nil {
		panic("whatsapp: responder cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	a := &Adapter{
		client:    NewClient(cfg.AccessToken, cfg.PhoneNumberID, WithTimeout(cfg.SendTimeout), WithAPIVersion(cfg.APIVersion)),
		responder: cfg.Responder,
		metrics:   cfg.Metrics,
		tracer:    otel.Tracer("menubot.internal.channels.whatsapp"),
		logger:    logger,
	}
	a.webhook = NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, a.handleInboundMessage)
	return a
}

// SetGraphAPIBase overrides the Graph API base URL (useful for testing).
func (a *Adapter) SetGraphAPIBase(base string) {
	a.client.SetGraphAPIBase(base)
}

// HandleVerification handles GET /webhook (Meta challenge).
func (a *Adapter) HandleVerification(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleVerification(w, r)
}

// HandleWebhook handles POST /webhook (inbound messages).
func (a *Adapter) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	a.webhook.HandleInbound(w, r)
}

func (a *Adapter) handleInboundMessage(ctx context.Context, msg ParsedInboundMessage) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "whatsapp.inbound")
	defer span.End()
	span.SetAttributes(
		attribute.String("menubot.whatsapp.message_id", msg.MessageID),
		attribute.String("menubot.whatsapp.type", msg.Type),
	)

	if msg.Type != "text" || strings.TrimSpace(msg.Text) == "" {
		a.logger.Info("whatsapp: ignoring non-text message",
			"from", msg.From,
			"type", msg.Type,
			"message_id", msg.MessageID,
		)
		a.metrics.ObserveInbound(msg.Type, "ignored")
		a.metrics.ObserveWebhookLatency("ignored", time.Since(start).Seconds())
		return
	}

	text := strings.ToLower(strings.TrimSpace(msg.Text))
	a.logger.Info("whatsapp: inbound message",
		"from", msg.From,
		"message_id", msg.MessageID,
		"timestamp", msg.Timestamp,
	)
	reply := a.responder.Handle(ctx, msg.From, text)
	a.metrics.ObserveInbound(msg.Type, "processed")

	outcome := "sent"
	if err := a.SendMessage(ctx, msg.From, reply); err != nil {
		outcome = "send_failed"
		span.RecordError(err)
	}
	a.metrics.ObserveWebhookLatency(outcome, time.Since(start).Seconds())
}

// SendMessage sends a text message to the given WhatsApp id. Failures are
// logged and returned; the conversation state is left as committed.
func (a *Adapter) SendMessage(ctx context.Context, to, text string) error {
	resp, err := a.client.SendTextMessage(ctx, to, text)
	if err != nil {
		a.metrics.ObserveOutbound("failed")
		a.logger.Error("whatsapp: failed to send message",
			"to", to,
			"error", err,
		)
		return err
	}
	a.metrics.ObserveOutbound("sent")
	var messageID string
	if len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	a.logger.Debug("whatsapp: message sent", "to", to, "message_id", messageID)
	return nil
}
