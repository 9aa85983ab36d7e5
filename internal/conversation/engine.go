package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/whatsapp-menu-bot/internal/observability/metrics"
	"github.com/wolfman30/whatsapp-menu-bot/pkg/logging"
)

// Engine advances per-user menu sessions and produces reply text.
type Engine struct {
	store   SessionStore
	flow    Flow
	locks   *keyedMutex
	metrics *metrics.ConversationMetrics
	tracer  trace.Tracer
	logger  *logging.Logger
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithMetrics records transitions, reprompts and failures.
func WithMetrics(m *metrics.ConversationMetrics) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer overrides the OpenTelemetry tracer.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// NewEngine creates an engine that owns store and dispatches through flow.
func NewEngine(store SessionStore, flow Flow, logger *logging.Logger, opts ...EngineOption) *Engine {
	if store == nil {
		panic("conversation: session store cannot be nil")
	}
	if flow == nil {
		panic("conversation: flow cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		store:  store,
		flow:   flow,
		locks:  newKeyedMutex(),
		tracer: otel.Tracer("menubot.internal.conversation"),
		logger: logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Handle answers one inbound message. It always returns a reply: any
// failure resets the user to the main menu and answers with an apology
// followed by the main menu.
func (e *Engine) Handle(ctx context.Context, userID, message string) (reply string) {
	ctx, span := e.tracer.Start(ctx, "conversation.handle")
	defer span.End()

	unlock := e.locks.Lock(userID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			reply = e.fail(ctx, span, userID, "panic", fmt.Errorf("conversation: handler panic: %v", r))
		}
	}()

	reply, err := e.step(ctx, span, userID, message)
	if err != nil {
		return e.fail(ctx, span, userID, "error", err)
	}
	return reply
}

func (e *Engine) step(ctx context.Context, span trace.Span, userID, message string) (string, error) {
	session, err := e.store.Get(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("conversation: get session: %w", err)
	}
	if session == nil {
		session = NewSession(userID)
	}

	input := strings.TrimSpace(message)
	current := session.State
	if !current.Valid() {
		e.logger.Warn("conversation: resetting unknown state",
			"user_id", userID,
			"state", string(current),
			"error", ErrUnknownState,
		)
		current = StateMainMenu
	}

	handler, ok := e.flow[current]
	if !ok || handler == nil {
		return "", fmt.Errorf("conversation: no handler for %s: %w", current, ErrUnknownState)
	}

	out, err := handler.Handle(ctx, input)
	if err != nil {
		return "", fmt.Errorf("conversation: handle %s: %w", current, err)
	}
	if out.Reply == "" {
		return "", fmt.Errorf("conversation: empty reply from %s", current)
	}
	if !out.Next.Valid() {
		return "", fmt.Errorf("conversation: %s produced %w %q", current, ErrUnknownState, out.Next)
	}

	session.State = out.Next
	if err := e.store.Set(ctx, userID, session); err != nil {
		return "", fmt.Errorf("conversation: set session: %w", err)
	}

	span.SetAttributes(
		attribute.String("menubot.state.from", string(current)),
		attribute.String("menubot.state.to", string(out.Next)),
		attribute.Bool("menubot.option.matched", out.Matched),
	)
	if out.Matched {
		e.metrics.ObserveTransition(string(current), string(out.Next))
	} else {
		e.metrics.ObserveReprompt(string(current))
	}
	e.logger.Debug("conversation: message handled",
		"user_id", userID,
		"from", string(current),
		"to", string(out.Next),
		"matched", out.Matched,
	)
	return out.Reply, nil
}

func (e *Engine) fail(ctx context.Context, span trace.Span, userID, reason string, err error) string {
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	e.metrics.ObserveFailure(reason)
	e.logger.Error("conversation: failed to handle message",
		"user_id", userID,
		"reason", reason,
		"error", err,
	)

	if resetErr := e.reset(ctx, userID); resetErr != nil {
		e.logger.Error("conversation: failed to reset session",
			"user_id", userID,
			"error", errors.Join(err, resetErr),
		)
	}
	return ApologyPrefix + MainMenuText()
}

// reset forces the stored session back to the main menu.
func (e *Engine) reset(ctx context.Context, userID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversation: store panic: %v", r)
		}
	}()
	return e.store.Set(ctx, userID, NewSession(userID))
}
