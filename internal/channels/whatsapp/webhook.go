package whatsapp

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	objectBusinessAccount = "whatsapp_business_account"
	fieldMessages         = "messages"
	maxWebhookBody        = 1 << 20
)

// WebhookHandler handles WhatsApp webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	appSecret   string
	onMessage   func(ctx context.Context, msg ParsedInboundMessage)
}

// NewWebhookHandler creates a new webhook handler.
// onMessage is called for each parsed inbound message. When appSecret is
// empty the X-Hub-Signature-256 header is not checked.
func NewWebhookHandler(verifyToken, appSecret string, onMessage func(context.Context, ParsedInboundMessage)) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		appSecret:   appSecret,
		onMessage:   onMessage,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	if h.verifyToken == "" {
		http.Error(w, "Verify token not configured", http.StatusInternalServerError)
		return
	}

	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && hmac.Equal([]byte(token), []byte(h.verifyToken)) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook events (incoming messages).
// The event is acknowledged before messages are processed.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if h.appSecret != "" {
		signature := r.Header.Get("X-Hub-Signature-256")
		if !VerifySignature(h.appSecret, body, signature) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	// Must respond 200 quickly to avoid Meta retries
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "EVENT_RECEIVED")

	if h.onMessage == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	for _, msg := range ParseWebhookEvent(event) {
		h.onMessage(ctx, msg)
	}
}

// ParseWebhookEvent extracts the first message of every "messages" change
// of a WhatsApp business account event.
func ParseWebhookEvent(event WebhookEvent) []ParsedInboundMessage {
	if event.Object != objectBusinessAccount {
		return nil
	}

	var messages []ParsedInboundMessage
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if change.Field != fieldMessages || change.Value == nil || len(change.Value.Messages) == 0 {
				continue
			}
			m := change.Value.Messages[0]
			parsed := ParsedInboundMessage{
				From:          m.From,
				PhoneNumberID: change.Value.Metadata.PhoneNumberID,
				MessageID:     m.ID,
				Type:          m.Type,
				Timestamp:     parseUnixSeconds(m.Timestamp),
			}
			if m.Text != nil {
				parsed.Text = m.Text.Body
			}
			for _, c := range change.Value.Contacts {
				if c.WaID == m.From {
					parsed.ProfileName = c.Profile.Name
					break
				}
			}
			messages = append(messages, parsed)
		}
	}
	return messages
}

// VerifySignature verifies the X-Hub-Signature-256 header.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}

	// Signature format: "sha256=<hex>"
	const prefix = "sha256="
	if len(signature) <= len(prefix) || signature[:len(prefix)] != prefix {
		return false
	}
	sigHex := signature[len(prefix):]

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}

func parseUnixSeconds(s string) time.Time {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
