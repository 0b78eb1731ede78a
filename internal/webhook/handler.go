// Package webhook receives WhatsApp Cloud API notifications and
// dispatches inbound messages to the bot processor.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/ctxutil"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/dispatch"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
)

// Processor resolves one message into a reply. An empty reply means
// nothing should be sent.
type Processor interface {
	Process(ctx context.Context, conversationID, text string) string
}

// Sender delivers replies back to the user.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Metrics receives webhook events. A nil Metrics disables recording.
type Metrics interface {
	RecordWebhook(status string, duration time.Duration)
	RecordSendError()
}

// Handler handles the Cloud API verification handshake and message
// notifications.
type Handler struct {
	verifyToken string
	appSecret   string
	processor   Processor
	sender      Sender
	dispatcher  *dispatch.KeyedDispatcher
	metrics     Metrics
	log         *logger.Logger

	// replyTimeout bounds processing plus delivery of one message.
	replyTimeout time.Duration
}

// HandlerConfig holds configuration for creating a Handler.
type HandlerConfig struct {
	// VerifyToken must match the token configured in the Meta app
	// dashboard for the GET handshake.
	VerifyToken string
	// AppSecret signs notification bodies. Empty disables signature
	// checking (local development only).
	AppSecret string
	// ReplyTimeout bounds handling of one message. Defaults to 60s.
	ReplyTimeout time.Duration

	Processor  Processor
	Sender     Sender
	Dispatcher *dispatch.KeyedDispatcher
	Metrics    Metrics
	Logger     *logger.Logger
}

// NewHandler creates a webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	replyTimeout := cfg.ReplyTimeout
	if replyTimeout == 0 {
		replyTimeout = 60 * time.Second
	}

	return &Handler{
		verifyToken:  cfg.VerifyToken,
		appSecret:    cfg.AppSecret,
		processor:    cfg.Processor,
		sender:       cfg.Sender,
		dispatcher:   cfg.Dispatcher,
		metrics:      cfg.Metrics,
		log:          cfg.Logger.WithModule("webhook"),
		replyTimeout: replyTimeout,
	}
}

// HandleVerify is the Gin handler for the GET verification handshake.
// Meta calls it once when the webhook URL is registered.
func (h *Handler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken {
		h.log.Warn("Webhook verification rejected")
		c.Status(http.StatusForbidden)
		return
	}

	h.log.Info("Webhook verified")
	c.String(http.StatusOK, challenge)
}

// HandleNotification is the Gin handler for POST notifications. It
// acknowledges immediately and processes messages asynchronously;
// Meta retries deliveries that don't get a timely 200.
func (h *Handler) HandleNotification(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.log.WithError(err).Error("Failed to read webhook body")
		c.Status(http.StatusInternalServerError)
		return
	}

	if !h.validSignature(body, c.GetHeader("X-Hub-Signature-256")) {
		h.log.Warn("Invalid webhook signature")
		if h.metrics != nil {
			h.metrics.RecordWebhook("bad_signature", time.Since(start))
		}
		c.Status(http.StatusUnauthorized)
		return
	}

	var notification Notification
	if err := json.Unmarshal(body, &notification); err != nil {
		h.log.WithError(err).Error("Failed to parse webhook body")
		c.Status(http.StatusBadRequest)
		return
	}

	// Acknowledge before doing any work.
	c.Status(http.StatusOK)

	for _, msg := range notification.textMessages() {
		h.enqueue(msg)
	}
	if h.metrics != nil {
		h.metrics.RecordWebhook("received", time.Since(start))
	}
}

// enqueue hands a message to the per-conversation queue, so each
// conversation is processed strictly in order.
func (h *Handler) enqueue(msg Message) {
	conversationID := msg.From
	text := strings.TrimSpace(msg.Text.Body)
	if text == "" {
		return
	}

	requestID := uuid.New().String()
	log := h.log.WithRequestID(requestID).WithField("conversation", conversationID)

	accepted := h.dispatcher.Enqueue(conversationID, func(baseCtx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic while processing message")
			}
		}()

		ctx, cancel := context.WithTimeout(baseCtx, h.replyTimeout)
		defer cancel()
		ctx = ctxutil.WithRequestID(ctx, requestID)
		ctx = ctxutil.WithConversationID(ctx, conversationID)

		start := time.Now()
		reply := h.processor.Process(ctx, conversationID, text)
		if reply == "" {
			return
		}

		if err := h.sender.SendText(ctx, conversationID, reply); err != nil {
			log.WithError(err).Error("Failed to send reply")
			if h.metrics != nil {
				h.metrics.RecordSendError()
			}
			return
		}

		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("Message processed")
	})
	if !accepted {
		log.Warn("Dispatcher closed; message dropped")
	}
}

// validSignature checks the Meta HMAC-SHA256 body signature.
func (h *Handler) validSignature(body []byte, header string) bool {
	if h.appSecret == "" {
		return true
	}

	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(header[len(prefix):]))
}
