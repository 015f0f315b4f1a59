// Package webhook provides the Messenger webhook endpoints: the GET
// subscription handshake and the POST callback that classifies events
// and dispatches composed replies.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cricbot/cricbot-go/internal/composer"
	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/cricbot/cricbot-go/internal/intent"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/messenger"
	"github.com/cricbot/cricbot-go/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	optinReplyText    = "You're all set. Ask me about players, terms, or the latest news!"
	postbackReplyText = "Got it, thanks!"
)

// Sender delivers one composed payload to the platform.
type Sender interface {
	Send(ctx context.Context, payload *messenger.SendRequest) error
}

// Handler handles Messenger webhook requests. Event processing is
// asynchronous; the callback acknowledges before replies are dispatched.
type Handler struct {
	appSecret       string
	verifyToken     string
	strictSignature bool
	sender          Sender
	composer        *composer.Composer
	metrics         *metrics.Metrics
	logger          *logger.Logger
	wg              sync.WaitGroup
}

// HandlerConfig holds configuration for creating a new Handler.
type HandlerConfig struct {
	AppSecret       string
	VerifyToken     string
	StrictSignature bool
	Sender          Sender
	Composer        *composer.Composer
	Metrics         *metrics.Metrics
	Logger          *logger.Logger
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		appSecret:       cfg.AppSecret,
		verifyToken:     cfg.VerifyToken,
		strictSignature: cfg.StrictSignature,
		sender:          cfg.Sender,
		composer:        cfg.Composer,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger.WithModule("webhook"),
	}
}

// HandleVerify is the Gin handler for the GET subscription handshake.
// A matching verify token echoes the challenge back with 200; anything
// else is rejected with 403.
func (h *Handler) HandleVerify(c *gin.Context) {
	token := c.Query("hub.verify_token")
	if token != h.verifyToken {
		h.logger.WithError(apperrors.ErrVerifyTokenMismatch).
			WithField("hub_mode", c.Query("hub.mode")).
			Warn("Webhook verification rejected")
		c.Status(http.StatusForbidden)
		return
	}
	c.String(http.StatusOK, c.Query("hub.challenge"))
}

// HandleCallback is the Gin handler for the POST webhook delivery.
func (h *Handler) HandleCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read webhook body")
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := messenger.VerifySignature(h.appSecret, body, c.GetHeader(messenger.SignatureHeader)); err != nil {
		if h.strictSignature {
			h.metrics.RecordSignatureFailure("strict")
			h.logger.WithError(err).Warn("Webhook signature rejected")
			c.Status(http.StatusForbidden)
			return
		}
		h.metrics.RecordSignatureFailure("lenient")
		h.logger.WithError(err).Warn("Webhook signature mismatch; processing anyway")
	}

	var envelope messenger.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		h.logger.WithError(err).Error("Failed to parse webhook envelope")
		c.Status(http.StatusBadRequest)
		return
	}

	// Acknowledge before processing; the platform redelivers on slow
	// responses.
	c.Status(http.StatusOK)

	if envelope.Object != "page" {
		h.logger.WithField("object", envelope.Object).Debug("Ignoring non-page delivery")
		return
	}

	start := time.Now()
	events := make([]messenger.RawEvent, 0, len(envelope.Entry))
	for _, entry := range envelope.Entry {
		events = append(events, entry.Messaging...)
	}

	h.wg.Go(func() {
		defer func() {
			if r := recover(); r != nil {
				h.logger.WithField("panic", r).Error("Panic in async event processing")
			}
		}()

		processingCtx := context.Background()
		for _, raw := range events {
			h.processEvent(processingCtx, messenger.Classify(raw), start)
		}
	})
}

// processEvent handles a single classified event asynchronously.
func (h *Handler) processEvent(ctx context.Context, event messenger.Event, webhookStart time.Time) {
	eventStart := time.Now()
	eventType := event.Type()

	var err error
	switch e := event.(type) {
	case messenger.MessageEvent:
		err = h.handleMessage(ctx, e)
	case messenger.OptinEvent:
		h.logger.WithField("ref", e.Ref).Info("Authentication optin received")
		err = h.dispatch(ctx, messenger.NewText(e.SenderID, optinReplyText))
	case messenger.PostbackEvent:
		h.logger.WithField("payload", e.Payload).Info("Postback received")
		err = h.dispatch(ctx, messenger.NewText(e.SenderID, postbackReplyText))
	case messenger.DeliveryEvent:
		h.logger.WithField("watermark", e.Watermark).Debug("Delivery receipt")
	case messenger.ReadEvent:
		h.logger.WithField("watermark", e.Watermark).Debug("Read receipt")
	case messenger.AccountLinkEvent:
		h.logger.WithField("status", e.Status).Info("Account link update")
	default:
		h.logger.WithField("event_type", eventType).Warn("Unknown event dropped")
		h.metrics.RecordWebhook(eventType, "dropped", time.Since(eventStart).Seconds())
		return
	}

	status := "success"
	if err != nil {
		status = "error"
		h.logger.WithError(err).WithField("event_type", eventType).Error("Failed to handle event")
	}
	h.metrics.RecordWebhook(eventType, status, time.Since(eventStart).Seconds())

	h.logger.WithField("event_type", eventType).
		WithField("event_duration_ms", time.Since(eventStart).Milliseconds()).
		WithField("batch_duration_ms", time.Since(webhookStart).Milliseconds()).
		Info("Event processed")
}

// handleMessage marks the message seen, matches intents, and dispatches
// every composed reply in order. Echoes of the page's own messages are
// skipped to avoid reply loops.
func (h *Handler) handleMessage(ctx context.Context, e messenger.MessageEvent) error {
	if e.IsEcho {
		h.logger.WithField("mid", e.MessageID).Debug("Skipping echo of own message")
		return nil
	}

	var errs []error
	if err := h.dispatch(ctx, messenger.NewSenderAction(e.SenderID, messenger.ActionMarkSeen)); err != nil {
		errs = append(errs, err)
	}

	for _, matched := range intent.Match(e.Text, e.QuickReplyPayload, e.HasAttachments()) {
		h.metrics.RecordIntentMatch(string(matched.Kind))
		for _, request := range h.composer.Compose(ctx, e.SenderID, matched) {
			if err := h.dispatch(ctx, request); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (h *Handler) dispatch(ctx context.Context, request *messenger.SendRequest) error {
	return h.sender.Send(ctx, request)
}

// Shutdown waits for all async event processing to complete.
// It returns an error if the context is canceled before completion.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
