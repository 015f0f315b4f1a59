package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/metrics"
)

// Client delivers composed payloads to the platform send endpoint.
// Sends are never retried; a failure is logged and surfaced to the
// caller, which degrades without propagating to the webhook response.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	accessToken string
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewClient creates a send API client.
func NewClient(endpoint, accessToken string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		endpoint:    endpoint,
		accessToken: accessToken,
		metrics:     m,
		logger:      log.WithModule("send"),
	}
}

// Send posts one payload to the send endpoint. The access token is
// carried as a query parameter per the platform contract.
func (c *Client) Send(ctx context.Context, payload *SendRequest) error {
	start := time.Now()
	payloadType := payload.PayloadType()

	err := c.send(ctx, payload)

	status := "success"
	if err != nil {
		status = "error"
		c.logger.WithError(err).
			WithField("payload_type", payloadType).
			WithField("recipient_id", payload.Recipient.ID).
			Error("Failed to deliver payload")
	} else {
		c.logger.WithField("payload_type", payloadType).
			WithField("recipient_id", payload.Recipient.ID).
			Debug("Payload delivered")
	}
	c.metrics.RecordSend(payloadType, status, time.Since(start).Seconds())

	return err
}

func (c *Client) send(ctx context.Context, payload *SendRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	endpoint := c.endpoint + "?access_token=" + url.QueryEscape(c.accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Read a bounded snippet of the error body for diagnostics.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &apperrors.SendError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	return nil
}
