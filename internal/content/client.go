// Package content provides the remote publication API client. Documents
// are fetched per request, used once as composition input, and never
// cached or persisted.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/cricbot/cricbot-go/internal/errors"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/metrics"
)

// Client fetches publication documents from the content API.
// Fetches are not retried; failures degrade at the composer into a
// typing-off indicator, so a slow retry loop would only burn the
// platform's acknowledgment window.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates a content API client.
func NewClient(baseURL string, timeout time.Duration, m *metrics.Metrics, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: baseURL,
		metrics: m,
		logger:  log.WithModule("content"),
	}
}

// response is the wire envelope of a document query.
type response struct {
	Documents []Document `json:"documents"`
}

// Search queries documents by keyword and returns up to pageSize summaries.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]PublicationSummary, error) {
	return c.fetch(ctx, "search", query, pageSize, false)
}

// Latest returns up to n most-recent documents for a topic filter.
func (c *Client) Latest(ctx context.Context, topicQuery string, n int) ([]PublicationSummary, error) {
	return c.fetch(ctx, "latest", topicQuery, n, true)
}

func (c *Client) fetch(ctx context.Context, operation, query string, pageSize int, includeFuture bool) ([]PublicationSummary, error) {
	start := time.Now()

	summaries, err := c.doFetch(ctx, query, pageSize, includeFuture)

	status := "success"
	if err != nil {
		status = "error"
		c.logger.WithError(err).
			WithField("operation", operation).
			WithField("query", query).
			Error("Content fetch failed")
	}
	c.metrics.RecordContentFetch(operation, status, time.Since(start).Seconds())

	return summaries, err
}

func (c *Client) doFetch(ctx context.Context, query string, pageSize int, includeFuture bool) ([]PublicationSummary, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page", "1")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("includeFuture", strconv.FormatBool(includeFuture))

	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create content request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewFetchError(c.baseURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewFetchError(c.baseURL, resp.StatusCode, fmt.Errorf("unexpected status"))
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewFetchError(c.baseURL, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	summaries := make([]PublicationSummary, 0, len(decoded.Documents))
	for _, doc := range decoded.Documents {
		summaries = append(summaries, doc.Summary())
	}
	return summaries, nil
}
