package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds *prometheus.HistogramVec

	// Outbound send metrics
	SendRequestsTotal   *prometheus.CounterVec
	SendDurationSeconds *prometheus.HistogramVec

	// Content API metrics
	ContentFetchTotal           *prometheus.CounterVec
	ContentFetchDurationSeconds *prometheus.HistogramVec

	// Signature verification metrics
	SignatureFailuresTotal *prometheus.CounterVec

	// Intent metrics
	IntentMatchesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cricbot_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"}, // status: success, error, dropped
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cricbot_webhook_duration_seconds",
				Help:    "Webhook event processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"event_type"}, // event_type: message, postback, optin, ...
		),

		SendRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cricbot_send_requests_total",
				Help: "Total number of send API calls by payload type and status",
			},
			[]string{"payload_type", "status"}, // payload_type: text, generic_template, ...
		),

		SendDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cricbot_send_duration_seconds",
				Help:    "Send API call duration in seconds by payload type",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"payload_type"},
		),

		ContentFetchTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cricbot_content_fetch_total",
				Help: "Total number of content API requests by operation and status",
			},
			[]string{"operation", "status"}, // operation: search, latest
		),

		ContentFetchDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cricbot_content_fetch_duration_seconds",
				Help:    "Content API request duration in seconds by operation",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"operation"},
		),

		SignatureFailuresTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cricbot_signature_failures_total",
				Help: "Total number of webhook signature verification failures by mode",
			},
			[]string{"mode"}, // mode: strict, lenient
		),

		IntentMatchesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "cricbot_intent_matches_total",
				Help: "Total number of matched intents by kind",
			},
			[]string{"kind"},
		),
	}

	return m
}

// RecordWebhook records a processed webhook event
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordSend records a send API call
func (m *Metrics) RecordSend(payloadType, status string, duration float64) {
	m.SendRequestsTotal.WithLabelValues(payloadType, status).Inc()
	m.SendDurationSeconds.WithLabelValues(payloadType).Observe(duration)
}

// RecordContentFetch records a content API request
func (m *Metrics) RecordContentFetch(operation, status string, duration float64) {
	m.ContentFetchTotal.WithLabelValues(operation, status).Inc()
	m.ContentFetchDurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordSignatureFailure records a failed signature verification
func (m *Metrics) RecordSignatureFailure(mode string) {
	m.SignatureFailuresTotal.WithLabelValues(mode).Inc()
}

// RecordIntentMatch records a matched intent
func (m *Metrics) RecordIntentMatch(kind string) {
	m.IntentMatchesTotal.WithLabelValues(kind).Inc()
}
