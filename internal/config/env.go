// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Core (Required)
	EnvAppSecret       = "CRICBOT_APP_SECRET"
	EnvVerifyToken     = "CRICBOT_VERIFY_TOKEN"
	EnvPageAccessToken = "CRICBOT_PAGE_ACCESS_TOKEN"
	EnvServerURL       = "CRICBOT_SERVER_URL"

	// Server
	EnvPort            = "CRICBOT_PORT"
	EnvLogLevel        = "CRICBOT_LOG_LEVEL"
	EnvShutdownTimeout = "CRICBOT_SHUTDOWN_TIMEOUT"

	// Platform send API
	EnvSendAPIURL  = "CRICBOT_SEND_API_URL"
	EnvSendTimeout = "CRICBOT_SEND_TIMEOUT"

	// Content API
	EnvContentAPIURL    = "CRICBOT_CONTENT_API_URL"
	EnvContentTimeout   = "CRICBOT_CONTENT_TIMEOUT"
	EnvContentPageSize  = "CRICBOT_CONTENT_PAGE_SIZE"

	// Data
	EnvDataDir = "CRICBOT_DATA_DIR"

	// Webhook
	EnvStrictSignature = "CRICBOT_STRICT_SIGNATURE"

	// Sentry Feature
	EnvSentryToken       = "CRICBOT_SENTRY_TOKEN"
	EnvSentryHost        = "CRICBOT_SENTRY_HOST"
	EnvSentryEnvironment = "CRICBOT_SENTRY_ENVIRONMENT"

	// Better Stack Feature
	EnvBetterStackToken    = "CRICBOT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "CRICBOT_BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsUsername = "CRICBOT_METRICS_USERNAME"
	EnvMetricsPassword = "CRICBOT_METRICS_PASSWORD"
)
