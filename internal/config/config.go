// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, timeouts, and external API endpoints.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Messenger platform credentials
	AppSecret       string // Keyed-hash secret for inbound webhook signatures
	VerifyToken     string // Shared secret for the subscription handshake
	PageAccessToken string // Credential for the send endpoint
	ServerURL       string // Externally reachable base URL of this service

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Platform send API
	SendAPIURL  string
	SendTimeout time.Duration

	// Content API
	ContentAPIURL   string
	ContentTimeout  time.Duration
	ContentPageSize int

	// Data Configuration
	DataDir string // Directory holding the static term and joke tables

	// Webhook behavior
	// StrictSignature rejects requests whose signature does not verify.
	// When false a mismatch is only logged.
	StrictSignature bool

	// Sentry (Better Stack error tracking)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string

	// Better Stack log shipping
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics endpoint Basic Auth (empty password = no auth)
	MetricsUsername string
	MetricsPassword string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		AppSecret:       getEnv(EnvAppSecret, ""),
		VerifyToken:     getEnv(EnvVerifyToken, ""),
		PageAccessToken: getEnv(EnvPageAccessToken, ""),
		ServerURL:       getEnv(EnvServerURL, ""),

		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, 30*time.Second),

		SendAPIURL:  getEnv(EnvSendAPIURL, "https://graph.facebook.com/v2.6/me/messages"),
		SendTimeout: getDurationEnv(EnvSendTimeout, 10*time.Second),

		ContentAPIURL:   getEnv(EnvContentAPIURL, "https://content-api.wisden.com/api/v2/content"),
		ContentTimeout:  getDurationEnv(EnvContentTimeout, 15*time.Second),
		ContentPageSize: getIntEnv(EnvContentPageSize, 5),

		DataDir: getEnv(EnvDataDir, "./data"),

		StrictSignature: getBoolEnv(EnvStrictSignature, true),

		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.AppSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvAppSecret))
	}
	if c.VerifyToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvVerifyToken))
	}
	if c.PageAccessToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPageAccessToken))
	}
	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvServerURL))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.ContentTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvContentTimeout, c.ContentTimeout))
	}
	if c.SendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSendTimeout, c.SendTimeout))
	}
	if c.ContentPageSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvContentPageSize, c.ContentPageSize))
	}
	if c.DataDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvDataDir))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TermTablePath returns the full path to the term/definition table file.
func (c *Config) TermTablePath() string {
	return filepath.Join(c.DataDir, "terms.json")
}

// JokeTablePath returns the full path to the joke table file.
func (c *Config) JokeTablePath() string {
	return filepath.Join(c.DataDir, "jokes.json")
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
