// Package main provides the Messenger cricket bot server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cricbot/cricbot-go/internal/account"
	"github.com/cricbot/cricbot-go/internal/composer"
	"github.com/cricbot/cricbot-go/internal/config"
	"github.com/cricbot/cricbot-go/internal/content"
	"github.com/cricbot/cricbot-go/internal/logger"
	"github.com/cricbot/cricbot-go/internal/messenger"
	"github.com/cricbot/cricbot-go/internal/metrics"
	"github.com/cricbot/cricbot-go/internal/sentry"
	"github.com/cricbot/cricbot-go/internal/tables"
	"github.com/cricbot/cricbot-go/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.WithField("version", version).Info("Starting CricBot server")

	// Initialize error tracking
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     "cricbot-go@" + version,
	}); err != nil {
		log.WithError(err).Error("Failed to initialize error tracking")
		os.Exit(1)
	}
	defer sentry.Flush(2 * time.Second)
	if sentry.IsEnabled() {
		log.Info("Error tracking enabled")
	}

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Load static tables
	termTable, err := tables.LoadTermTable(cfg.TermTablePath())
	if err != nil {
		log.WithError(err).Error("Failed to load term table")
		os.Exit(1)
	}
	jokeTable, err := tables.LoadJokeTable(cfg.JokeTablePath())
	if err != nil {
		log.WithError(err).Error("Failed to load joke table")
		os.Exit(1)
	}
	log.WithField("terms", termTable.Len()).
		WithField("jokes", jokeTable.Len()).
		Info("Static tables loaded")

	// Create clients and composer
	contentClient := content.NewClient(cfg.ContentAPIURL, cfg.ContentTimeout, m, log)
	sendClient := messenger.NewClient(cfg.SendAPIURL, cfg.PageAccessToken, cfg.SendTimeout, m, log)
	replyComposer := composer.New(contentClient, termTable, jokeTable, cfg.ContentPageSize, log)

	// Create handlers
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		AppSecret:       cfg.AppSecret,
		VerifyToken:     cfg.VerifyToken,
		StrictSignature: cfg.StrictSignature,
		Sender:          sendClient,
		Composer:        replyComposer,
		Metrics:         m,
		Logger:          log,
	})
	accountHandler := account.NewHandler(log)
	log.Info("Handlers created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	router.Use(sentryMiddleware())

	setupRoutes(router, cfg, webhookHandler, accountHandler, contentClient, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	// Let in-flight webhook event processing drain
	if err := webhookHandler.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Webhook processing did not drain before timeout")
	}

	log.Info("Server stopped")
}
