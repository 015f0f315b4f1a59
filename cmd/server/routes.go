// Package main provides the Messenger cricket bot server entry point.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/cricbot/cricbot-go/internal/account"
	"github.com/cricbot/cricbot-go/internal/config"
	"github.com/cricbot/cricbot-go/internal/content"
	"github.com/cricbot/cricbot-go/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	webhookHandler *webhook.Handler,
	accountHandler *account.Handler,
	contentClient *content.Client,
	registry *prometheus.Registry,
) {
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"name": "cricbot", "version": version})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Liveness probe: process is up, no dependency checks.
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe: quick content API reachability check. The bot can
	// still ack webhooks without the content API, so a failed check is
	// reported but does not flip the status.
	readyHandler := func(c *gin.Context) {
		checkCtx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		contentAvailable := false
		if _, err := contentClient.Latest(checkCtx, "cricket", 1); err == nil {
			contentAvailable = true
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"content_api": contentAvailable,
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Messenger webhook endpoints
	router.GET("/webhook", webhookHandler.HandleVerify)
	router.POST("/webhook", webhookHandler.HandleCallback)

	// Account-linking redirect endpoint
	router.GET("/authorize", accountHandler.HandleAuthorize)

	// Prometheus metrics endpoint, Basic Auth when a password is set
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
