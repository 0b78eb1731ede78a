// Package main provides the WhatsApp bot server entry point.
package main

import (
	"net/http"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/config"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/genai"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/session"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, webhookHandler *webhook.Handler, catalogs *catalog.Store, sessions session.Store, answerer genai.Answerer, registry *prometheus.Registry, cfg *config.Config) {
	// Root endpoint - identifies the service
	rootHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "camila-whatsapp-bot"})
	}
	router.GET("/", rootHandler)
	router.HEAD("/", rootHandler)

	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		// Check the session store with a throwaway lookup
		if _, err := sessions.Get(c.Request.Context(), "readiness-probe"); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		cat := catalogs.Current()

		generative := "disabled"
		if answerer != nil {
			generative = string(answerer.Provider())
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"sessions": "connected",
			"catalog": gin.H{
				"courses":    cat.Len(),
				"localities": len(cat.Localities()),
			},
			"generative": generative,
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// WhatsApp Cloud API webhook endpoints. Meta sends the GET
	// verification handshake once and POST notifications afterwards.
	router.GET("/webhook", webhookHandler.HandleVerify)
	router.POST("/webhook", webhookHandler.HandleNotification)

	// Prometheus metrics endpoint
	router.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
}
