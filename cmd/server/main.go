// Package main provides the WhatsApp bot server entry point.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/PabloBorneman/whatsapp-bot-railway/internal/bot"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/catalog"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/config"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/dispatch"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/genai"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/metrics"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/sentry"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/session"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/webhook"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/whatsapp"
)

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
	log.Info("Starting Camila WhatsApp bot server")

	// Initialize Sentry error tracking (optional, requires DSN)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error tracking disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry initialized")
		defer sentry.Flush(2 * time.Second)
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()

	// Register Go and process collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	// Create metrics
	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Create session store. SQLite keeps conversation state across
	// restarts; without a path sessions live in memory only.
	var sessions session.Store
	if cfg.SessionsDBPath != "" {
		store, err := session.NewSQLiteStore(cfg.SessionsDBPath)
		if err != nil {
			log.WithError(err).Error("Failed to open sessions database")
			os.Exit(1)
		}
		sessions = store
		log.WithField("path", cfg.SessionsDBPath).Info("Sessions database connected")
	} else {
		sessions = session.NewMemoryStore()
		log.Info("Using in-memory session store")
	}
	defer func() { _ = sessions.Close() }()

	// Create catalog source (object storage when configured, local file otherwise)
	var source catalog.Source
	if cfg.S3Configured() {
		s3Source, err := catalog.NewS3Source(context.Background(), catalog.S3Config{
			Endpoint:    cfg.CatalogS3Endpoint,
			AccessKeyID: cfg.CatalogS3AccessKeyID,
			SecretKey:   cfg.CatalogS3SecretKey,
			Bucket:      cfg.CatalogS3Bucket,
			Key:         cfg.CatalogS3Key,
		})
		if err != nil {
			log.WithError(err).Error("Failed to create catalog object-storage source")
			os.Exit(1)
		}
		source = s3Source
	} else {
		source = catalog.FileSource{Path: cfg.CatalogPath}
	}

	// Load the course catalog. A failed initial load starts the bot
	// with an empty catalog; the refresh job keeps retrying.
	catalogs := catalog.NewStore(context.Background(), source, log)
	m.SetCatalogSize(catalogs.Current().Len())
	log.WithFields(map[string]any{
		"source":  source.Describe(),
		"courses": catalogs.Current().Len(),
	}).Info("Catalog loaded")

	// Create the generative answerer (optional, requires an API key).
	// Without one the bot answers rule-matched queries only.
	var answerer genai.Answerer
	fallback, err := genai.NewFallbackAnswerer(context.Background(), genai.Config{
		OpenAIKey:   cfg.OpenAIAPIKey,
		OpenAIModel: cfg.OpenAIModel,
		GeminiKey:   cfg.GeminiAPIKey,
		GeminiModel: cfg.GeminiModel,
		Retry:       genai.DefaultRetryConfig(),
	})
	switch {
	case errors.Is(err, genai.ErrNoProviders):
		log.Warn("No LLM API key configured, generative answers disabled")
	case err != nil:
		log.WithError(err).Error("Failed to create generative answerer")
		os.Exit(1)
	default:
		fallback.OnRetry = func(provider genai.Provider, attempt int, err error) {
			m.RecordGenerativeRetry(string(provider))
		}
		fallback.OnFallback = func(from genai.Provider, err error) {
			m.RecordGenerativeFallback(string(from))
			sentry.CaptureException(err)
		}
		answerer = fallback
		log.WithField("provider", string(fallback.Provider())).Info("Generative answerer created")
	}

	// Create message processor (rule cascade plus generative fallback)
	processor := bot.NewProcessor(catalogs, sessions, answerer, log, m)
	log.Info("Message processor created")

	// Create per-conversation dispatcher. Replies within one
	// conversation are delivered in arrival order.
	dispatcher := dispatch.NewKeyedDispatcher(context.Background())
	dispatcher.OnQueueCount(m.SetActiveConversations)

	// Create WhatsApp Cloud API client
	sender, err := whatsapp.New(whatsapp.Config{
		AccessToken:   cfg.WhatsAppToken,
		PhoneNumberID: cfg.WhatsAppPhoneID,
		Timeout:       config.SendRequest,
	}, log)
	if err != nil {
		log.WithError(err).Error("Failed to create WhatsApp client")
		os.Exit(1)
	}

	// Create webhook handler
	webhookHandler := webhook.NewHandler(webhook.HandlerConfig{
		VerifyToken:  cfg.WhatsAppVerifyToken,
		AppSecret:    cfg.WhatsAppAppSecret,
		ReplyTimeout: cfg.MessageTimeout,
		Processor:    processor,
		Sender:       sender,
		Dispatcher:   dispatcher,
		Metrics:      m,
		Logger:       log,
	})
	log.Info("Webhook handler created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(log))
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	// Setup routes
	setupRoutes(router, webhookHandler, catalogs, sessions, answerer, registry, cfg)

	// Create HTTP server with timeouts sized for Cloud API webhooks
	// See internal/config/timeouts.go for detailed explanations
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Catalog refresh goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("Panic in catalog refresh goroutine")
			}
		}()
		refreshCatalog(ctx, catalogs, m, log, cfg.CatalogRefreshInterval)
	}()

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Cancel context to stop the catalog refresh job
	cancel()

	// Wait for goroutines to finish (with timeout)
	goDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(goDone)
	}()

	select {
	case <-goDone:
		log.Info("All background goroutines stopped")
	case <-time.After(5 * time.Second):
		log.Warn("Timeout waiting for goroutines to stop")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Drain in-flight conversations before closing the listener so
	// accepted messages still get their replies.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Timeout draining conversation queues")
	}

	// Shutdown server gracefully
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	// Close the generative answerer (if enabled)
	if answerer != nil {
		if err := answerer.Close(); err != nil {
			log.WithError(err).Error("Failed to close generative answerer")
		}
	}

	// Close the session store
	if err := sessions.Close(); err != nil {
		log.WithError(err).Error("Failed to close session store")
	}

	log.Info("Server stopped")
}
