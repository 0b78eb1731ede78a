// Package config provides application configuration management.
// It loads settings from environment variables, with an optional .env
// file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// WhatsApp Cloud API Configuration
	WhatsAppToken       string // Graph API bearer token
	WhatsAppPhoneID     string // Cloud API phone number id
	WhatsAppVerifyToken string // Webhook GET handshake token
	WhatsAppAppSecret   string // App secret for webhook signatures (empty disables checking)

	// LLM Configuration
	OpenAIAPIKey string // OpenAI API key (primary provider)
	OpenAIModel  string // Optional model override
	GeminiAPIKey string // Gemini API key (fallback provider)
	GeminiModel  string // Optional model override
	LLMTimeout   time.Duration

	// Catalog Configuration
	CatalogPath            string        // Local JSON file with the course list
	CatalogRefreshInterval time.Duration // 0 disables periodic reloads
	CatalogS3Endpoint      string        // Optional S3/R2 source; set all four to enable
	CatalogS3AccessKeyID   string
	CatalogS3SecretKey     string
	CatalogS3Bucket        string
	CatalogS3Key           string

	// Session Configuration
	SessionsDBPath string // SQLite file for sessions; empty keeps them in memory

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	MessageTimeout  time.Duration

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)

	// Sentry Configuration
	SentryDSN         string
	SentryEnvironment string

	// Better Stack Configuration
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Ignore error if the file doesn't exist.
	_ = godotenv.Load()

	cfg := &Config{
		WhatsAppToken:       getEnv("WHATSAPP_ACCESS_TOKEN", ""),
		WhatsAppPhoneID:     getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppVerifyToken: getEnv("WHATSAPP_VERIFY_TOKEN", ""),
		WhatsAppAppSecret:   getEnv("WHATSAPP_APP_SECRET", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", ""),
		LLMTimeout:   getDurationEnv("LLM_TIMEOUT", LLMRequest),

		CatalogPath:            getEnv("CATALOG_PATH", "cursos_personalizados.json"),
		CatalogRefreshInterval: getDurationEnv("CATALOG_REFRESH_INTERVAL", CatalogRefresh),
		CatalogS3Endpoint:      getEnv("CATALOG_S3_ENDPOINT", ""),
		CatalogS3AccessKeyID:   getEnv("CATALOG_S3_ACCESS_KEY_ID", ""),
		CatalogS3SecretKey:     getEnv("CATALOG_S3_SECRET_ACCESS_KEY", ""),
		CatalogS3Bucket:        getEnv("CATALOG_S3_BUCKET", ""),
		CatalogS3Key:           getEnv("CATALOG_S3_KEY", ""),

		SessionsDBPath: getEnv("SESSIONS_DB_PATH", ""),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
		MessageTimeout:  getDurationEnv("MESSAGE_TIMEOUT", MessageProcessing),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),

		BetterStackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterStackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set.
func (c *Config) Validate() error {
	var errs []error

	if c.WhatsAppToken == "" {
		errs = append(errs, errors.New("WHATSAPP_ACCESS_TOKEN is required"))
	}
	if c.WhatsAppPhoneID == "" {
		errs = append(errs, errors.New("WHATSAPP_PHONE_NUMBER_ID is required"))
	}
	if c.WhatsAppVerifyToken == "" {
		errs = append(errs, errors.New("WHATSAPP_VERIFY_TOKEN is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.LLMTimeout <= 0 {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT must be positive, got %v", c.LLMTimeout))
	}
	if c.MessageTimeout <= 0 {
		errs = append(errs, fmt.Errorf("MESSAGE_TIMEOUT must be positive, got %v", c.MessageTimeout))
	}
	if c.CatalogRefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("CATALOG_REFRESH_INTERVAL cannot be negative, got %v", c.CatalogRefreshInterval))
	}
	if c.S3Configured() && c.CatalogS3Key == "" {
		errs = append(errs, errors.New("CATALOG_S3_KEY is required when the S3 catalog source is configured"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// S3Configured reports whether the object-storage catalog source
// should be used instead of the local file.
func (c *Config) S3Configured() bool {
	return c.CatalogS3Endpoint != "" && c.CatalogS3AccessKeyID != "" &&
		c.CatalogS3SecretKey != "" && c.CatalogS3Bucket != ""
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable with a
// fallback default.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
