package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "token")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "555000")
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "verify-me")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "cursos_personalizados.json", cfg.CatalogPath)
	assert.Equal(t, CatalogRefresh, cfg.CatalogRefreshInterval)
	assert.Equal(t, LLMRequest, cfg.LLMTimeout)
	assert.Equal(t, MessageProcessing, cfg.MessageTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.SessionsDBPath)
	assert.False(t, cfg.S3Configured())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "1h")
	t.Setenv("SESSIONS_DB_PATH", "/data/sessions.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, time.Hour, cfg.CatalogRefreshInterval)
	assert.Equal(t, "/data/sessions.db", cfg.SessionsDBPath)
}

func TestLoadIgnoresInvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("LLM_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, LLMRequest, cfg.LLMTimeout)
}

func TestValidateMissingRequired(t *testing.T) {
	cfg := &Config{
		Port:           "8080",
		LLMTimeout:     time.Second,
		MessageTimeout: time.Second,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHATSAPP_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "WHATSAPP_PHONE_NUMBER_ID")
	assert.Contains(t, err.Error(), "WHATSAPP_VERIFY_TOKEN")
}

func TestS3Configured(t *testing.T) {
	cfg := &Config{
		CatalogS3Endpoint:    "https://acc.r2.cloudflarestorage.com",
		CatalogS3AccessKeyID: "key",
		CatalogS3SecretKey:   "secret",
		CatalogS3Bucket:      "catalog",
	}
	assert.True(t, cfg.S3Configured())

	cfg.CatalogS3Bucket = ""
	assert.False(t, cfg.S3Configured())
}

func TestValidateS3NeedsKey(t *testing.T) {
	cfg := &Config{
		WhatsAppToken:        "t",
		WhatsAppPhoneID:      "p",
		WhatsAppVerifyToken:  "v",
		Port:                 "8080",
		LLMTimeout:           time.Second,
		MessageTimeout:       time.Second,
		CatalogS3Endpoint:    "https://acc.r2.cloudflarestorage.com",
		CatalogS3AccessKeyID: "key",
		CatalogS3SecretKey:   "secret",
		CatalogS3Bucket:      "catalog",
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_S3_KEY")
}
