// Package config provides application configuration management.
package config

import "time"

// Webhook timeouts
const (
	// MessageProcessing is the timeout for handling a single inbound
	// message, including the generative backend call and reply
	// delivery. Meta retries undelivered webhooks, so the
	// acknowledgement itself is immediate; this bounds the async work.
	MessageProcessing = 60 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout. Cloud API
	// payloads are small JSON bodies.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	WebhookHTTPWrite = 15 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive
	// connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Outbound call timeouts
const (
	// LLMRequest bounds one generative backend call.
	LLMRequest = 30 * time.Second

	// SendRequest bounds one Cloud API message delivery.
	SendRequest = 10 * time.Second
)

// Background job defaults
const (
	// CatalogRefresh is the default interval between catalog reloads.
	CatalogRefresh = 15 * time.Minute
)
