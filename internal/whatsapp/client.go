// Package whatsapp sends messages through the WhatsApp Cloud API
// (Graph API). Only outbound text messages are needed; inbound traffic
// arrives via the webhook.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/PabloBorneman/whatsapp-bot-railway/internal/errors"
	"github.com/PabloBorneman/whatsapp-bot-railway/internal/logger"
)

const defaultBaseURL = "https://graph.facebook.com/v21.0"

// Config holds Cloud API credentials.
type Config struct {
	// AccessToken is the Graph API bearer token.
	AccessToken string
	// PhoneNumberID is the sending phone number's Cloud API ID.
	PhoneNumberID string
	// BaseURL overrides the Graph API endpoint; used by tests.
	BaseURL string
	// Timeout bounds each send request. Defaults to 10s.
	Timeout time.Duration
}

// Client sends text messages via the Cloud API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	phoneID    string
	log        *logger.Logger
}

// New creates a Cloud API client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.AccessToken == "" || cfg.PhoneNumberID == "" {
		return nil, errors.New("whatsapp: access token and phone number id are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		token:      cfg.AccessToken,
		phoneID:    cfg.PhoneNumberID,
		log:        log.WithModule("whatsapp"),
	}, nil
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendText sends a plain text message to the conversation.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.SendError{Conversation: to, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The Graph API error body carries the real reason; keep a
		// bounded slice of it for the logs.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithField("status", resp.StatusCode).
			WithField("body", string(snippet)).
			Error("Cloud API rejected message")
		return &apperrors.SendError{
			Conversation: to,
			StatusCode:   resp.StatusCode,
			Err:          fmt.Errorf("cloud api returned %d", resp.StatusCode),
		}
	}

	return nil
}
