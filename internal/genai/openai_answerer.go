package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiAnswerer answers questions through the OpenAI chat completions
// API. It implements the Answerer interface.
type openaiAnswerer struct {
	client openai.Client
	model  string
}

// newOpenAIAnswerer creates an OpenAI-backed answerer.
// Returns nil if apiKey is empty (provider disabled).
func newOpenAIAnswerer(apiKey, model string) (*openaiAnswerer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &openaiAnswerer{
		client: client,
		model:  model,
	}, nil
}

// Answer sends the persona, the catalog, and the user question as
// three messages and returns the completion text.
func (a *openaiAnswerer) Answer(ctx context.Context, userText, catalogJSON string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemInstruction),
			openai.SystemMessage(catalogJSON),
			openai.UserMessage(userText),
		},
		Temperature: openai.Float(answerTemperature),
	}

	start := time.Now()
	resp, err := a.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "chat completion failed",
			"provider", ProviderOpenAI,
			"model", a.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("chat completion: %w", err), ProviderOpenAI, 0)
	}

	if len(resp.Choices) == 0 {
		return "", WrapError(errors.New("chat completion returned no choices"), ProviderOpenAI, 0)
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", WrapError(errors.New("chat completion returned empty content"), ProviderOpenAI, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "chat completion succeeded",
			"provider", ProviderOpenAI,
			"model", a.model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens,
			"duration_ms", duration.Milliseconds())
	}

	return answer, nil
}

// Provider returns the provider type for this answerer.
func (a *openaiAnswerer) Provider() Provider {
	return ProviderOpenAI
}

// Close releases resources.
// Safe to call on nil receiver.
func (a *openaiAnswerer) Close() error {
	// openai-go client doesn't require cleanup
	return nil
}
