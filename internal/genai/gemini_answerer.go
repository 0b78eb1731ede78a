package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiAnswerer answers questions through the Gemini API.
// It implements the Answerer interface.
type geminiAnswerer struct {
	client *genai.Client
	model  string
}

// newGeminiAnswerer creates a Gemini-backed answerer.
// Returns nil if apiKey is empty (provider disabled).
func newGeminiAnswerer(ctx context.Context, apiKey, model string) (*geminiAnswerer, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &geminiAnswerer{
		client: client,
		model:  model,
	}, nil
}

// Answer sends the persona as the system instruction and the catalog
// plus question as user content, and returns the reply text.
func (a *geminiAnswerer) Answer(ctx context.Context, userText, catalogJSON string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](answerTemperature),
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
	}

	prompt := "Catálogo de cursos (JSON):\n" + catalogJSON + "\n\nPregunta del usuario:\n" + userText

	start := time.Now()
	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "generate content failed",
			"provider", ProviderGemini,
			"model", a.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", WrapError(fmt.Errorf("generate content: %w", err), ProviderGemini, 0)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapError(errors.New("generate content returned no candidates"), ProviderGemini, 0)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
	}

	answer := strings.TrimSpace(sb.String())
	if answer == "" {
		return "", WrapError(errors.New("generate content returned empty text"), ProviderGemini, 0)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "generate content succeeded",
			"provider", ProviderGemini,
			"model", a.model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"duration_ms", duration.Milliseconds())
	}

	return answer, nil
}

// Provider returns the provider type for this answerer.
func (a *geminiAnswerer) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Safe to call on nil receiver.
func (a *geminiAnswerer) Close() error {
	// genai.Client does not require explicit cleanup in current SDK version
	return nil
}
