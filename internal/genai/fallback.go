package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Config holds API keys and model overrides for the answer providers.
// OpenAI is the primary provider; Gemini is the fallback.
type Config struct {
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	Retry       RetryConfig
}

// FallbackAnswerer tries each configured provider in order, retrying
// transient failures within a provider before moving to the next.
// It implements the Answerer interface.
type FallbackAnswerer struct {
	answerers []Answerer
	retry     RetryConfig

	// OnRetry is called before each retry within a provider, if set.
	OnRetry func(provider Provider, attempt int, err error)
	// OnFallback is called when a provider is abandoned, if set.
	OnFallback func(from Provider, err error)
}

// ErrNoProviders is returned when no provider has an API key configured.
var ErrNoProviders = errors.New("genai: no providers configured")

// NewFallbackAnswerer builds the provider chain from the configured
// API keys. At least one provider must be configured.
func NewFallbackAnswerer(ctx context.Context, cfg Config) (*FallbackAnswerer, error) {
	retry := cfg.Retry
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryConfig()
	}

	var answerers []Answerer

	oa, err := newOpenAIAnswerer(cfg.OpenAIKey, cfg.OpenAIModel)
	if err != nil {
		return nil, err
	}
	if oa != nil {
		answerers = append(answerers, oa)
	}

	ga, err := newGeminiAnswerer(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	if ga != nil {
		answerers = append(answerers, ga)
	}

	if len(answerers) == 0 {
		return nil, ErrNoProviders
	}

	return &FallbackAnswerer{
		answerers: answerers,
		retry:     retry,
	}, nil
}

// Answer walks the provider chain until one succeeds.
func (f *FallbackAnswerer) Answer(ctx context.Context, userText, catalogJSON string) (string, error) {
	var lastErr error

	for _, answerer := range f.answerers {
		provider := answerer.Provider()

		var answer string
		err := WithRetry(ctx, f.retry,
			func(attempt int, err error) {
				if f.OnRetry != nil {
					f.OnRetry(provider, attempt, err)
				}
			},
			func() error {
				var err error
				answer, err = answerer.Answer(ctx, userText, catalogJSON)
				return err
			})
		if err == nil {
			return answer, nil
		}
		lastErr = err

		// Cancellation propagates; there is no point trying the
		// next provider with a dead context.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		slog.WarnContext(ctx, "provider exhausted, trying next",
			"provider", provider,
			"action", ClassifyError(err).String(),
			"error", err)
		if f.OnFallback != nil {
			f.OnFallback(provider, err)
		}
	}

	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

// Provider returns the primary provider in the chain.
func (f *FallbackAnswerer) Provider() Provider {
	return f.answerers[0].Provider()
}

// Close closes every answerer in the chain.
func (f *FallbackAnswerer) Close() error {
	var errs []error
	for _, answerer := range f.answerers {
		if err := answerer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
