package genai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	provider Provider
	answers  []string
	errs     []error
	calls    int
}

func (s *stubAnswerer) Answer(context.Context, string, string) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	return s.answers[i], s.errs[i]
}

func (s *stubAnswerer) Provider() Provider { return s.provider }
func (s *stubAnswerer) Close() error       { return nil }

func newTestChain(answerers ...Answerer) *FallbackAnswerer {
	return &FallbackAnswerer{
		answerers: answerers,
		retry: RetryConfig{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
		},
	}
}

func TestNewFallbackAnswererRequiresProvider(t *testing.T) {
	_, err := NewFallbackAnswerer(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNoProviders)
}

func TestFallbackAnswerPrimarySucceeds(t *testing.T) {
	primary := &stubAnswerer{
		provider: ProviderOpenAI,
		answers:  []string{"hola"},
		errs:     []error{nil},
	}
	secondary := &stubAnswerer{provider: ProviderGemini, answers: []string{""}, errs: []error{nil}}

	got, err := newTestChain(primary, secondary).Answer(context.Background(), "pregunta", "[]")
	require.NoError(t, err)
	assert.Equal(t, "hola", got)
	assert.Zero(t, secondary.calls)
}

func TestFallbackAnswerRetriesTransientThenSucceeds(t *testing.T) {
	primary := &stubAnswerer{
		provider: ProviderOpenAI,
		answers:  []string{"", "hola"},
		errs:     []error{errors.New("503 service unavailable"), nil},
	}

	got, err := newTestChain(primary).Answer(context.Background(), "pregunta", "[]")
	require.NoError(t, err)
	assert.Equal(t, "hola", got)
	assert.Equal(t, 2, primary.calls)
}

func TestFallbackAnswerMovesToNextProvider(t *testing.T) {
	primary := &stubAnswerer{
		provider: ProviderOpenAI,
		answers:  []string{""},
		errs:     []error{errors.New("quota exceeded")},
	}
	secondary := &stubAnswerer{
		provider: ProviderGemini,
		answers:  []string{"hola desde gemini"},
		errs:     []error{nil},
	}

	chain := newTestChain(primary, secondary)
	var fellBackFrom Provider
	chain.OnFallback = func(from Provider, _ error) { fellBackFrom = from }

	got, err := chain.Answer(context.Background(), "pregunta", "[]")
	require.NoError(t, err)
	assert.Equal(t, "hola desde gemini", got)
	assert.Equal(t, 1, primary.calls, "quota errors skip the retry loop")
	assert.Equal(t, ProviderOpenAI, fellBackFrom)
}

func TestFallbackAnswerAllProvidersFail(t *testing.T) {
	primary := &stubAnswerer{
		provider: ProviderOpenAI,
		answers:  []string{""},
		errs:     []error{errors.New("401 invalid api key")},
	}
	secondary := &stubAnswerer{
		provider: ProviderGemini,
		answers:  []string{""},
		errs:     []error{errors.New("403 forbidden")},
	}

	_, err := newTestChain(primary, secondary).Answer(context.Background(), "pregunta", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestFallbackAnswerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	primary := &stubAnswerer{
		provider: ProviderOpenAI,
		answers:  []string{""},
		errs:     []error{errors.New("timeout")},
	}
	secondary := &stubAnswerer{provider: ProviderGemini, answers: []string{"x"}, errs: []error{nil}}

	chain := newTestChain(primary, secondary)
	chain.retry.MaxAttempts = 1
	chain.OnFallback = func(Provider, error) { cancel() }

	// Cancel fires before the second provider is tried.
	primaryErr := func() error {
		_, err := chain.Answer(ctx, "pregunta", "[]")
		return err
	}()

	assert.ErrorIs(t, primaryErr, context.Canceled)
	assert.Zero(t, secondary.calls)
}
