// Package ai provides the text-generation backends a review can be sent to.
// Every backend implements review.Generator; New picks one from configuration.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/buker/critic/internal/config"
	"github.com/buker/critic/internal/review"
)

// Provider names accepted in ai.provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderClaude = "claude"
)

// ErrUnknownProvider is returned by New for an unsupported ai.provider value.
var ErrUnknownProvider = errors.New("unknown ai provider")

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderGemini, ProviderOllama, ProviderClaude}
}

// New builds the generator selected by cfg.AI.Provider. Credentials are not
// checked here; a missing key only fails the invocation that needs it.
func New(cfg *config.Config, logger zerolog.Logger) (review.Generator, error) {
	var gen review.Generator
	switch cfg.AI.Provider {
	case ProviderGemini, "":
		gen = NewGemini(cfg.AI.APIKeyEnv)
	case ProviderOllama:
		gen = NewOllama(cfg.Ollama.URL)
	case ProviderClaude:
		gen = NewClaude()
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownProvider, cfg.AI.Provider, Providers())
	}

	logger.Debug().
		Str("component", "ai").
		Str("provider", cfg.AI.Provider).
		Str("model", cfg.AI.Model).
		Msg("generator configured")

	if cfg.AI.Timeout > 0 {
		gen = WithTimeout(gen, time.Duration(cfg.AI.Timeout)*time.Second)
	}
	return gen, nil
}

// WithTimeout bounds every call to gen by d.
func WithTimeout(gen review.Generator, d time.Duration) review.Generator {
	return review.GeneratorFunc(func(ctx context.Context, model, prompt string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return gen.Generate(ctx, model, prompt)
	})
}
