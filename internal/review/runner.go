package review

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/buker/critic/internal/prompt"
)

// Reviewer turns source code into a review by sending the fixed review prompt
// to a single configured model.
type Reviewer struct {
	gen    Generator
	model  string
	logger zerolog.Logger
}

// NewReviewer creates a Reviewer that sends prompts for model through gen.
func NewReviewer(gen Generator, model string, logger zerolog.Logger) *Reviewer {
	return &Reviewer{
		gen:    gen,
		model:  model,
		logger: logger.With().Str("component", "reviewer").Logger(),
	}
}

// Model returns the configured model name.
func (r *Reviewer) Model() string {
	return r.model
}

// Review performs one invocation for source and returns the markdown review.
//
// Generator errors are returned unwrapped so their message reaches the user
// unchanged. A response without text yields ErrEmptyResponse.
func (r *Reviewer) Review(ctx context.Context, source string) (string, error) {
	if IsBlank(source) {
		return "", ErrBlankInput
	}

	start := time.Now()
	r.logger.Debug().
		Str("model", r.model).
		Str("prompt_version", prompt.Version).
		Int("source_bytes", len(source)).
		Msg("review started")

	text, err := r.gen.Generate(ctx, r.model, prompt.Build(source))
	if err != nil {
		r.logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("review failed")
		return "", err
	}
	if text == "" {
		r.logger.Warn().Dur("elapsed", time.Since(start)).Msg("review returned no text")
		return "", ErrEmptyResponse
	}

	r.logger.Info().
		Int("review_bytes", len(text)).
		Dur("elapsed", time.Since(start)).
		Msg("review finished")
	return text, nil
}
