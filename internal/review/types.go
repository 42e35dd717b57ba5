// Package review implements the review invocation and the interactive session
// state around it: a single outstanding request at a time, four mutually
// exclusive states, and stale-result suppression after a reset.
package review

import (
	"context"
	"errors"
	"strings"
)

// Status is the derived request status of a session.
type Status int

const (
	StatusIdle      Status = iota // Nothing submitted, or reset
	StatusInFlight                // A request is outstanding
	StatusSucceeded               // The last request returned review text
	StatusFailed                  // The last request failed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInFlight:
		return "in-flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Generator sends a prompt to a text-generation model and returns its text.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, model, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, model, prompt string) (string, error) {
	return f(ctx, model, prompt)
}

// User-facing messages.
const (
	EmptyResponseMessage = "No response from the AI model."
	FallbackErrorMessage = "An unexpected error occurred"
)

var (
	// ErrEmptyResponse is returned when the model completes without any text.
	ErrEmptyResponse = errors.New(EmptyResponseMessage)
	// ErrBlankInput is returned by Reviewer.Review for whitespace-only source.
	ErrBlankInput = errors.New("nothing to review: input is blank")
)

// ErrorMessage returns the text shown to the user for a failed invocation:
// the error's own message, or FallbackErrorMessage when it has none.
func ErrorMessage(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}
	msg := err.Error()
	if strings.TrimSpace(msg) == "" {
		return FallbackErrorMessage
	}
	return msg
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
