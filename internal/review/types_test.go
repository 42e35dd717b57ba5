package review

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusInFlight, "in-flight"},
		{StatusSucceeded, "succeeded"},
		{StatusFailed, "failed"},
		{Status(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.String())
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: FallbackErrorMessage},
		{name: "plain message", err: errors.New("Quota exceeded"), want: "Quota exceeded"},
		{name: "empty message", err: errors.New(""), want: FallbackErrorMessage},
		{name: "whitespace message", err: errors.New("  \n"), want: FallbackErrorMessage},
		{name: "empty response", err: ErrEmptyResponse, want: "No response from the AI model."},
		{name: "wrapped", err: fmt.Errorf("gemini: %w", errors.New("bad key")), want: "gemini: bad key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n\r "))
	assert.False(t, IsBlank(" x "))
}
