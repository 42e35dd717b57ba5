package review

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertState(t *testing.T, s *Session, status Status, result, errMsg string) {
	t.Helper()
	assert.Equal(t, status, s.Status(), "status")
	assert.Equal(t, result, s.Result(), "result")
	assert.Equal(t, errMsg, s.Err(), "error")
	assert.Equal(t, status == StatusInFlight, s.Loading(), "loading")
}

func TestSession_NewIsIdle(t *testing.T) {
	s := NewSession()
	assertState(t, s, StatusIdle, "", "")
	assert.False(t, s.CanSubmit())
}

func TestSession_BeginBlankInputIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t  \n"} {
		s := NewSession()
		s.SetInput(input)

		_, ok := s.Begin(context.Background())
		assert.False(t, ok)
		assertState(t, s, StatusIdle, "", "")
		assert.Zero(t, s.Generation())
	}
}

func TestSession_BeginBlankInputKeepsPriorResult(t *testing.T) {
	s := NewSession()
	s.SetInput("code")
	tk, ok := s.Begin(context.Background())
	require.True(t, ok)
	s.Complete(tk, "review", nil)

	s.SetInput("  ")
	_, ok = s.Begin(context.Background())
	assert.False(t, ok)
	assertState(t, s, StatusSucceeded, "review", "")
}

func TestSession_BeginClearsPriorResultAndError(t *testing.T) {
	s := NewSession()
	s.SetInput("code")

	tk, ok := s.Begin(context.Background())
	require.True(t, ok)
	s.Complete(tk, "", errors.New("boom"))
	assertState(t, s, StatusFailed, "", "boom")

	tk, ok = s.Begin(context.Background())
	require.True(t, ok)
	assertState(t, s, StatusInFlight, "", "")
	assert.Equal(t, "code", tk.Source)

	s.Complete(tk, "first", nil)
	_, ok = s.Begin(context.Background())
	require.True(t, ok)
	assertState(t, s, StatusInFlight, "", "")
}

func TestSession_CompleteSuccess(t *testing.T) {
	s := NewSession()
	s.SetInput("print('hi')")

	tk, ok := s.Begin(context.Background())
	require.True(t, ok)
	assert.True(t, s.Complete(tk, "## Bugs\nNone.", nil))

	assertState(t, s, StatusSucceeded, "## Bugs\nNone.", "")
}

func TestSession_CompleteEmptyText(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	tk, _ := s.Begin(context.Background())
	assert.True(t, s.Complete(tk, "", nil))

	assertState(t, s, StatusFailed, "", "No response from the AI model.")
}

func TestSession_CompleteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "message", err: errors.New("Quota exceeded"), want: "Quota exceeded"},
		{name: "no message", err: errors.New(""), want: FallbackErrorMessage},
		{name: "empty response", err: ErrEmptyResponse, want: EmptyResponseMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			s.SetInput("x")
			tk, _ := s.Begin(context.Background())

			// A partial text alongside an error is discarded.
			assert.True(t, s.Complete(tk, "partial", tt.err))
			assertState(t, s, StatusFailed, "", tt.want)
		})
	}
}

func TestSession_SecondBeginWhileInFlightRejected(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	first, ok := s.Begin(context.Background())
	require.True(t, ok)

	_, ok = s.Begin(context.Background())
	assert.False(t, ok)
	assert.False(t, s.CanSubmit())
	assert.Equal(t, first.Generation, s.Generation())

	assert.True(t, s.Complete(first, "done", nil))
	assert.True(t, s.CanSubmit())
}

func TestSession_ResetClearsEverything(t *testing.T) {
	states := map[string]func(s *Session){
		"idle": func(s *Session) {},
		"succeeded": func(s *Session) {
			tk, _ := s.Begin(context.Background())
			s.Complete(tk, "review", nil)
		},
		"failed": func(s *Session) {
			tk, _ := s.Begin(context.Background())
			s.Complete(tk, "", errors.New("nope"))
		},
		"in-flight": func(s *Session) {
			s.Begin(context.Background())
		},
	}

	for name, setup := range states {
		t.Run(name, func(t *testing.T) {
			s := NewSession()
			s.SetInput("some code")
			setup(s)

			s.Reset()

			assert.Empty(t, s.Input())
			assertState(t, s, StatusIdle, "", "")
		})
	}
}

func TestSession_ResetDropsStaleOutcome(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	tk, ok := s.Begin(context.Background())
	require.True(t, ok)
	s.Reset()

	assert.ErrorIs(t, tk.Context().Err(), context.Canceled, "reset cancels the outstanding request")

	assert.False(t, s.Complete(tk, "late review", nil))
	assertState(t, s, StatusIdle, "", "")

	s.SetInput("y")
	next, ok := s.Begin(context.Background())
	require.True(t, ok)
	assert.False(t, s.Complete(tk, "", errors.New("late failure")))
	assertState(t, s, StatusInFlight, "", "")

	assert.True(t, s.Complete(next, "fresh", nil))
	assertState(t, s, StatusSucceeded, "fresh", "")
}

func TestSession_CompleteTwiceIgnored(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	tk, _ := s.Begin(context.Background())
	assert.True(t, s.Complete(tk, "one", nil))
	assert.False(t, s.Complete(tk, "two", nil))
	assert.Equal(t, "one", s.Result())
}

func TestSession_CompleteCancelsTicketContext(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	tk, _ := s.Begin(context.Background())
	require.NoError(t, tk.Context().Err())

	s.Complete(tk, "ok", nil)
	assert.Error(t, tk.Context().Err())
}

func TestSession_Retry(t *testing.T) {
	s := NewSession()
	s.SetInput("x")

	_, ok := s.Retry(context.Background())
	assert.False(t, ok, "retry is only available after a failure")

	tk, _ := s.Begin(context.Background())
	s.Complete(tk, "", errors.New("Quota exceeded"))

	tk, ok = s.Retry(context.Background())
	require.True(t, ok)
	assertState(t, s, StatusInFlight, "", "")
	assert.Equal(t, "x", tk.Source)

	s.Complete(tk, "recovered", nil)
	_, ok = s.Retry(context.Background())
	assert.False(t, ok)
	assertState(t, s, StatusSucceeded, "recovered", "")
}

func TestSession_TicketSnapshotsInput(t *testing.T) {
	s := NewSession()
	s.SetInput("before")

	tk, _ := s.Begin(context.Background())
	s.SetInput("after")

	assert.Equal(t, "before", tk.Source)
	assert.Equal(t, "after", s.Input())
}

func TestSession_Run(t *testing.T) {
	t.Run("scenario success", func(t *testing.T) {
		gen := &fakeGenerator{text: "## Bugs\nNone."}
		s := NewSession()
		s.SetInput("print('hi')")

		assert.True(t, s.Run(context.Background(), NewReviewer(gen, "m", zerolog.Nop())))
		assertState(t, s, StatusSucceeded, "## Bugs\nNone.", "")
		assert.Contains(t, gen.prompt, "```\nprint('hi')\n```")
	})

	t.Run("scenario quota", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("Quota exceeded")}
		s := NewSession()
		s.SetInput("print('hi')")

		assert.True(t, s.Run(context.Background(), NewReviewer(gen, "m", zerolog.Nop())))
		assertState(t, s, StatusFailed, "", "Quota exceeded")
	})

	t.Run("scenario empty text", func(t *testing.T) {
		gen := &fakeGenerator{text: ""}
		s := NewSession()
		s.SetInput("print('hi')")

		assert.True(t, s.Run(context.Background(), NewReviewer(gen, "m", zerolog.Nop())))
		assertState(t, s, StatusFailed, "", "No response from the AI model.")
	})

	t.Run("blank input", func(t *testing.T) {
		gen := &fakeGenerator{text: "x"}
		s := NewSession()

		assert.False(t, s.Run(context.Background(), NewReviewer(gen, "m", zerolog.Nop())))
		assert.Zero(t, gen.calls)
		assertState(t, s, StatusIdle, "", "")
	})
}

func TestSession_GeneratorSeesTicketContext(t *testing.T) {
	var seen context.Context
	gen := GeneratorFunc(func(ctx context.Context, model, p string) (string, error) {
		seen = ctx
		return "ok", nil
	})

	s := NewSession()
	s.SetInput("x")
	s.Run(context.Background(), NewReviewer(gen, "m", zerolog.Nop()))

	require.NotNil(t, seen)
	assert.Error(t, seen.Err(), "context is released once the invocation completes")
}
