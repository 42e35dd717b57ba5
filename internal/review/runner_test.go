package review

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buker/critic/internal/prompt"
)

// fakeGenerator records every call and replies with a canned outcome.
type fakeGenerator struct {
	text   string
	err    error
	calls  int
	model  string
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, model, p string) (string, error) {
	f.calls++
	f.model = model
	f.prompt = p
	return f.text, f.err
}

func TestReviewer_Success(t *testing.T) {
	gen := &fakeGenerator{text: "## Bugs\nNone."}
	r := NewReviewer(gen, "gemini-3.1-pro-preview", zerolog.Nop())

	got, err := r.Review(context.Background(), "print('hi')")
	require.NoError(t, err)

	assert.Equal(t, "## Bugs\nNone.", got)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "gemini-3.1-pro-preview", gen.model)
	assert.Equal(t, prompt.Build("print('hi')"), gen.prompt)
	assert.Contains(t, gen.prompt, prompt.Prefix)
	assert.Contains(t, gen.prompt, "```\nprint('hi')\n```")
}

func TestReviewer_EmptyResponse(t *testing.T) {
	gen := &fakeGenerator{text: ""}
	r := NewReviewer(gen, "m", zerolog.Nop())

	got, err := r.Review(context.Background(), "x := 1")
	assert.Empty(t, got)
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, "No response from the AI model.", err.Error())
}

func TestReviewer_GeneratorErrorPassesThrough(t *testing.T) {
	quota := errors.New("Quota exceeded")
	gen := &fakeGenerator{err: quota}
	r := NewReviewer(gen, "m", zerolog.Nop())

	got, err := r.Review(context.Background(), "x := 1")
	assert.Empty(t, got)
	assert.Same(t, quota, err)
}

func TestReviewer_BlankInputSkipsCall(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	r := NewReviewer(gen, "m", zerolog.Nop())

	_, err := r.Review(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrBlankInput)
	assert.Zero(t, gen.calls)
}

func TestGeneratorFunc(t *testing.T) {
	var gotModel string
	gen := GeneratorFunc(func(ctx context.Context, model, p string) (string, error) {
		gotModel = model
		return "ok", nil
	})

	text, err := gen.Generate(context.Background(), "m1", "p")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, "m1", gotModel)
}
