package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/genai"

	"github.com/buker/critic/internal/config"
)

// ErrMissingAPIKey is returned when the configured key variable is unset.
var ErrMissingAPIKey = errors.New("API key is not set")

// Gemini sends prompts to the Gemini API through the Google Gen AI SDK.
type Gemini struct {
	keyEnv     string
	baseURL    string
	httpClient *http.Client
}

// NewGemini creates a Gemini backend reading its API key from keyEnv.
func NewGemini(keyEnv string) *Gemini {
	if keyEnv == "" {
		keyEnv = config.DefaultAPIKeyEnv
	}
	return &Gemini{keyEnv: keyEnv}
}

// Generate sends prompt as a single user turn to model. The key is read from
// the environment on every call.
func (g *Gemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	key := os.Getenv(g.keyEnv)
	if key == "" {
		return "", fmt.Errorf("%s: %w", g.keyEnv, ErrMissingAPIKey)
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
