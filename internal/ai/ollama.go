package ai

import (
	"context"
	"fmt"

	"github.com/sevigo/goframe/llms/ollama"

	"github.com/buker/critic/internal/config"
)

// Ollama sends prompts to a local ollama server.
type Ollama struct {
	url string
}

// NewOllama creates an Ollama backend talking to the server at url.
func NewOllama(url string) *Ollama {
	if url == "" {
		url = config.DefaultOllamaURL
	}
	return &Ollama{url: url}
}

// URL returns the server address.
func (o *Ollama) URL() string {
	return o.url
}

// Generate runs prompt against model on the ollama server.
func (o *Ollama) Generate(ctx context.Context, model, prompt string) (string, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(o.url),
		ollama.WithModel(model),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create ollama client: %w", err)
	}
	return llm.Call(ctx, prompt)
}
