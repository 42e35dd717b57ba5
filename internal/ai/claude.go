package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	claudecode "github.com/rokrokss/claude-code-sdk-go"
)

// errClaudeResult is returned when the CLI reports a failed turn.
var errClaudeResult = errors.New("claude returned an error result")

// Claude sends prompts through the Claude Code CLI via the Claude Code SDK.
// Authentication is handled by the CLI: users must run 'claude login' first.
type Claude struct {
	withClient func(ctx context.Context, fn func(claudecode.Client) error, opts ...claudecode.Option) error
}

// NewClaude creates a Claude backend.
func NewClaude() *Claude {
	return &Claude{withClient: claudecode.WithClient}
}

// Generate runs a single query and returns the concatenated assistant text.
// The connection is opened before the query and closed after it.
func (c *Claude) Generate(ctx context.Context, model, prompt string) (string, error) {
	var text string
	err := c.withClient(ctx, func(client claudecode.Client) error {
		var err error
		text, err = collectText(ctx, client, prompt)
		return err
	}, claudecode.WithModel(model))
	if err != nil {
		return "", err
	}
	return text, nil
}

// collectText sends prompt and gathers every text block until the result
// message arrives or the stream closes.
func collectText(ctx context.Context, client claudecode.Client, prompt string) (string, error) {
	if err := client.Query(ctx, prompt); err != nil {
		return "", fmt.Errorf("failed to send query: %w", err)
	}

	var b strings.Builder
	for msg := range client.ReceiveMessages(ctx) {
		switch m := msg.(type) {
		case *claudecode.AssistantMessage:
			for _, block := range m.Content {
				if tb, ok := block.(*claudecode.TextBlock); ok {
					b.WriteString(tb.Text)
				}
			}
		case *claudecode.ResultMessage:
			if m.IsError {
				return "", resultError(m)
			}
			return b.String(), nil
		}
	}

	return b.String(), nil
}

// resultError wraps errClaudeResult with whatever detail the CLI attached.
func resultError(m *claudecode.ResultMessage) error {
	var parts []string
	if m.Subtype != "" {
		parts = append(parts, m.Subtype)
	}
	if m.Result != nil && len(*m.Result) > 0 {
		parts = append(parts, resultDetail(*m.Result))
	}
	if len(parts) == 0 {
		return errClaudeResult
	}
	return fmt.Errorf("%w: %s", errClaudeResult, strings.Join(parts, ": "))
}

func resultDetail(result map[string]any) string {
	for _, k := range []string{"error", "message", "result"} {
		if v, ok := result[k].(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprint(result)
}
