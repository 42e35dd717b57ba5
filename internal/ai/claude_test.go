package ai

import (
	"context"
	"errors"
	"testing"

	claudecode "github.com/rokrokss/claude-code-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTransport implements claudecode.Transport for testing
type mockTransport struct {
	connectCalled    bool
	connectErr       error
	closeCalled      bool
	msgChan          chan claudecode.Message
	errChan          chan error
	sendMessageErr   error
	messagesReceived []claudecode.StreamMessage
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		msgChan: make(chan claudecode.Message, 10),
		errChan: make(chan error, 1),
	}
}

func (m *mockTransport) Connect(ctx context.Context) error {
	m.connectCalled = true
	return m.connectErr
}

func (m *mockTransport) SendMessage(ctx context.Context, msg claudecode.StreamMessage) error {
	m.messagesReceived = append(m.messagesReceived, msg)
	return m.sendMessageErr
}

func (m *mockTransport) ReceiveMessages(ctx context.Context) (<-chan claudecode.Message, <-chan error) {
	return m.msgChan, m.errChan
}

func (m *mockTransport) Interrupt(ctx context.Context) error {
	return nil
}

func (m *mockTransport) Close() error {
	m.closeCalled = true
	return nil
}

// newClaudeWithTransport routes the backend through transport instead of the CLI.
func newClaudeWithTransport(transport *mockTransport) *Claude {
	return &Claude{
		withClient: func(ctx context.Context, fn func(claudecode.Client) error, opts ...claudecode.Option) error {
			return claudecode.WithClientTransport(ctx, transport, fn)
		},
	}
}

func textMessage(text string) *claudecode.AssistantMessage {
	return &claudecode.AssistantMessage{
		Content: []claudecode.ContentBlock{
			&claudecode.TextBlock{Text: text},
		},
	}
}

func TestClaude_ConcatenatesTextBlocks(t *testing.T) {
	transport := newMockTransport()
	transport.msgChan <- textMessage("## Bugs\n")
	transport.msgChan <- textMessage("None.")
	transport.msgChan <- &claudecode.ResultMessage{IsError: false}
	close(transport.msgChan)

	text, err := newClaudeWithTransport(transport).Generate(context.Background(), "claude-sonnet-4-20250514", "review this")
	require.NoError(t, err)

	assert.Equal(t, "## Bugs\nNone.", text)
	assert.True(t, transport.connectCalled)
	assert.True(t, transport.closeCalled, "connection must be closed after the query")
	assert.Len(t, transport.messagesReceived, 1)
}

func TestClaude_StreamClosedWithoutResult(t *testing.T) {
	transport := newMockTransport()
	transport.msgChan <- textMessage("partial review")
	close(transport.msgChan)

	text, err := newClaudeWithTransport(transport).Generate(context.Background(), "m", "p")
	require.NoError(t, err)
	assert.Equal(t, "partial review", text)
}

func TestClaude_ErrorResult(t *testing.T) {
	transport := newMockTransport()
	transport.msgChan <- textMessage("ignored")
	transport.msgChan <- &claudecode.ResultMessage{IsError: true}
	close(transport.msgChan)

	text, err := newClaudeWithTransport(transport).Generate(context.Background(), "m", "p")
	assert.Empty(t, text)
	assert.ErrorIs(t, err, errClaudeResult)
	assert.True(t, transport.closeCalled)
}

func TestClaude_ErrorResultCarriesDetail(t *testing.T) {
	tests := []struct {
		name   string
		result *claudecode.ResultMessage
		want   string
	}{
		{
			name:   "error text",
			result: &claudecode.ResultMessage{IsError: true, Result: &map[string]any{"error": "rate limited"}},
			want:   "claude returned an error result: rate limited",
		},
		{
			name: "subtype and message",
			result: &claudecode.ResultMessage{
				IsError: true,
				Subtype: "error_during_execution",
				Result:  &map[string]any{"message": "tool crashed"},
			},
			want: "claude returned an error result: error_during_execution: tool crashed",
		},
		{
			name:   "unrecognised shape",
			result: &claudecode.ResultMessage{IsError: true, Result: &map[string]any{"code": 529}},
			want:   "claude returned an error result: map[code:529]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := newMockTransport()
			transport.msgChan <- tt.result
			close(transport.msgChan)

			_, err := newClaudeWithTransport(transport).Generate(context.Background(), "m", "p")
			require.Error(t, err)
			assert.ErrorIs(t, err, errClaudeResult)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestClaude_ConnectionError(t *testing.T) {
	transport := newMockTransport()
	transport.connectErr = errors.New("CLI not found: claude command not found in PATH")
	close(transport.msgChan)

	_, err := newClaudeWithTransport(transport).Generate(context.Background(), "m", "p")
	assert.Error(t, err)
}

func TestClaude_QueryError(t *testing.T) {
	transport := newMockTransport()
	transport.sendMessageErr = errors.New("broken pipe")
	close(transport.msgChan)

	_, err := newClaudeWithTransport(transport).Generate(context.Background(), "m", "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send query")
}
