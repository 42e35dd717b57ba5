// Package views provides individual view components for the TUI.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/buker/critic/internal/tui/shared"
)

// Placeholder is shown while the input buffer is empty.
const Placeholder = "Paste your code here for review..."

// InputView is the source buffer. The textarea only holds a bounded number of
// lines, so the view keeps the full text itself. A source too large for the
// textarea is shown as a read-only preview until the buffer is reset.
type InputView struct {
	textarea textarea.Model
	width    int
	height   int

	full     string
	overflow bool
}

// NewInputView creates a focused input buffer.
func NewInputView() *InputView {
	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.ShowLineNumbers = true
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.MaxWidth = 0
	// Clipboard pastes are read by the model so they pass through Insert.
	ta.KeyMap.Paste.SetEnabled(false)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(shared.ColorText)
	ta.BlurredStyle.Text = lipgloss.NewStyle().Foreground(shared.ColorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(shared.ColorFaint)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(shared.ColorFaint)
	ta.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(shared.ColorFaint)
	ta.BlurredStyle.LineNumber = lipgloss.NewStyle().Foreground(shared.ColorBorder)
	ta.Focus()

	return &InputView{textarea: ta}
}

// Init starts the cursor blink.
func (v *InputView) Init() tea.Cmd {
	return textarea.Blink
}

// SetSize updates the view dimensions
func (v *InputView) SetSize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.resize()
}

// resize leaves a line for the overflow notice.
func (v *InputView) resize() {
	h := v.height
	if v.overflow {
		h--
	}
	v.textarea.SetWidth(v.width)
	v.textarea.SetHeight(max(h, 1))
}

// Value returns the full buffer contents, including anything the textarea
// could not hold.
func (v *InputView) Value() string {
	return v.full
}

// SetValue replaces the buffer contents.
func (v *InputView) SetValue(s string) {
	v.textarea.SetValue(s)
	v.full = s
	v.overflow = v.textarea.LineCount() < lineCount(s)
	v.resize()
}

// Insert adds text at the cursor as if it had been pasted.
func (v *InputView) Insert(text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
}

// Reset empties the buffer.
func (v *InputView) Reset() {
	v.textarea.Reset()
	v.full = ""
	v.overflow = false
	v.resize()
}

// Overflowed reports whether the buffer holds more than the textarea shows.
// The view is read-only while this is true.
func (v *InputView) Overflowed() bool {
	return v.overflow
}

// Focus gives the buffer keyboard focus.
func (v *InputView) Focus() tea.Cmd {
	return v.textarea.Focus()
}

// Blur removes keyboard focus.
func (v *InputView) Blur() {
	v.textarea.Blur()
}

// LineCount returns the number of lines in the buffer.
func (v *InputView) LineCount() int {
	return strings.Count(v.full, "\n") + 1
}

// Update handles messages
func (v *InputView) Update(msg tea.Msg) (*InputView, tea.Cmd) {
	k, isKey := msg.(tea.KeyMsg)
	if isKey && v.overflow {
		return v, nil
	}

	var inserted string
	if isKey && k.Type == tea.KeyRunes && !k.Alt {
		inserted = string(k.Runes)
	}
	before := v.textarea.Value()
	offset := v.cursorOffset(before)
	expected := v.textarea.LineCount() + lineCount(inserted) - 1

	var cmd tea.Cmd
	v.textarea, cmd = v.textarea.Update(msg)

	after := v.textarea.Value()
	switch {
	case inserted != "" && v.textarea.LineCount() < expected:
		r := []rune(before)
		v.SetValue(string(r[:offset]) + inserted + string(r[offset:]))
	case after != before:
		v.full = after
	}
	return v, cmd
}

// cursorOffset returns the cursor position in value as a rune offset.
func (v *InputView) cursorOffset(value string) int {
	lines := strings.Split(value, "\n")
	row := min(v.textarea.Line(), len(lines)-1)

	offset := 0
	for _, l := range lines[:row] {
		offset += len([]rune(l)) + 1
	}
	li := v.textarea.LineInfo()
	col := min(li.StartColumn+li.ColumnOffset, len([]rune(lines[row])))
	return offset + col
}

// lineCount counts lines the way the textarea does: every CR and LF starts a
// new line.
func lineCount(s string) int {
	return strings.Count(s, "\n") + strings.Count(s, "\r") + 1
}

// View renders the buffer
func (v *InputView) View() string {
	if !v.overflow {
		return v.textarea.View()
	}
	notice := fmt.Sprintf("Read-only preview: showing %d of %d lines. Reset to edit.",
		v.textarea.LineCount(), v.LineCount())
	return lipgloss.JoinVertical(lipgloss.Left,
		shared.NoticeStyle.MaxWidth(v.width).Render(notice),
		v.textarea.View(),
	)
}
