// Package render turns review markdown into styled terminal output.
package render

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// minWidth keeps word wrapping usable in very narrow panes.
const minWidth = 20

// Replaced in tests.
var (
	isTerminal        = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	hasDarkBackground = lipgloss.HasDarkBackground
)

// Renderer renders markdown with a fixed glamour style. The glamour renderer
// is built once per wrap width and reused.
type Renderer struct {
	style string

	mu    sync.Mutex
	width int
	tr    *glamour.TermRenderer
}

// New creates a Renderer for the named glamour style. "auto" (or "") is
// resolved here against the terminal, so call New before a TUI takes over
// stdin.
func New(style string) *Renderer {
	return &Renderer{style: resolveStyle(style)}
}

func resolveStyle(style string) string {
	if style != "" && style != styles.AutoStyle {
		return style
	}
	switch {
	case !isTerminal():
		return styles.NoTTYStyle
	case hasDarkBackground():
		return styles.DarkStyle
	default:
		return styles.LightStyle
	}
}

// Style returns the resolved style name.
func (r *Renderer) Style() string {
	return r.style
}

// Markdown renders md wrapped at width. If glamour cannot render it, the
// markdown is returned word-wrapped but otherwise untouched.
func (r *Renderer) Markdown(md string, width int) string {
	if width < minWidth {
		width = minWidth
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tr, err := r.termRenderer(width)
	if err != nil {
		return WordWrap(md, width)
	}
	out, err := tr.Render(md)
	if err != nil {
		return WordWrap(md, width)
	}
	return strings.TrimSpace(out)
}

// termRenderer returns the cached renderer for width, rebuilding it when the
// width changes. Callers hold r.mu.
func (r *Renderer) termRenderer(width int) (*glamour.TermRenderer, error) {
	if r.tr != nil && r.width == width {
		return r.tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.tr = tr
	r.width = width
	return tr, nil
}

// WordWrap wraps each line of s to fit within width display cells. Existing
// line breaks are preserved.
func WordWrap(s string, width int) string {
	if width <= 0 {
		return s
	}

	var result strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}
		if lipgloss.Width(line) <= width {
			result.WriteString(line)
			continue
		}

		current := ""
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case lipgloss.Width(current+" "+word) <= width:
				current += " " + word
			default:
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
	}
	return result.String()
}
