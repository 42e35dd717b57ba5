package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/buker/critic/internal/review"
	"github.com/buker/critic/internal/tui/shared"
)

// Panel titles for the four output states.
const (
	IdleTitle    = "No Analysis Yet"
	LoadingTitle = "Analyzing Codebase"
	ErrorTitle   = "Analysis Failed"
)

const (
	idleBody    = "Paste your code on the left and run the review to receive a senior engineer's feedback."
	loadingBody = "The model is reviewing your code for bugs, improvements and optimizations."
)

// Renderer turns review markdown into terminal output.
type Renderer interface {
	Markdown(md string, width int) string
}

// OutputView shows exactly one of the idle, loading, error or result panels.
type OutputView struct {
	width    int
	height   int
	spinner  spinner.Model
	viewport viewport.Model
	renderer Renderer

	status review.Status
	result string
	errMsg string
}

// NewOutputView creates an idle output view.
func NewOutputView(renderer Renderer) *OutputView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = shared.SpinnerStyle

	return &OutputView{
		spinner:  s,
		viewport: viewport.New(0, 0),
		renderer: renderer,
		status:   review.StatusIdle,
	}
}

// SetSize updates the view dimensions
func (v *OutputView) SetSize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.viewport.Width = v.width
	v.viewport.Height = v.height
	v.refresh()
}

// SetState mirrors the session into the view. The result is only re-rendered
// when it changes.
func (v *OutputView) SetState(status review.Status, result, errMsg string) {
	changed := result != v.result
	v.status = status
	v.result = result
	v.errMsg = errMsg
	if changed {
		v.refresh()
		v.viewport.GotoTop()
	}
}

// Status returns the state currently displayed.
func (v *OutputView) Status() review.Status {
	return v.status
}

// Tick starts the spinner animation.
func (v *OutputView) Tick() tea.Cmd {
	return v.spinner.Tick
}

func (v *OutputView) refresh() {
	if v.result == "" {
		v.viewport.SetContent("")
		return
	}
	md := v.result
	if v.renderer != nil {
		md = v.renderer.Markdown(v.result, v.width)
	}
	v.viewport.SetContent(md)
}

// ScrollPercent reports the result viewport position.
func (v *OutputView) ScrollPercent() float64 {
	return v.viewport.ScrollPercent()
}

// Update handles spinner ticks and scrolling
func (v *OutputView) Update(msg tea.Msg) (*OutputView, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.(type) {
	case spinner.TickMsg:
		// Let the tick chain die once the request settles.
		if v.status != review.StatusInFlight {
			return v, nil
		}
		v.spinner, cmd = v.spinner.Update(msg)
	default:
		if v.status == review.StatusSucceeded {
			v.viewport, cmd = v.viewport.Update(msg)
		}
	}
	return v, cmd
}

// View renders the panel for the current state
func (v *OutputView) View() string {
	switch v.status {
	case review.StatusInFlight:
		return v.placard(
			v.spinner.View()+" "+shared.LoadingTitleStyle.Render(LoadingTitle),
			shared.BodyStyle.Render(loadingBody),
		)
	case review.StatusFailed:
		return v.placard(
			shared.ErrorTitleStyle.Render(shared.IndicatorError+" "+ErrorTitle),
			shared.BodyStyle.Foreground(shared.ColorError).Render(v.errMsg),
			"",
			shared.HelpKeyStyle.Render("[r]")+" "+shared.HelpDescStyle.Render("Try Again"),
		)
	case review.StatusSucceeded:
		return v.viewport.View()
	default:
		return v.placard(
			shared.EmptyTitleStyle.Render(IdleTitle),
			shared.BodyStyle.Render(idleBody),
		)
	}
}

// placard centers short lines of text within the view.
func (v *OutputView) placard(lines ...string) string {
	wrapped := make([]string, 0, len(lines))
	for _, l := range lines {
		wrapped = append(wrapped, lipgloss.NewStyle().
			MaxWidth(v.width).
			Width(min(v.width, max(lipgloss.Width(l), 1))).
			Align(lipgloss.Center).
			Render(l))
	}
	block := lipgloss.JoinVertical(lipgloss.Center, wrapped...)
	return shared.Center(strings.TrimRight(block, "\n"), v.width, v.height)
}
