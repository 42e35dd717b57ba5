// Package tui provides the terminal user interface using Bubble Tea.
// It pairs an editable source buffer with a results pane that shows one of
// the idle, loading, error or review panels of a review.Session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/buker/critic/internal/prompt"
	"github.com/buker/critic/internal/review"
	"github.com/buker/critic/internal/tui/shared"
	"github.com/buker/critic/internal/tui/views"
)

// Pane identifies which half of the screen receives key input.
type Pane int

const (
	PaneInput  Pane = iota // Source buffer
	PaneOutput             // Review results
)

const (
	headerHeight    = 3 // Title, subtitle, divider
	footerHeight    = 2 // Help line, status line
	panelFrameW     = 4 // Border plus horizontal padding
	panelFrameH     = 3 // Border plus label line
	sideBySideWidth = 100
	minBodyHeight   = 8
	flashDuration   = 1500 * time.Millisecond
)

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	Copy(text string) bool
	Paste() (string, bool)
}

// Labels of the run-review trigger.
const (
	RunLabel  = "▶ Run Review"
	BusyLabel = "Analyzing..."
)

// Options configures a Model.
type Options struct {
	Reviewer  *review.Reviewer
	Clipboard Clipboard
	Renderer  views.Renderer
	Engine    string // Shown in the footer, e.g. "gemini/gemini-3.1-pro-preview"
	Initial   string // Initial contents of the input buffer
	Logger    zerolog.Logger
}

// Model is the main Bubble Tea model. The review.Session owns the request
// state and the source text; the model only translates keys into session
// operations and mirrors the session into its views.
type Model struct {
	ctx       context.Context
	session   *review.Session
	reviewer  *review.Reviewer
	clipboard Clipboard
	keys      shared.KeyMap
	input     *views.InputView
	output    *views.OutputView
	focus     Pane
	engine    string
	logger    zerolog.Logger

	width  int
	height int

	flash    string
	flashSeq int
}

// NewModel creates a model in the idle state.
func NewModel(opts Options) *Model {
	m := &Model{
		ctx:       context.Background(),
		session:   review.NewSession(),
		reviewer:  opts.Reviewer,
		clipboard: opts.Clipboard,
		keys:      shared.DefaultKeyMap(),
		input:     views.NewInputView(),
		output:    views.NewOutputView(opts.Renderer),
		focus:     PaneInput,
		engine:    opts.Engine,
		logger:    opts.Logger.With().Str("component", "tui").Logger(),
	}
	if opts.Initial != "" {
		m.load(opts.Initial)
	}
	m.syncKeys()
	return m
}

// SetContext sets the parent context for review invocations.
func (m *Model) SetContext(ctx context.Context) {
	if ctx != nil {
		m.ctx = ctx
	}
}

// Session exposes the underlying review session.
func (m *Model) Session() *review.Session {
	return m.session
}

// Focus returns the pane that currently receives key input.
func (m *Model) Focus() Pane {
	return m.focus
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return m.input.Init()
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case MsgReviewDone:
		if !m.session.Complete(msg.Ticket, msg.Text, msg.Err) {
			m.logger.Debug().
				Uint64("generation", msg.Ticket.Generation).
				Uint64("current", m.session.Generation()).
				Msg("dropping stale review result")
			return m, nil
		}
		m.syncOutput()
		return m, nil

	case MsgFlashExpired:
		if msg.Seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	}

	// Spinner ticks and cursor blinks.
	var cmds []tea.Cmd
	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.QuitOutput):
		m.session.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Review):
		return m, m.submit(false)

	case key.Matches(msg, m.keys.Retry):
		return m, m.submit(true)

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyResult()

	case key.Matches(msg, m.keys.Paste):
		m.paste()
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		return m, m.toggleFocus()
	}

	var cmd tea.Cmd
	if m.focus == PaneInput {
		m.input, cmd = m.input.Update(msg)
		m.syncInput()
	} else {
		m.output, cmd = m.output.Update(msg)
	}
	m.syncKeys()
	return m, cmd
}

// submit starts a review through the session. Retry is only honored from the
// failed state; both are refused while a request is in flight.
func (m *Model) submit(retry bool) tea.Cmd {
	var (
		ticket review.Ticket
		ok     bool
	)
	if retry {
		ticket, ok = m.session.Retry(m.ctx)
	} else {
		ticket, ok = m.session.Begin(m.ctx)
	}
	if !ok {
		return nil
	}

	m.logger.Debug().Uint64("generation", ticket.Generation).Bool("retry", retry).Msg("review submitted")
	m.syncOutput()

	cmds := []tea.Cmd{m.output.Tick(), runReview(m.reviewer, ticket)}
	if m.focus != PaneOutput {
		cmds = append(cmds, m.setFocus(PaneOutput))
	}
	return tea.Batch(cmds...)
}

// runReview performs the blocking invocation off the update loop.
func runReview(r *review.Reviewer, t review.Ticket) tea.Cmd {
	return func() tea.Msg {
		text, err := r.Review(t.Context(), t.Source)
		return MsgReviewDone{Ticket: t, Text: text, Err: err}
	}
}

func (m *Model) reset() {
	m.session.Reset()
	m.input.Reset()
	m.flash = ""
	m.syncOutput()
	m.logger.Debug().Uint64("generation", m.session.Generation()).Msg("session reset")
}

func (m *Model) copyResult() tea.Cmd {
	result := m.session.Result()
	if result == "" || m.clipboard == nil {
		return nil
	}
	if !m.clipboard.Copy(result) {
		return nil
	}
	m.flashSeq++
	m.flash = "Copied to clipboard"
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return MsgFlashExpired{Seq: seq}
	})
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == PaneInput {
		return m.setFocus(PaneOutput)
	}
	return m.setFocus(PaneInput)
}

func (m *Model) setFocus(p Pane) tea.Cmd {
	m.focus = p
	defer m.syncKeys()
	if p == PaneInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) paste() {
	if m.clipboard == nil {
		return
	}
	text, ok := m.clipboard.Paste()
	if !ok || text == "" {
		return
	}
	m.input.Insert(text)
	m.syncInput()
	m.syncKeys()
}

// load replaces the source, e.g. with a file given on the command line.
func (m *Model) load(s string) {
	m.input.SetValue(s)
	m.session.SetInput(s)
	if m.input.Overflowed() {
		m.logger.Info().Int("lines", m.input.LineCount()).Msg("source exceeds the editor; showing a read-only preview")
	}
	m.syncKeys()
}

// syncInput copies an edit from the buffer into the session. The buffer's
// Value is the complete source even when the editor only shows part of it.
func (m *Model) syncInput() {
	if v := m.input.Value(); v != m.session.Input() {
		m.session.SetInput(v)
	}
}

// syncOutput mirrors the session into the output view.
func (m *Model) syncOutput() {
	m.output.SetState(m.session.Status(), m.session.Result(), m.session.Err())
	m.syncKeys()
}

// syncKeys enables only the bindings that apply to the current state.
func (m *Model) syncKeys() {
	status := m.session.Status()
	m.keys.Review.SetEnabled(m.session.CanSubmit())
	m.keys.Retry.SetEnabled(status == review.StatusFailed && m.focus == PaneOutput)
	m.keys.Copy.SetEnabled(status == review.StatusSucceeded)
	m.keys.Paste.SetEnabled(m.focus == PaneInput && !m.input.Overflowed())
	m.keys.QuitOutput.SetEnabled(m.focus == PaneOutput)
}

func (m *Model) layout() {
	body := max(m.height-headerHeight-footerHeight, minBodyHeight)
	if m.width >= sideBySideWidth {
		left := m.width / 2
		m.input.SetSize(left-panelFrameW, body-panelFrameH)
		m.output.SetSize(m.width-left-panelFrameW, body-panelFrameH)
		return
	}
	top := body / 2
	m.input.SetSize(m.width-panelFrameW, top-panelFrameH)
	m.output.SetSize(m.width-panelFrameW, body-top-panelFrameH)
}

// View renders the model
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	body := max(m.height-headerHeight-footerHeight, minBodyHeight)

	var panes string
	if m.width >= sideBySideWidth {
		left := m.width / 2
		panes = lipgloss.JoinHorizontal(lipgloss.Top,
			m.inputPanel(left, body),
			m.outputPanel(m.width-left, body),
		)
	} else {
		top := body / 2
		panes = lipgloss.JoinVertical(lipgloss.Left,
			m.inputPanel(m.width, top),
			m.outputPanel(m.width, body-top),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		panes,
		m.footer(),
	)
}

func (m *Model) header() string {
	title := shared.LogoStyle.Render("◆ ") + shared.TitleStyle.Render("Critic")
	sub := shared.SubtitleStyle.Render("Senior engineer code review")
	return title + "\n" + sub + "\n" + shared.RenderDivider(m.width)
}

// trigger renders the run-review button. It stays visible while disabled.
func (m *Model) trigger() string {
	if m.session.Loading() {
		return shared.DisabledButtonStyle.Render(BusyLabel)
	}
	if !m.keys.Review.Enabled() {
		return shared.DisabledButtonStyle.Render(RunLabel)
	}
	return shared.ButtonStyle.Render(RunLabel)
}

func (m *Model) inputPanel(width, height int) string {
	tag := fmt.Sprintf("%d lines", m.input.LineCount())
	return m.panel("SOURCE CODE", tag, m.input.View(), width, height, m.focus == PaneInput)
}

func (m *Model) outputPanel(width, height int) string {
	var tag string
	switch m.session.Status() {
	case review.StatusInFlight:
		tag = shared.IndicatorLive + " live"
	case review.StatusSucceeded:
		tag = fmt.Sprintf("%s %.0f%%", shared.IndicatorDone, m.output.ScrollPercent()*100)
	case review.StatusFailed:
		tag = shared.IndicatorError + " failed"
	default:
		tag = shared.IndicatorEmpty + " idle"
	}
	return m.panel("ANALYSIS REPORT", tag, m.output.View(), width, height, m.focus == PaneOutput)
}

func (m *Model) panel(label, tag, content string, width, height int, focused bool) string {
	style := shared.PanelStyle
	if focused {
		style = shared.FocusedPanelStyle
	}
	inner := max(width-panelFrameW, 1)

	l := shared.PanelLabelStyle.Render(label)
	t := shared.PanelTagStyle.Render(tag)
	gap := max(inner-lipgloss.Width(l)-lipgloss.Width(t), 1)
	heading := l + strings.Repeat(" ", gap) + t

	return style.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}

func (m *Model) footer() string {
	help := shared.HelpLine(
		m.keys.Review,
		m.keys.Retry,
		m.keys.Copy,
		m.keys.Paste,
		m.keys.Reset,
		m.keys.Focus,
		m.keys.Quit,
	)

	status := fmt.Sprintf(" %s  prompt %s", m.engine, prompt.Version)
	if m.flash != "" {
		status += "  " + shared.FlashStyle.Render(shared.IndicatorDone+" "+m.flash)
	}

	return m.trigger() + shared.HelpDescStyle.Render(help) + "\n" + shared.FooterStyle.Render(status)
}
