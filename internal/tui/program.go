package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Program wraps a Bubble Tea program running the review model in the
// alternate screen.
type Program struct {
	program *tea.Program // Underlying Bubble Tea program
	model   *Model       // Shared model for state access
}

// NewProgram creates and initializes a new TUI Program ready to be started.
// Review invocations run under ctx and are canceled when it is.
func NewProgram(ctx context.Context, opts Options) *Program {
	model := NewModel(opts)
	model.SetContext(ctx)
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	return &Program{
		program: program,
		model:   model,
	}
}

// Start runs the TUI program and blocks until it exits.
// Returns an error if the program fails to initialize or encounters a fatal error.
func (p *Program) Start() error {
	defer p.model.Session().Close()
	_, err := p.program.Run()
	return err
}
