package shared

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI
type KeyMap struct {
	Review key.Binding
	Reset  key.Binding
	Copy   key.Binding
	Paste  key.Binding
	Retry  key.Binding
	Focus  key.Binding
	Quit   key.Binding
	// QuitOutput only applies while the output pane has focus, where q is
	// not needed for typing.
	QuitOutput key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Review: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("^r", "run review"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^l", "clear all"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("^y", "copy markdown"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("^v", "paste"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "try again"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("^c", "quit"),
		),
		QuitOutput: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HelpLine renders bindings as " [key] desc  [key] desc".
func HelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return " " + strings.Join(parts, "  ")
}
