// Package shared provides styles, keybindings and help text shared by the
// TUI model and its views.
package shared

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions for the TUI
var (
	ColorAccent = lipgloss.Color("#10B981") // Emerald - primary accent
	ColorError  = lipgloss.Color("#F87171") // Red - failures
	ColorInfo   = lipgloss.Color("#3B82F6") // Blue - secondary indicator
	ColorText   = lipgloss.Color("#CBD5E1") // Body text
	ColorDimmed = lipgloss.Color("#64748B") // Dimmed text
	ColorFaint  = lipgloss.Color("#475569") // Placeholder and footer text
	ColorBorder = lipgloss.Color("#1E293B") // Unfocused panel border
	ColorWhite  = lipgloss.Color("#FFFFFF")
)

var (
	// Header
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(ColorAccent)

	PanelLabelStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed).
			Bold(true)

	PanelTagStyle = lipgloss.NewStyle().
			Foreground(ColorFaint)

	// Output states
	EmptyTitleStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed).
			Bold(true)

	LoadingTitleStyle = lipgloss.NewStyle().
				Foreground(ColorWhite).
				Bold(true)

	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	BodyStyle = lipgloss.NewStyle().
			Foreground(ColorFaint)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// Buttons
	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#020617")).
			Background(ColorAccent).
			Padding(0, 2).
			Bold(true)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(ColorDimmed).
				Background(ColorBorder).
				Padding(0, 2)

	// Help/Footer
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorFaint)

	FlashStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorBorder)
)

// Indicators
const (
	IndicatorLive  = "●"
	IndicatorEmpty = "○"
	IndicatorError = "✗"
	IndicatorDone  = "✓"
)

// RenderDivider creates a horizontal divider of the specified width
func RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return DividerStyle.Render(strings.Repeat("─", width))
}

// Center places s in the middle of a width x height box.
func Center(s string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s)
}
