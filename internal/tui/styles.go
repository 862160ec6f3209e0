package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#EF4444") // Red

	BorderColor        = lipgloss.Color("#374151")
	TextColor          = lipgloss.Color("#F9FAFB")
	TextSecondaryColor = lipgloss.Color("#9CA3AF")
	TextMutedColor     = lipgloss.Color("#6B7280")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Italic(true).
			Padding(1, 2)

	FooterStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor)

	ModeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// tableStyles returns the bubbles table styles in the app palette.
func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		BorderBottom(true).
		Bold(true).
		Foreground(TextSecondaryColor)
	s.Selected = s.Selected.
		Foreground(TextColor).
		Background(BorderColor).
		Bold(false)
	return s
}
