package tui

import "github.com/charmbracelet/lipgloss"

// Colour palette.
//
//nolint:gochecknoglobals // lipgloss styles are package-level by convention.
var (
	ColorAccent   = lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FD7FF"}
	ColorHit      = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	ColorOK       = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#87D787"}
	ColorWarning  = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF5F"}
	ColorMuted    = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	ColorSelected = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
)

// Styles shared by the renderers and the interactive view.
//
//nolint:gochecknoglobals // lipgloss styles are package-level by convention.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorAccent)
	OKStyle     = lipgloss.NewStyle().Foreground(ColorOK)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorHit)
	HitStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorHit)

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true)

	TableSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorSelected).
		Background(ColorAccent)
)

// StatusStyle picks the style for a file status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "done":
		return OKStyle
	case "failed":
		return ErrorStyle
	default:
		return WarnStyle
	}
}
