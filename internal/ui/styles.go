package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the preview, browser and download screens.
var (
	accentColor = lipgloss.AdaptiveColor{Light: "#B4530A", Dark: "#F2A65A"}
	textColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#EDEDED"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#9A9A9A"}
	faintColor  = lipgloss.AdaptiveColor{Light: "#A3A3A3", Dark: "#5E5E5E"}
	dangerColor = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF8A80"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(textColor)
	detailStyle = lipgloss.NewStyle().Foreground(mutedColor)
	statusStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
	helpStyle   = lipgloss.NewStyle().Foreground(faintColor)
	errorStyle  = lipgloss.NewStyle().Foreground(dangerColor)
)

// Banner renders the app name with an optional muted subtitle, for screens
// hosted outside this package.
func Banner(subtitle string) string {
	s := headerStyle.Render("climg")
	if subtitle != "" {
		s += "  " + detailStyle.Render(subtitle)
	}
	return s
}

// ErrorText renders s in the error color.
func ErrorText(s string) string { return errorStyle.Render(s) }

// HelpText renders s as a key hint.
func HelpText(s string) string { return helpStyle.Render(s) }
