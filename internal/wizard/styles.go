package wizard

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	colorPrimary = lipgloss.Color("86")  // Cyan
	colorSuccess = lipgloss.Color("42")  // Green
	colorError   = lipgloss.Color("196") // Red
	colorInfo    = lipgloss.Color("75")  // Blue
	colorMuted   = lipgloss.Color("240") // Gray
)

// Style definitions
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			Padding(0, 1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(1, 2)

	tipBoxStyle = lipgloss.NewStyle().
			Foreground(colorInfo).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorInfo).
			Padding(0, 1).
			MarginTop(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true).
			MarginTop(1)
)

// Icons
const (
	iconTool      = "❄️"
	iconSuccess   = "✓"
	iconError     = "✗"
	iconInfo      = "💡"
	iconKey       = "🔑"
	iconSpinner   = "⏳"
	iconArrow     = "►"
	iconSkipped   = "·"
	iconCelebrate = "🎉"
)

// Helper functions for styled output
func renderHeader(text string) string {
	return headerStyle.Render(iconTool + " " + text)
}

func renderSectionHeader(text string) string {
	return sectionHeaderStyle.Render(text)
}

func renderSuccess(text string) string {
	return successStyle.Render(iconSuccess + " " + text)
}

func renderError(text string) string {
	return errorStyle.Render(iconError + " " + text)
}

func renderInfo(text string) string {
	return tipBoxStyle.Render(iconInfo + " " + text)
}

func renderOption(selected bool, text string) string {
	if selected {
		return selectedStyle.Render(iconArrow + " " + text)
	}
	return unselectedStyle.Render("  " + text)
}

func renderStatusBar(text string) string {
	return statusBarStyle.Render(text)
}
