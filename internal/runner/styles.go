package runner

import "github.com/charmbracelet/lipgloss"

var (
	successColor = lipgloss.Color("#10B981") // Green
	errorColor   = lipgloss.Color("#F87171") // Red (red-400)
	warningColor = lipgloss.Color("#F59E0B") // Amber
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// statusStyle returns the style for a run outcome.
func statusStyle(status Status) lipgloss.Style {
	switch status {
	case StatusPassed:
		return successStyle
	case StatusFailed:
		return errorStyle
	case StatusInterrupted:
		return warningStyle
	default:
		return mutedStyle
	}
}

// statusIcon returns the report icon for a run outcome.
func statusIcon(status Status) string {
	switch status {
	case StatusPassed:
		return "✓"
	case StatusFailed:
		return "✗"
	case StatusInterrupted:
		return "!"
	default:
		return "•"
	}
}
