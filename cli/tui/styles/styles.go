// Package styles holds the lipgloss palette and shared styles for every
// storerate TUI view.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#04B575"}
	Secondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	Highlight = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#7DD3FC"}
	Surface   = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#1F2937"}
	Border    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#374151"}
	Muted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	Success   = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	Warning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Error     = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FF6B6B"}
	Star      = lipgloss.AdaptiveColor{Light: "#CA8A04", Dark: "#FACC15"}
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Highlight)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Highlight).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Secondary)

	PaginationStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingTop(1)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(Muted)

	BreadcrumbActiveStyle = lipgloss.NewStyle().
				Foreground(Primary).
				Bold(true)

	FocusedColumnStyle = lipgloss.NewStyle().
				Foreground(Highlight).
				Underline(true)

	StarStyle = lipgloss.NewStyle().
			Foreground(Star)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Background(Surface).
			Padding(0, 1)
)

// RenderTitle renders a view title
func RenderTitle(title string) string {
	return TitleStyle.Render(title)
}

// Stars renders value filled stars followed by the remaining empty ones up to total.
func Stars(value, total int) string {
	value = max(0, min(value, total))
	filled := ""
	empty := ""
	for i := 0; i < total; i++ {
		if i < value {
			filled += "★"
			continue
		}
		empty += "☆"
	}
	return StarStyle.Render(filled) + HelpStyle.Render(empty)
}
