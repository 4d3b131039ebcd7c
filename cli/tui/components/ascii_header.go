package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"github.com/storerate/storerate/cli/tui/styles"
)

// RenderASCIIHeader renders the storerate banner as ASCII art
func RenderASCIIHeader(width int) string {
	logo := figure.NewFigure("STORERATE", "small", true)
	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Align(lipgloss.Left)
	if width > 0 {
		headerStyle = headerStyle.Width(width)
	}
	return headerStyle.Render(logo.String())
}
