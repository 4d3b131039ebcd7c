package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/storerate/storerate/cli/tui/styles"
)

// LayoutComponent stacks a header, breadcrumb, notice line, content and a
// status footer, with the shortcuts card drawn over everything when open.
type LayoutComponent struct {
	Width  int
	Height int
	Title  string

	Content string
	Footer  string
	Status  string

	ShowHeader bool
	ShowFooter bool

	Breadcrumb Breadcrumb
	Shortcuts  KeyboardShortcuts
}

// NewLayoutComponent creates a new layout component
func NewLayoutComponent(title string) LayoutComponent {
	return LayoutComponent{
		Title:      title,
		ShowHeader: true,
		ShowFooter: true,
		Breadcrumb: NewBreadcrumb(),
		Shortcuts:  NewKeyboardShortcuts(),
	}
}

// SetSize sets the layout size
func (l *LayoutComponent) SetSize(width, height int) *LayoutComponent {
	l.Width = width
	l.Height = height
	l.Breadcrumb.SetWidth(width)
	l.Shortcuts.SetSize(width, height)
	return l
}

// SetContent sets the main content
func (l *LayoutComponent) SetContent(content string) *LayoutComponent {
	l.Content = content
	return l
}

// SetFooter sets the help line
func (l *LayoutComponent) SetFooter(footer string) *LayoutComponent {
	l.Footer = footer
	return l
}

// SetStatus sets the notice or loading line shown under the header
func (l *LayoutComponent) SetStatus(status string) *LayoutComponent {
	l.Status = status
	return l
}

// View renders the layout
func (l *LayoutComponent) View() string {
	if l.Width <= 0 || l.Height <= 0 {
		return ""
	}
	if l.Shortcuts.Visible {
		return l.Shortcuts.View()
	}
	sections := make([]string, 0, 5)
	if l.ShowHeader {
		sections = append(sections, styles.RenderTitle(l.Title))
		if crumbs := l.Breadcrumb.View(); crumbs != "" {
			sections = append(sections, crumbs)
		}
	}
	sections = append(sections, l.Status)
	sections = append(sections, lipgloss.NewStyle().Padding(0, 1).Render(l.Content))
	if l.ShowFooter && l.Footer != "" {
		sections = append(sections, styles.StatusBarStyle.Width(l.Width).Render(l.Footer))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// GetContentSize returns the area left for content
func (l *LayoutComponent) GetContentSize() (width, height int) {
	width = l.Width - 2
	height = l.Height - 1
	if l.ShowHeader {
		height -= 1 + l.Breadcrumb.GetHeight()
	}
	if l.ShowFooter {
		height--
	}
	return max(0, width), max(0, height)
}
