package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/storerate/storerate/cli/tui/styles"
)

// BreadcrumbItem represents a single breadcrumb item
type BreadcrumbItem struct {
	Label  string
	Active bool
}

// Breadcrumb shows where a view sits in the role navigation
type Breadcrumb struct {
	Width int
	Items []BreadcrumbItem
}

// NewBreadcrumb creates a new breadcrumb component
func NewBreadcrumb() Breadcrumb {
	return Breadcrumb{
		Items: make([]BreadcrumbItem, 0),
	}
}

// SetWidth sets the breadcrumb width
func (b *Breadcrumb) SetWidth(width int) {
	b.Width = width
}

// View renders the breadcrumb
func (b *Breadcrumb) View() string {
	if len(b.Items) == 0 {
		return ""
	}
	var parts []string
	for i, item := range b.Items {
		var rendered string

		if item.Active {
			rendered = styles.BreadcrumbActiveStyle.Render(item.Label)
		} else {
			rendered = styles.BreadcrumbStyle.Render(item.Label)
		}

		parts = append(parts, rendered)

		if i < len(b.Items)-1 {
			separator := styles.BreadcrumbStyle.Render(" → ")
			parts = append(parts, separator)
		}
	}
	breadcrumb := strings.Join(parts, "")
	if b.Width > 0 && lipgloss.Width(breadcrumb) > b.Width {
		maxWidth := b.Width - 3 // Leave space for "..."
		for lipgloss.Width(breadcrumb) > maxWidth && len(parts) > 1 {
			if len(parts) >= 3 {
				parts = parts[2:] // Remove item and separator
			} else {
				break
			}
			breadcrumb = strings.Join(parts, "")
		}
		if len(parts) > 0 {
			breadcrumb = "..." + breadcrumb
		}
	}
	return breadcrumb
}

// GetHeight returns the breadcrumb height (always 1)
func (b *Breadcrumb) GetHeight() int {
	if len(b.Items) == 0 {
		return 0
	}
	return 1
}

// SetPath replaces the items; the last one becomes active
func (b *Breadcrumb) SetPath(labels ...string) {
	b.Items = make([]BreadcrumbItem, 0, len(labels))
	for i, label := range labels {
		b.Items = append(b.Items, BreadcrumbItem{Label: label, Active: i == len(labels)-1})
	}
}

// SetNavPath renders the role's home followed by the current section
func (b *Breadcrumb) SetNavPath(role, section string) {
	if role == "" {
		role = "Guest"
	}
	b.SetPath("Storerate", role, section)
}
