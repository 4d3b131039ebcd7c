package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storerate/storerate/cli/tui/styles"
)

// RatingDialog renders the rating editor. The owner drives the values; the
// dialog only draws them.
type RatingDialog struct {
	Title      string
	StoreName  string
	Value      int
	Max        int
	Submitting bool
	Err        string
	Width      int
	spinner    spinner.Model
}

// NewRatingDialog creates a dialog for a 1..maxValue scale
func NewRatingDialog(maxValue int) RatingDialog {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.InfoStyle
	return RatingDialog{Max: maxValue, spinner: s}
}

// Tick starts the submit spinner
func (d *RatingDialog) Tick() tea.Cmd {
	return d.spinner.Tick
}

// Update advances the spinner while submitting
func (d *RatingDialog) Update(msg tea.Msg) tea.Cmd {
	if !d.Submitting {
		return nil
	}
	var cmd tea.Cmd
	d.spinner, cmd = d.spinner.Update(msg)
	return cmd
}

// View renders the dialog box
func (d *RatingDialog) View() string {
	var b strings.Builder
	b.WriteString(styles.RenderTitle(d.Title))
	b.WriteString("\n")
	b.WriteString(styles.HelpDescStyle.Render(d.StoreName))
	b.WriteString("\n\n")
	b.WriteString(styles.Stars(d.Value, d.Max))
	if d.Value > 0 {
		b.WriteString(fmt.Sprintf("  %d/%d", d.Value, d.Max))
	} else {
		b.WriteString(styles.HelpStyle.Render("  not rated"))
	}
	b.WriteString("\n")
	if d.Err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(d.Err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if d.Submitting {
		b.WriteString(d.spinner.View() + " Submitting...")
	} else {
		b.WriteString(styles.HelpStyle.Render("←/→ adjust • 1-5 set • enter submit • esc cancel"))
	}
	box := styles.DialogStyle
	if d.Width > 0 {
		box = box.Width(min(d.Width-4, 50))
	}
	return box.Render(b.String())
}

// Place centers the dialog in a width x height area
func (d *RatingDialog) Place(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, d.View())
}
