package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storerate/storerate/cli/tui/styles"
)

// FilterBar is a row of text inputs, one per filter field. While focused it
// owns the keyboard; every edit emits a FilterChangedMsg.
type FilterBar struct {
	fields  []string
	inputs  []textinput.Model
	focus   int
	focused bool
}

// FilterChangedMsg reports the new value of one field
type FilterChangedMsg struct {
	Field string
	Value string
}

// FilterSubmittedMsg is emitted when enter leaves the filter bar
type FilterSubmittedMsg struct{}

// NewFilterBar creates inputs for fields, seeded from initial values
func NewFilterBar(fields []string, initial map[string]string) FilterBar {
	inputs := make([]textinput.Model, 0, len(fields))
	for _, f := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f
		in.CharLimit = 120
		in.Width = 18
		in.SetValue(initial[f])
		inputs = append(inputs, in)
	}
	return FilterBar{fields: fields, inputs: inputs}
}

// Focus gives the keyboard to the current input
func (f *FilterBar) Focus() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focused = true
	return f.inputs[f.focus].Focus()
}

// Blur returns the keyboard to the owner
func (f *FilterBar) Blur() {
	f.focused = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// Focused reports whether the bar owns the keyboard
func (f *FilterBar) Focused() bool {
	return f.focused
}

// Values returns the current input values by field
func (f *FilterBar) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		out[field] = f.inputs[i].Value()
	}
	return out
}

// Clear empties every input without emitting messages
func (f *FilterBar) Clear() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
}

// Update handles keys while focused
func (f *FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd) {
	if !f.focused {
		return *f, nil
	}
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "tab":
			return *f, f.cycle(1)
		case "shift+tab":
			return *f, f.cycle(-1)
		case "esc":
			f.Blur()
			return *f, nil
		case "enter":
			f.Blur()
			return *f, func() tea.Msg { return FilterSubmittedMsg{} }
		}
	}
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	after := f.inputs[f.focus].Value()
	if after == before {
		return *f, cmd
	}
	changed := FilterChangedMsg{Field: f.fields[f.focus], Value: after}
	return *f, tea.Batch(cmd, func() tea.Msg { return changed })
}

func (f *FilterBar) cycle(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

// View renders labelled inputs on one line
func (f *FilterBar) View() string {
	parts := make([]string, 0, len(f.inputs))
	for i, field := range f.fields {
		label := styles.HelpDescStyle.Render(title(field) + ":")
		if f.focused && i == f.focus {
			label = styles.HelpKeyStyle.Render(title(field) + ":")
		}
		parts = append(parts, label+" "+f.inputs[i].View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

func title(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + strings.ReplaceAll(field[1:], "_", " ")
}
