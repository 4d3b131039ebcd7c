package components

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/cli/tui/styles"
)

// FormWrapper runs a huh form as a standalone program and records whether
// it finished or was aborted.
type FormWrapper struct {
	models.BaseModel
	form      *huh.Form
	canceled  bool
	completed bool
}

// NewFormWrapper creates a new form wrapper
func NewFormWrapper(ctx context.Context, form *huh.Form) *FormWrapper {
	return &FormWrapper{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		form:      form,
	}
}

// NewRatingForm builds a star picker for storeName. The chosen value lands
// in value, which seeds the initial selection.
func NewRatingForm(ctx context.Context, title, storeName string, maxValue int, value *int) *FormWrapper {
	options := make([]huh.Option[int], 0, maxValue)
	for v := maxValue; v >= 1; v-- {
		options = append(options, huh.NewOption(fmt.Sprintf("%s  %d", styles.Stars(v, maxValue), v), v))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Description(storeName).
				Options(options...).
				Value(value),
		),
	)
	return NewFormWrapper(ctx, form)
}

// Init initializes the form
func (f *FormWrapper) Init() tea.Cmd {
	return f.form.Init()
}

// Update handles form updates
func (f *FormWrapper) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c", "esc":
			f.canceled = true
			return f, tea.Quit
		}
	}
	f.BaseModel.Update(msg)
	form, cmd := f.form.Update(msg)
	frm, ok := form.(*huh.Form)
	if !ok {
		return f, cmd
	}
	f.form = frm
	switch f.form.State {
	case huh.StateCompleted:
		f.completed = true
		return f, tea.Quit
	case huh.StateAborted:
		f.canceled = true
		return f, tea.Quit
	}
	return f, cmd
}

// View renders the form
func (f *FormWrapper) View() string {
	return f.form.View()
}

// IsCanceled returns whether the form was canceled
func (f *FormWrapper) IsCanceled() bool {
	return f.canceled
}

// IsCompleted returns whether the form was completed
func (f *FormWrapper) IsCompleted() bool {
	return f.completed
}
