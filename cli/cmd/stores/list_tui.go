package stores

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/storerate/storerate/cli/api"
	"github.com/storerate/storerate/cli/tui/browser"
	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/internal/rating"
)

// ratingDoneMsg carries a finished submission back into the update loop
type ratingDoneMsg struct {
	result rating.Result
}

// listModel is the store list with the rating dialog layered on top
type listModel struct {
	*browser.Model[api.Store]
	workflow *rating.Workflow
	dialog   components.RatingDialog
}

func newStoreListModel(
	ctx context.Context,
	s *browse.Session[api.Store],
	workflow *rating.Workflow,
	role string,
	noticeTTL time.Duration,
) *listModel {
	view := browser.New(ctx, s, browser.Config[api.Store]{
		Title:     "Stores",
		Role:      role,
		Section:   "Stores",
		Columns:   storeColumns(workflow.CanRate()),
		EmptyText: NoStoresText,
		NoticeTTL: noticeTTL,
		RowID:     func(s api.Store) string { return s.ID.String() },
	})
	return &listModel{
		Model:    view,
		workflow: workflow,
		dialog:   components.NewRatingDialog(rating.MaxValue),
	}
}

func (m *listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case components.RowSelectedMsg[api.Store]:
		return m, m.openDialog(msg.Row)
	case ratingDoneMsg:
		return m, m.resolve(msg.result)
	case spinner.TickMsg:
		return m, tea.Batch(m.dialog.Update(msg), m.Handle(msg))
	case tea.KeyMsg:
		if m.dialogOpen() && msg.Type != tea.KeyCtrlC {
			return m, m.handleDialogKey(msg)
		}
	}
	return m, m.Handle(msg)
}

func (m *listModel) dialogOpen() bool {
	return m.workflow.State() != rating.StateClosed
}

func (m *listModel) openDialog(row api.Store) tea.Cmd {
	err := m.workflow.Open(rating.Target{
		ID:             row.ID.String(),
		Name:           row.Name,
		PreviousRating: row.PreviousRating(),
	})
	if errors.Is(err, rating.ErrNotPermitted) {
		return m.Notice().Error(rating.MsgNotPermitted)
	}
	if err != nil {
		return m.Notice().Error(err.Error())
	}
	m.syncDialog()
	return nil
}

func (m *listModel) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "esc":
		m.workflow.Cancel()
	case "enter":
		return m.submit()
	case "left", "h", "-":
		_ = m.workflow.Adjust(-1)
	case "right", "l", "+", "=":
		_ = m.workflow.Adjust(1)
	case "1", "2", "3", "4", "5":
		_ = m.workflow.SetValue(int(key[0] - '0'))
	}
	m.syncDialog()
	return nil
}

func (m *listModel) submit() tea.Cmd {
	sub, err := m.workflow.Submit()
	m.syncDialog()
	if err != nil {
		// validation messages render inline; a second enter while in flight is ignored
		return nil
	}
	ctx := m.Context()
	return tea.Batch(m.dialog.Tick(), func() tea.Msg {
		return ratingDoneMsg{result: sub.Run(ctx)}
	})
}

func (m *listModel) resolve(r rating.Result) tea.Cmd {
	outcome, ok := m.workflow.Resolve(r)
	if !ok {
		return nil
	}
	m.syncDialog()
	if !outcome.Refresh {
		return nil
	}
	return tea.Batch(m.Notice().Success(outcome.Notice), m.Reload())
}

func (m *listModel) syncDialog() {
	draft, _ := m.workflow.Draft()
	target, _ := m.workflow.Target()
	width, _ := m.Size()
	m.dialog.Title = m.workflow.Title()
	m.dialog.StoreName = target.Name
	m.dialog.Value = draft.Value
	m.dialog.Err = draft.ValidationMessage
	m.dialog.Submitting = m.workflow.State() == rating.StateSubmitting
	m.dialog.Width = width
}

func (m *listModel) View() string {
	if !m.dialogOpen() {
		return m.Model.View()
	}
	width, height := m.Size()
	if width == 0 || height == 0 {
		return m.dialog.View()
	}
	return m.dialog.Place(width, height)
}
