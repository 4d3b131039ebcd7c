// Package browser is the interactive list view shared by every paged,
// filterable and sortable listing. It owns a browse.Session and renders it
// through the generic data table.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storerate/storerate/cli/tui/components"
	"github.com/storerate/storerate/cli/tui/models"
	"github.com/storerate/storerate/cli/tui/styles"
	"github.com/storerate/storerate/internal/browse"
	"github.com/storerate/storerate/pkg/logger"
)

// Config describes one listing
type Config[T any] struct {
	Title     string
	Role      string
	Section   string
	Columns   []components.Column[T]
	EmptyText string
	NoticeTTL time.Duration
	// RowID returns the identifier copied with "c"; nil disables copying
	RowID func(T) string
}

// FetchRequestedMsg carries a fetch issued outside the update loop
type FetchRequestedMsg[T any] struct {
	Pending *browse.Pending[T]
}

// FetchDoneMsg carries a finished fetch back into the update loop
type FetchDoneMsg[T any] struct {
	Outcome browse.Outcome[T]
}

// Model is the list view. Embedders call Handle and View; it also
// satisfies tea.Model on its own.
type Model[T any] struct {
	models.BaseModel
	cfg     Config[T]
	session *browse.Session[T]
	table   components.DataTable[T]
	filters components.FilterBar
	notice  components.Notice
	layout  components.LayoutComponent
	spinner spinner.Model
	send    func(tea.Msg)
	copy    func(string) error
}

// New builds the view for session. Filter input settles on the debounce
// timer goroutine, so Attach must be called before the program starts.
func New[T any](ctx context.Context, session *browse.Session[T], cfg Config[T]) *Model[T] {
	q := session.Query()
	emptyText := cfg.EmptyText
	if emptyText == "" {
		emptyText = components.DefaultEmptyText
	}
	table := components.NewDataTable(cfg.Columns, q.Sort, q.Page, session.PageSizes())
	table.SetEmptyText(emptyText)
	layout := components.NewLayoutComponent(cfg.Title)
	layout.Breadcrumb.SetNavPath(cfg.Role, cfg.Section)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.InfoStyle
	m := &Model[T]{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		cfg:       cfg,
		session:   session,
		table:     table,
		filters:   components.NewFilterBar(session.Fields(), session.Criteria()),
		notice:    components.NewNotice(cfg.NoticeTTL),
		layout:    layout,
		spinner:   sp,
		copy:      clipboard.WriteAll,
	}
	return m
}

// Attach routes fetches issued by settled filter input through send, which
// must not block the caller. tea.Program.Send qualifies when run on its own
// goroutine.
func (m *Model[T]) Attach(send func(tea.Msg)) {
	m.send = send
	m.session.OnDispatch(func(p *browse.Pending[T]) {
		if m.send != nil {
			m.send(FetchRequestedMsg[T]{Pending: p})
		}
	})
}

// SetClipboard replaces the clipboard writer
func (m *Model[T]) SetClipboard(fn func(string) error) {
	m.copy = fn
}

// Session returns the underlying browse session
func (m *Model[T]) Session() *browse.Session[T] {
	return m.session
}

// Notice returns the notice slot so embedders can post messages
func (m *Model[T]) Notice() *components.Notice {
	return &m.notice
}

// Table returns the data table
func (m *Model[T]) Table() *components.DataTable[T] {
	return &m.table
}

// FiltersFocused reports whether the filter bar owns the keyboard
func (m *Model[T]) FiltersFocused() bool {
	return m.filters.Focused()
}

// Init issues the first fetch
func (m *Model[T]) Init() tea.Cmd {
	return tea.Batch(m.Fetch(m.session.Reload()), m.spinner.Tick)
}

// Fetch runs p on a command goroutine
func (m *Model[T]) Fetch(p *browse.Pending[T]) tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return FetchDoneMsg[T]{Outcome: p.Run()}
	}
}

// Reload re-issues the current query
func (m *Model[T]) Reload() tea.Cmd {
	p := m.session.Reload()
	m.sync()
	return m.Fetch(p)
}

// Update satisfies tea.Model
func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.Handle(msg)
}

// Handle processes one message
func (m *Model[T]) Handle(msg tea.Msg) tea.Cmd {
	if cmd := m.BaseModel.Update(msg); cmd != nil {
		m.session.Stop()
		return cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		w, h := m.layout.GetContentSize()
		m.table.SetSize(w, h-2)
		return nil
	case FetchRequestedMsg[T]:
		// settled filter input has already moved the pager back to the first page
		m.sync()
		return m.Fetch(msg.Pending)
	case FetchDoneMsg[T]:
		m.session.Settle(msg.Outcome)
		m.sync()
		return nil
	case components.FilterChangedMsg:
		if err := m.session.SetField(msg.Field, msg.Value); err != nil {
			logger.FromContext(m.Context()).Warn("filter rejected", "field", msg.Field, "error", err)
		}
		return nil
	case components.FilterSubmittedMsg:
		m.session.Flush()
		return nil
	case components.SortRequestedMsg:
		p, err := m.session.RequestSort(msg.Field)
		if err != nil {
			return m.notice.Error(err.Error())
		}
		m.sync()
		return m.Fetch(p)
	case components.PageChangedMsg:
		p := m.session.SetPage(msg.Index)
		m.sync()
		return m.Fetch(p)
	case components.RowsPerPageChangedMsg:
		p, err := m.session.SetPageSize(msg.Size)
		if err != nil {
			return m.notice.Error(err.Error())
		}
		m.sync()
		return m.Fetch(p)
	case components.NoticeExpiredMsg:
		m.notice.Update(msg)
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.filters.Focused() {
		var cmd tea.Cmd
		m.filters, cmd = m.filters.Update(msg)
		return cmd
	}
	if m.layout.Shortcuts.Visible {
		m.layout.Shortcuts.Update(msg)
		if msg.String() == "?" {
			m.layout.Shortcuts.Hide()
		}
		return nil
	}
	switch msg.String() {
	case "q":
		m.Quit()
		m.session.Stop()
		return tea.Quit
	case "?":
		m.layout.Shortcuts.Show()
		return nil
	case "/":
		return m.filters.Focus()
	case "ctrl+l":
		m.filters.Clear()
		m.session.ClearFilters()
		return nil
	case "r":
		return m.Reload()
	case "x":
		m.session.DismissError()
		m.notice.Dismiss()
		m.sync()
		return nil
	case "c":
		return m.copySelected()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}

func (m *Model[T]) copySelected() tea.Cmd {
	if m.cfg.RowID == nil || m.copy == nil {
		return nil
	}
	row, ok := m.table.Selected()
	if !ok {
		return nil
	}
	id := m.cfg.RowID(row)
	if err := m.copy(id); err != nil {
		return m.notice.Error(fmt.Sprintf("Copy failed: %v", err))
	}
	return m.notice.Info(fmt.Sprintf("Copied %s to clipboard", id))
}

// sync pushes the session state into the table
func (m *Model[T]) sync() {
	snap := m.session.Snapshot()
	q := m.session.Query()
	m.table.SetSort(q.Sort)
	m.table.SetPage(q.Page)
	m.table.SetRows(snap.Result.Rows, snap.Result.Total)
	m.table.SetBodyState(bodyState(snap))
}

func bodyState[T any](snap browse.State[T]) components.BodyState {
	switch {
	case snap.Empty():
		return components.BodyEmpty
	case snap.Loading:
		return components.BodyLoading
	case snap.Err != "":
		return components.BodyFailed
	default:
		return components.BodyIdle
	}
}

// StatusLine renders the loading, error or notice line
func (m *Model[T]) StatusLine() string {
	snap := m.session.Snapshot()
	switch {
	case snap.Err != "":
		return styles.ErrorStyle.Render("✖ "+snap.Err) + styles.HelpStyle.Render("  (x to dismiss, r to retry)")
	case m.notice.Visible():
		return m.notice.View()
	case snap.Loading:
		return m.spinner.View() + " Loading..."
	default:
		return ""
	}
}

// View renders the list
func (m *Model[T]) View() string {
	if m.IsQuitting() {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left, m.filters.View(), "", m.table.View())
	m.layout.SetStatus(m.StatusLine())
	m.layout.SetContent(content)
	m.layout.SetFooter("/ filter • s sort • n/p page • +/- rows • r reload • ? help • q quit")
	if !m.IsReady() {
		return content
	}
	return m.layout.View()
}
