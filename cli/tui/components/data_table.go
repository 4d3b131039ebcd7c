package components

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/storerate/storerate/cli/helpers"
	"github.com/storerate/storerate/cli/tui/styles"
	"github.com/storerate/storerate/internal/browse"
)

// DefaultEmptyText is shown when a fetch matched no rows
const DefaultEmptyText = "No data available."

const (
	loadingText = "Loading..."
	failedText  = "Unable to load data."
	idleText    = "No data loaded."
)

// BodyState selects what the table shows while it has no rows
type BodyState int

const (
	// BodyLoading is a fetch in flight with nothing loaded yet
	BodyLoading BodyState = iota
	// BodyFailed is a failed fetch with nothing loaded
	BodyFailed
	// BodyEmpty is a successful fetch that matched nothing
	BodyEmpty
	// BodyIdle is nothing loaded and nothing in flight
	BodyIdle
)

// Column describes one table column. Render turns a row into the cell text.
type Column[T any] struct {
	ID       string
	Label    string
	Width    int
	Sortable bool
	Render   func(T) string
}

// DataTable renders one page of rows and turns key presses into sort and
// paging requests. It never fetches; the owner feeds it rows.
type DataTable[T any] struct {
	table     table.Model
	columns   []Column[T]
	rows      []T
	total     int
	sort      browse.SortSpec
	page      browse.PageSpec
	pageSizes []int
	focusCol  int
	emptyText string
	body      BodyState
	width     int
	height    int
	keyMap    DataTableKeyMap
}

// DataTableKeyMap defines key bindings for the data table
type DataTableKeyMap struct {
	PrevColumn key.Binding
	NextColumn key.Binding
	Sort       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	MoreRows   key.Binding
	FewerRows  key.Binding
	Select     key.Binding
}

// DefaultDataTableKeyMap returns the default key bindings
func DefaultDataTableKeyMap() DataTableKeyMap {
	return DataTableKeyMap{
		PrevColumn: newBinding([]string{"left", "h"}, "previous column", "←/h"),
		NextColumn: newBinding([]string{"right", "l"}, "next column", "→/l"),
		Sort:       newBinding([]string{"s"}, "sort by column", "s"),
		NextPage:   newBinding([]string{"n"}, "next page", "n"),
		PrevPage:   newBinding([]string{"p"}, "previous page", "p"),
		MoreRows:   newBinding([]string{"+", "="}, "more rows per page", "+"),
		FewerRows:  newBinding([]string{"-"}, "fewer rows per page", "-"),
		Select:     newBinding([]string{"enter"}, "select", "enter"),
	}
}

// ShortHelp lists the bindings shown in the footer
func (k DataTableKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextColumn, k.Sort, k.NextPage, k.MoreRows, k.Select}
}

func newBinding(keys []string, help, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, help),
	)
}

// NewDataTable creates a table for columns starting on the first page.
func NewDataTable[T any](columns []Column[T], sort browse.SortSpec, page browse.PageSpec, pageSizes []int) DataTable[T] {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(max(1, page.Size)),
	)
	t.SetStyles(defaultTableStyles())
	dt := DataTable[T]{
		table:     t,
		columns:   columns,
		sort:      sort,
		page:      page,
		pageSizes: slices.Clone(pageSizes),
		emptyText: DefaultEmptyText,
		body:      BodyLoading,
		keyMap:    DefaultDataTableKeyMap(),
	}
	dt.refreshColumns()
	dt.refreshRows()
	return dt
}

func defaultTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

// SetSize sets the available area
func (dt *DataTable[T]) SetSize(width, height int) *DataTable[T] {
	dt.width = width
	dt.height = height
	dt.table.SetWidth(width)
	// header border and footer
	dt.table.SetHeight(max(1, min(height-4, dt.page.Size+1)))
	return dt
}

// SetRows replaces the visible page and the total across all pages
func (dt *DataTable[T]) SetRows(rows []T, total int) *DataTable[T] {
	dt.rows = slices.Clone(rows)
	dt.total = total
	dt.refreshRows()
	return dt
}

// SetBodyState sets what an empty page shows
func (dt *DataTable[T]) SetBodyState(state BodyState) *DataTable[T] {
	dt.body = state
	return dt
}

// Placeholder returns the text shown in place of rows
func (dt *DataTable[T]) Placeholder() string {
	switch dt.body {
	case BodyEmpty:
		return dt.emptyText
	case BodyFailed:
		return failedText
	case BodyIdle:
		return idleText
	default:
		return loadingText
	}
}

// SetSort updates the indicator without emitting a request
func (dt *DataTable[T]) SetSort(spec browse.SortSpec) *DataTable[T] {
	dt.sort = spec
	dt.refreshColumns()
	return dt
}

// SetPage updates the visible page without emitting a request
func (dt *DataTable[T]) SetPage(page browse.PageSpec) *DataTable[T] {
	dt.page = page
	if dt.height > 0 {
		dt.SetSize(dt.width, dt.height)
	}
	return dt
}

// SetEmptyText sets the text rendered in place of an empty table
func (dt *DataTable[T]) SetEmptyText(text string) *DataTable[T] {
	dt.emptyText = text
	return dt
}

// SetColumns replaces the column set and keeps the focus in range
func (dt *DataTable[T]) SetColumns(columns []Column[T]) *DataTable[T] {
	dt.columns = columns
	dt.focusCol = min(dt.focusCol, max(0, len(columns)-1))
	dt.refreshColumns()
	dt.refreshRows()
	return dt
}

// Rows returns the visible page
func (dt *DataTable[T]) Rows() []T {
	return dt.rows
}

// Page returns the page the table currently shows
func (dt *DataTable[T]) Page() browse.PageSpec {
	return dt.page
}

// FocusedColumn returns the column the sort key acts on
func (dt *DataTable[T]) FocusedColumn() Column[T] {
	return dt.columns[dt.focusCol]
}

// Selected returns the row under the cursor
func (dt *DataTable[T]) Selected() (T, bool) {
	var zero T
	i := dt.table.Cursor()
	if i < 0 || i >= len(dt.rows) {
		return zero, false
	}
	return dt.rows[i], true
}

// KeyMap returns the table key bindings
func (dt *DataTable[T]) KeyMap() DataTableKeyMap {
	return dt.keyMap
}

// Update handles key presses, emitting request messages for the owner
func (dt *DataTable[T]) Update(msg tea.Msg) (DataTable[T], tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return *dt, nil
	}
	switch {
	case key.Matches(keyMsg, dt.keyMap.PrevColumn):
		dt.moveFocus(-1)
		return *dt, nil
	case key.Matches(keyMsg, dt.keyMap.NextColumn):
		dt.moveFocus(1)
		return *dt, nil
	case key.Matches(keyMsg, dt.keyMap.Sort):
		return *dt, dt.requestSort()
	case key.Matches(keyMsg, dt.keyMap.NextPage):
		return *dt, dt.changePage(dt.page.Index + 1)
	case key.Matches(keyMsg, dt.keyMap.PrevPage):
		return *dt, dt.changePage(dt.page.Index - 1)
	case key.Matches(keyMsg, dt.keyMap.MoreRows):
		return *dt, dt.cyclePageSize(1)
	case key.Matches(keyMsg, dt.keyMap.FewerRows):
		return *dt, dt.cyclePageSize(-1)
	case key.Matches(keyMsg, dt.keyMap.Select):
		row, ok := dt.Selected()
		if !ok {
			return *dt, nil
		}
		return *dt, func() tea.Msg { return RowSelectedMsg[T]{Row: row} }
	}
	var cmd tea.Cmd
	dt.table, cmd = dt.table.Update(msg)
	return *dt, cmd
}

func (dt *DataTable[T]) moveFocus(delta int) {
	if len(dt.columns) == 0 {
		return
	}
	dt.focusCol = (dt.focusCol + delta + len(dt.columns)) % len(dt.columns)
	dt.refreshColumns()
}

func (dt *DataTable[T]) requestSort() tea.Cmd {
	if len(dt.columns) == 0 {
		return nil
	}
	col := dt.columns[dt.focusCol]
	if !col.Sortable {
		return nil
	}
	return func() tea.Msg { return SortRequestedMsg{Field: col.ID} }
}

func (dt *DataTable[T]) changePage(index int) tea.Cmd {
	last := browse.PageCount(dt.total, dt.page.Size) - 1
	if index < 0 || index > last || index == dt.page.Index {
		return nil
	}
	dt.page.Index = index
	return func() tea.Msg { return PageChangedMsg{Index: index} }
}

func (dt *DataTable[T]) cyclePageSize(delta int) tea.Cmd {
	i := slices.Index(dt.pageSizes, dt.page.Size)
	next := i + delta
	if i < 0 || next < 0 || next >= len(dt.pageSizes) {
		return nil
	}
	size := dt.pageSizes[next]
	dt.page = browse.PageSpec{Index: 0, Size: size}
	if dt.height > 0 {
		dt.SetSize(dt.width, dt.height)
	}
	return func() tea.Msg { return RowsPerPageChangedMsg{Size: size} }
}

func (dt *DataTable[T]) refreshColumns() {
	cols := make([]table.Column, 0, len(dt.columns))
	for i, c := range dt.columns {
		title := c.Label
		if c.ID == dt.sort.Field {
			title += " " + dt.sort.Order.Indicator()
		}
		if i == dt.focusCol {
			title = "›" + title
		}
		cols = append(cols, table.Column{Title: title, Width: c.Width})
	}
	// rows must be cleared first or table panics on a column count mismatch
	dt.table.SetRows(nil)
	dt.table.SetColumns(cols)
	dt.refreshRows()
}

func (dt *DataTable[T]) refreshRows() {
	rows := make([]table.Row, 0, len(dt.rows))
	for _, r := range dt.rows {
		row := make(table.Row, 0, len(dt.columns))
		for _, c := range dt.columns {
			row = append(row, helpers.Truncate(c.Render(r), c.Width))
		}
		rows = append(rows, row)
	}
	dt.table.SetRows(rows)
	if dt.table.Cursor() >= len(rows) {
		dt.table.SetCursor(max(0, len(rows)-1))
	}
}

// View renders the table
func (dt *DataTable[T]) View() string {
	sections := []string{dt.renderHeader()}
	if len(dt.rows) == 0 {
		sections = append(sections, styles.HelpStyle.Render(dt.Placeholder()))
	} else {
		sections = append(sections, dt.table.View())
	}
	sections = append(sections, dt.renderPagination())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (dt *DataTable[T]) renderHeader() string {
	parts := []string{}
	if dt.sort.Field != "" {
		parts = append(parts, styles.InfoStyle.Render(
			fmt.Sprintf("Sort: %s %s", dt.sort.Field, dt.sort.Order.Indicator())))
	}
	if len(dt.columns) > 0 {
		parts = append(parts, styles.HelpStyle.Render("Column: "+dt.columns[dt.focusCol].Label))
	}
	return strings.Join(parts, " • ")
}

func (dt *DataTable[T]) renderPagination() string {
	pages := browse.PageCount(dt.total, dt.page.Size)
	if dt.total == 0 {
		return styles.PaginationStyle.Render(
			fmt.Sprintf("Rows per page: %d • Page 1 of 1 • 0 items", dt.page.Size))
	}
	start := dt.page.Offset() + 1
	end := min(dt.page.Offset()+len(dt.rows), dt.total)
	return styles.PaginationStyle.Render(fmt.Sprintf(
		"Rows per page: %d • Page %d of %d • %d-%d of %d",
		dt.page.Size, dt.page.Index+1, pages, start, end, dt.total,
	))
}

// SortRequestedMsg asks the owner to sort by Field
type SortRequestedMsg struct {
	Field string
}

// PageChangedMsg asks the owner to show page Index
type PageChangedMsg struct {
	Index int
}

// RowsPerPageChangedMsg asks the owner to switch to Size rows per page
type RowsPerPageChangedMsg struct {
	Size int
}

// RowSelectedMsg reports the row chosen with enter
type RowSelectedMsg[T any] struct {
	Row T
}
