package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storerate/storerate/internal/browse"
)

type testRow struct {
	ID   string
	Name string
	City string
}

func testColumns() []Column[testRow] {
	return []Column[testRow]{
		{ID: "name", Label: "Name", Width: 20, Sortable: true, Render: func(r testRow) string { return r.Name }},
		{ID: "city", Label: "City", Width: 20, Render: func(r testRow) string { return r.City }},
	}
}

func testRows(n int) []testRow {
	rows := make([]testRow, 0, n)
	for i := range n {
		rows = append(rows, testRow{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Store %d", i+1), City: "Lisbon"})
	}
	return rows
}

func newTestTable(total int) DataTable[testRow] {
	dt := NewDataTable(
		testColumns(),
		browse.SortSpec{Field: "name", Order: browse.SortOrderAsc},
		browse.PageSpec{Index: 0, Size: 5},
		[]int{5, 10, 25},
	)
	dt.SetSize(80, 20)
	dt.SetRows(testRows(min(total, 5)), total)
	return dt
}

func TestDataTable_Sort(t *testing.T) {
	t.Run("Should request sort on the focused sortable column", func(t *testing.T) {
		dt := newTestTable(12)
		dt, cmd := dt.Update(runeKey("s"))
		msg, ok := findMsg[SortRequestedMsg](cmd)
		require.True(t, ok)
		assert.Equal(t, "name", msg.Field)
	})

	t.Run("Should ignore sort on a column that is not sortable", func(t *testing.T) {
		dt := newTestTable(12)
		dt, _ = dt.Update(tea.KeyMsg{Type: tea.KeyRight})
		assert.Equal(t, "city", dt.FocusedColumn().ID)
		_, cmd := dt.Update(runeKey("s"))
		assert.Nil(t, cmd)
	})

	t.Run("Should reflect the active sort direction", func(t *testing.T) {
		dt := newTestTable(3)
		assert.Contains(t, dt.View(), "Sort: name ▲")
		dt.SetSort(browse.SortSpec{Field: "name", Order: browse.SortOrderDesc})
		assert.Contains(t, dt.View(), "Sort: name ▼")
	})
}

func TestDataTable_Paging(t *testing.T) {
	t.Run("Should request the next and previous page within bounds", func(t *testing.T) {
		dt := newTestTable(12)

		_, cmd := dt.Update(runeKey("p"))
		assert.Nil(t, cmd)

		dt, cmd = dt.Update(runeKey("n"))
		msg, ok := findMsg[PageChangedMsg](cmd)
		require.True(t, ok)
		assert.Equal(t, 1, msg.Index)
		assert.Equal(t, 1, dt.Page().Index)
	})

	t.Run("Should not move past the last page", func(t *testing.T) {
		dt := newTestTable(12)
		dt.SetPage(browse.PageSpec{Index: 2, Size: 5})
		_, cmd := dt.Update(runeKey("n"))
		assert.Nil(t, cmd)
	})

	t.Run("Should reset the page index when rows per page changes", func(t *testing.T) {
		dt := newTestTable(60)
		dt.SetPage(browse.PageSpec{Index: 3, Size: 5})

		dt, cmd := dt.Update(runeKey("+"))

		msg, ok := findMsg[RowsPerPageChangedMsg](cmd)
		require.True(t, ok)
		assert.Equal(t, 10, msg.Size)
		assert.Equal(t, browse.PageSpec{Index: 0, Size: 10}, dt.Page())
	})

	t.Run("Should stop at the smallest page size", func(t *testing.T) {
		dt := newTestTable(12)
		_, cmd := dt.Update(runeKey("-"))
		assert.Nil(t, cmd)
	})

	t.Run("Should describe the visible window", func(t *testing.T) {
		dt := newTestTable(12)
		assert.Contains(t, dt.View(), "Page 1 of 3 • 1-5 of 12")
	})
}

func TestDataTable_Rows(t *testing.T) {
	t.Run("Should render the empty text once a fetch matched nothing", func(t *testing.T) {
		dt := newTestTable(0)
		dt.SetBodyState(BodyEmpty)
		assert.Contains(t, dt.View(), DefaultEmptyText)
		dt.SetEmptyText("No stores found matching your criteria.")
		assert.Contains(t, dt.View(), "No stores found matching your criteria.")
	})

	t.Run("Should show loading before anything is loaded", func(t *testing.T) {
		dt := newTestTable(0)
		view := dt.View()
		assert.Contains(t, view, "Loading...")
		assert.NotContains(t, view, DefaultEmptyText)
	})

	t.Run("Should not claim no matches after a failed fetch", func(t *testing.T) {
		dt := newTestTable(0)
		dt.SetBodyState(BodyFailed)
		view := dt.View()
		assert.Contains(t, view, "Unable to load data.")
		assert.NotContains(t, view, DefaultEmptyText)
	})

	t.Run("Should render rows whatever the body state", func(t *testing.T) {
		dt := newTestTable(2)
		dt.SetBodyState(BodyFailed)
		assert.NotContains(t, dt.View(), "Unable to load data.")
	})

	t.Run("Should emit the selected row on enter", func(t *testing.T) {
		dt := newTestTable(3)
		_, cmd := dt.Update(tea.KeyMsg{Type: tea.KeyEnter})
		msg, ok := findMsg[RowSelectedMsg[testRow]](cmd)
		require.True(t, ok)
		assert.Equal(t, "1", msg.Row.ID)
	})

	t.Run("Should move the cursor with table keys", func(t *testing.T) {
		dt := newTestTable(3)
		dt, _ = dt.Update(tea.KeyMsg{Type: tea.KeyDown})
		row, ok := dt.Selected()
		require.True(t, ok)
		assert.Equal(t, "2", row.ID)
	})

	t.Run("Should report no selection when empty", func(t *testing.T) {
		dt := newTestTable(0)
		_, ok := dt.Selected()
		assert.False(t, ok)
		_, cmd := dt.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.Nil(t, cmd)
	})
}
