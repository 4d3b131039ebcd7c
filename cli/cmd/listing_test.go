package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePageFooter(t *testing.T) {
	t.Run("Should pluralize the total", func(t *testing.T) {
		var buf bytes.Buffer
		page := ListPage[string]{Page: 2, PageCount: 3, Total: 12}

		require.NoError(t, WritePageFooter(&buf, page, "store", "stores"))

		assert.Equal(t, "\nPage 2 of 3 • 12 stores\n", buf.String())
	})

	t.Run("Should use the singular for one row", func(t *testing.T) {
		var buf bytes.Buffer
		page := ListPage[string]{Page: 1, PageCount: 1, Total: 1}

		require.NoError(t, WritePageFooter(&buf, page, "user", "users"))

		assert.Equal(t, "\nPage 1 of 1 • 1 user\n", buf.String())
	})
}

func TestWriteTable(t *testing.T) {
	t.Run("Should print upper-cased headers and one line per row", func(t *testing.T) {
		var buf bytes.Buffer
		columns := []TableColumn[string]{
			{Header: "Name", Value: func(s string) string { return s }},
		}

		require.NoError(t, WriteTable(&buf, columns, []string{"Coffee House", "Tea Corner"}))

		out := buf.String()
		assert.Contains(t, out, "NAME")
		assert.Contains(t, out, "Coffee House")
		assert.Contains(t, out, "Tea Corner")
	})
}
