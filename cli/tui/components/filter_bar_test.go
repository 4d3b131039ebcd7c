package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterBar(t *testing.T) {
	t.Run("Should ignore keys while blurred", func(t *testing.T) {
		f := NewFilterBar([]string{"name", "address"}, nil)
		f, cmd := f.Update(runeKey("C"))
		assert.Nil(t, cmd)
		assert.Empty(t, f.Values()["name"])
	})

	t.Run("Should emit a change for the focused field", func(t *testing.T) {
		f := NewFilterBar([]string{"name", "address"}, map[string]string{"name": "Cof"})
		f.Focus()

		f, cmd := f.Update(runeKey("f"))

		msg, ok := findMsg[FilterChangedMsg](cmd)
		require.True(t, ok)
		assert.Equal(t, FilterChangedMsg{Field: "name", Value: "Coff"}, msg)
	})

	t.Run("Should move between fields with tab", func(t *testing.T) {
		f := NewFilterBar([]string{"name", "address"}, nil)
		f.Focus()
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
		f, cmd := f.Update(runeKey("L"))

		msg, ok := findMsg[FilterChangedMsg](cmd)
		require.True(t, ok)
		assert.Equal(t, "address", msg.Field)
	})

	t.Run("Should blur and submit on enter", func(t *testing.T) {
		f := NewFilterBar([]string{"name"}, nil)
		f.Focus()
		f, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, f.Focused())
		_, ok := findMsg[FilterSubmittedMsg](cmd)
		assert.True(t, ok)
	})

	t.Run("Should clear values", func(t *testing.T) {
		f := NewFilterBar([]string{"name"}, map[string]string{"name": "x"})
		f.Clear()
		assert.Empty(t, f.Values()["name"])
	})
}

func TestBreadcrumb(t *testing.T) {
	t.Run("Should render the role navigation path", func(t *testing.T) {
		b := NewBreadcrumb()
		b.SetNavPath("Normal User", "All Stores")
		view := b.View()
		assert.Contains(t, view, "Storerate")
		assert.Contains(t, view, "All Stores")
		assert.True(t, b.Items[len(b.Items)-1].Active)
	})
}
