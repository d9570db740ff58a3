package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/text"
)

func pickerItems(n int) []FixItem {
	items := make([]FixItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, FixItem{
			Path: fmt.Sprintf("daily/entry-%02d.md", i),
			Diagnostic: lint.Diagnostic{
				RuleID:   "CT01",
				Severity: lint.SeverityError,
				Message:  "metrics block is missing required metric",
				Pos:      text.Position{Line: i + 1, Column: 3},
				Fixes:    []lint.Fix{{Description: fmt.Sprintf("Add metric %d", i)}},
			},
		})
	}
	return items
}

func press(m tea.Model, msg tea.Msg) *pickerModel {
	next, _ := m.Update(msg)
	return next.(*pickerModel)
}

func TestPickerStartsFullySelected(t *testing.T) {
	m := newPickerModel(pickerItems(3))
	for i := 0; i < 3; i++ {
		assert.True(t, m.selected[i], "item %d should start selected", i)
	}
}

func TestPickerToggleAndMove(t *testing.T) {
	m := newPickerModel(pickerItems(3))

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.selected[0])

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.selected[1])
	assert.True(t, m.selected[2])

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
}

func TestPickerCursorStaysInBounds(t *testing.T) {
	m := newPickerModel(pickerItems(2))

	m = press(m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)

	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)
}

func TestPickerSelectAllAndNone(t *testing.T) {
	m := newPickerModel(pickerItems(3))

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	for i := 0; i < 3; i++ {
		assert.False(t, m.selected[i])
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	for i := 0; i < 3; i++ {
		assert.True(t, m.selected[i])
	}
}

func TestPickerApplyQuits(t *testing.T) {
	m := newPickerModel(pickerItems(2))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	final := next.(*pickerModel)
	assert.True(t, final.apply)
	require.NotNil(t, cmd, "enter should quit the program")
}

func TestPickerQuitDiscards(t *testing.T) {
	m := newPickerModel(pickerItems(2))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	final := next.(*pickerModel)
	assert.False(t, final.apply)
	require.NotNil(t, cmd, "q should quit the program")
}

func TestPickerViewShowsItemsAndCount(t *testing.T) {
	m := newPickerModel(pickerItems(2))
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})

	view := m.View()
	assert.Contains(t, view, "Select fixes to apply (1/2)")
	assert.Contains(t, view, "daily/entry-00.md")
	assert.Contains(t, view, "CT01")
	assert.Contains(t, view, "Add metric 0")
	assert.Contains(t, view, "[ ]")
	assert.Contains(t, view, "[x]")
}

func TestPickerScrollsLongLists(t *testing.T) {
	m := newPickerModel(pickerItems(30))
	m = press(m, tea.WindowSizeMsg{Width: 80, Height: 10})

	view := m.View()
	assert.Contains(t, view, "more")
	assert.NotContains(t, view, "entry-29.md")

	for i := 0; i < 29; i++ {
		m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 29, m.cursor)
	view = m.View()
	assert.Contains(t, view, "entry-29.md")

	lines := strings.Count(view, "entry-")
	assert.LessOrEqual(t, lines, m.visibleRows())
}
