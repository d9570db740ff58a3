// Package tui implements the interactive fix picker used by the fix
// command.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkwell-labs/journalint/pkg/lint"
)

// FixItem is one selectable fix-bearing issue.
type FixItem struct {
	Path       string
	Diagnostic lint.Diagnostic
}

// PickFixes shows the picker and returns the chosen items. Quitting
// without applying returns an empty selection and no error.
func PickFixes(items []FixItem) ([]FixItem, error) {
	m := newPickerModel(items)
	// The picker renders on stderr so command output stays on stdout.
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	res, err := p.Run()
	if err != nil {
		return nil, err
	}
	final, ok := res.(*pickerModel)
	if !ok || !final.apply {
		return nil, nil
	}
	var selected []FixItem
	for i, item := range final.items {
		if final.selected[i] {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Apply  key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.Apply, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.All, k.None},
		{k.Apply, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "select all"),
		),
		None: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "select none"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply selected"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type pickerStyles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	path     lipgloss.Style
	ruleID   lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
}

func defaultPickerStyles() pickerStyles {
	return pickerStyles{
		title:    lipgloss.NewStyle().Bold(true),
		cursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		path:     lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		ruleID:   lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

type pickerModel struct {
	items    []FixItem
	selected map[int]bool
	cursor   int
	offset   int
	height   int
	apply    bool
	keys     keyMap
	help     help.Model
	styles   pickerStyles
}

func newPickerModel(items []FixItem) *pickerModel {
	selected := make(map[int]bool, len(items))
	for i := range items {
		selected[i] = true
	}
	return &pickerModel{
		items:    items,
		selected: selected,
		height:   24,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   defaultPickerStyles(),
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Height > 0 {
			m.height = msg.Height
		}
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			m.selected[m.cursor] = !m.selected[m.cursor]
		case key.Matches(msg, m.keys.All):
			for i := range m.items {
				m.selected[i] = true
			}
		case key.Matches(msg, m.keys.None):
			for i := range m.items {
				m.selected[i] = false
			}
		case key.Matches(msg, m.keys.Apply):
			m.apply = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Quit):
			m.apply = false
			return m, tea.Quit
		}
		m.scrollToCursor()
	}
	return m, nil
}

// visibleRows is the number of item lines that fit between the title
// and the footer.
func (m *pickerModel) visibleRows() int {
	rows := m.height - 4
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m *pickerModel) scrollToCursor() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

func (m *pickerModel) View() string {
	var b strings.Builder

	count := 0
	for _, on := range m.selected {
		if on {
			count++
		}
	}
	b.WriteString(m.styles.title.Render(fmt.Sprintf("Select fixes to apply (%d/%d)", count, len(m.items))))
	b.WriteString("\n\n")

	rows := m.visibleRows()
	end := m.offset + rows
	if end > len(m.items) {
		end = len(m.items)
	}
	for i := m.offset; i < end; i++ {
		item := m.items[i]
		d := item.Diagnostic

		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
		}
		box := "[ ]"
		if m.selected[i] {
			box = m.styles.selected.Render("[x]")
		}

		desc := d.Message
		if len(d.Fixes) > 0 {
			desc = d.Fixes[0].Description
		}
		b.WriteString(fmt.Sprintf("%s%s %s%s %s  %s\n",
			cursor,
			box,
			m.styles.path.Render(item.Path),
			m.styles.muted.Render(fmt.Sprintf(":%d", d.Pos.Line)),
			m.styles.ruleID.Render(d.RuleID),
			desc,
		))
	}
	if end < len(m.items) {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("  ... %d more", len(m.items)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
