package entrytable

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverma/stride/internal/models"
)

// EditEntryMsg asks the main model to open the entry form prefilled with
// the selected entry.
type EditEntryMsg struct {
	Entry models.ProgressEntry
}

// DeleteEntryMsg asks the main model to confirm deletion of an entry.
type DeleteEntryMsg struct {
	Entry models.ProgressEntry
}

type KeyMap struct {
	Edit   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit entry"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete entry"),
		),
	}
}

type Model struct {
	table   table.Model
	keys    KeyMap
	entries []models.ProgressEntry
}

func New(entries []models.ProgressEntry, width, height int) Model {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Study", Width: 20},
		{Title: "Water", Width: 7},
		{Title: "Sleep", Width: 7},
		{Title: "Steps", Width: 14},
		{Title: "Summary", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	if height > 0 {
		t.SetHeight(height)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	m := Model{table: t, keys: DefaultKeyMap()}
	m.SetEntries(entries)
	return m
}

// SetEntries replaces the table contents. Entries arrive date-ascending
// from the repository client; display newest first.
func (m *Model) SetEntries(entries []models.ProgressEntry) {
	reversed := make([]models.ProgressEntry, len(entries))
	for i, e := range entries {
		reversed[len(entries)-1-i] = e
	}
	m.entries = reversed

	rows := make([]table.Row, len(reversed))
	for i, e := range reversed {
		rows[i] = table.Row{
			e.Date,
			clip(e.Study, 20),
			fmt.Sprintf("%.1fL", e.Water()),
			fmt.Sprintf("%.1fh", e.Sleep()),
			e.Walk10kSteps.Label(),
			clip(e.Summary, 24),
		}
	}
	m.table.SetRows(rows)
}

// Selected returns the entry under the cursor.
func (m Model) Selected() (models.ProgressEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return models.ProgressEntry{}, false
	}
	return m.entries[i], true
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Edit):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return EditEntryMsg{Entry: e} }
			}
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{Entry: e} }
			}
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.entries) == 0 {
		return "\n  No entries this week.\n  Press 'a' to add one."
	}
	return m.table.View()
}

func (m *Model) SetSize(width, height int) {
	m.table.SetWidth(width)
	if height > 0 {
		m.table.SetHeight(height)
	}
}

// clip truncates to width runes so multibyte text never splits mid-rune.
func clip(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
