package userpicker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mverma/stride/internal/models"
)

// SelectUserMsg is emitted when a team member is chosen from the picker.
type SelectUserMsg struct {
	ID int
}

type Item struct {
	User     models.User
	Selected bool
}

func (i Item) Title() string {
	title := fmt.Sprintf("%s  %s", i.User.Initials(), i.User.Name)
	if i.Selected {
		title += "  ●"
	}
	return title
}

func (i Item) Description() string { return fmt.Sprintf("user #%d", i.User.ID) }
func (i Item) FilterValue() string { return i.User.Name }

type Model struct {
	list       list.Model
	selectedID int
}

func New(users []models.User, width, height int) Model {
	m := Model{}
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Team Members"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is handled globally in the main model
	m.list = l
	m.SetUsers(users)
	return m
}

// SetUsers replaces the list contents, preserving server order.
func (m *Model) SetUsers(users []models.User) {
	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = Item{User: u, Selected: u.ID == m.selectedID}
	}
	m.list.SetItems(items)
}

// SetSelected marks the active user so the picker can highlight it.
func (m *Model) SetSelected(id int) {
	m.selectedID = id
	items := m.list.Items()
	for i, it := range items {
		if item, ok := it.(Item); ok {
			item.Selected = item.User.ID == id
			items[i] = item
		}
	}
	m.list.SetItems(items)
}

// Filtering reports whether the list's fuzzy filter is capturing input, so
// the main model can stay out of the way of global key bindings.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return SelectUserMsg{ID: i.User.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No team members loaded yet."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
