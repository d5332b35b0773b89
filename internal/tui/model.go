package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/session"
	"github.com/mverma/stride/internal/stats"
	"github.com/mverma/stride/internal/storage"
	"github.com/mverma/stride/internal/tui/components/entrytable"
	"github.com/mverma/stride/internal/tui/components/statsgrid"
	"github.com/mverma/stride/internal/tui/components/userpicker"
	"github.com/mverma/stride/internal/validation"
)

// Deps carries everything the dashboard needs. The cache is write-through
// only here: the TUI always renders live data, the cache exists for the
// headless --cached commands.
type Deps struct {
	Client   *api.Client
	Cache    storage.Provider
	Resolver *stats.Resolver
	Timeout  int
}

type tab int

const (
	tabDashboard tab = iota
	tabTeam
	tabCount
)

func (t tab) title() string {
	switch t {
	case tabDashboard:
		return "Dashboard"
	case tabTeam:
		return "Team"
	}
	return ""
}

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

type Model struct {
	deps Deps
	ctrl *session.Controller

	keys KeyMap
	help help.Model
	spin spinner.Model

	picker  userpicker.Model
	grid    statsgrid.Model
	entries entrytable.Model

	activeTab tab
	mode      mode

	form         *huh.Form
	formModel    *EntryFormModel
	editingID    int
	formErrs     []validation.FieldError
	deleteTarget models.ProgressEntry
	submitting   bool

	statusMsg string
	width     int
	height    int
	quitting  bool
}

func NewModel(deps Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		deps:    deps,
		ctrl:    session.New(nil),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spin:    sp,
		picker:  userpicker.New(nil, 40, 14),
		grid:    statsgrid.New(),
		entries: entrytable.New(nil, 90, 10),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchUsersCmd(m.ctrl.IssueUsers()))
}

// openForm switches to the entry form. editingID is zero for a new entry.
func (m *Model) openForm(fm *EntryFormModel, editingID int) tea.Cmd {
	m.formModel = fm
	m.editingID = editingID
	m.formErrs = nil
	m.form = NewEntryForm(fm)
	m.mode = modeForm
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formModel = nil
	m.editingID = 0
	m.mode = modeBrowse
}

func today() time.Time {
	return time.Now()
}
