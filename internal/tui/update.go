package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/tui/components/entrytable"
	"github.com/mverma/stride/internal/tui/components/userpicker"
	"github.com/mverma/stride/internal/validation"
)

// reopenFormMsg rebuilds the entry form after a failed validation pass so
// the user can correct fields without retyping everything.
type reopenFormMsg struct {
	fm *EntryFormModel
	id int
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.picker.SetSize(msg.Width-4, msg.Height-8)
		m.entries.SetSize(msg.Width-4, msg.Height-14)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case usersMsg:
		return m.onUsers(msg)

	case entriesMsg:
		return m.onEntries(msg)

	case aggregateMsg:
		return m.onAggregate(msg)

	case userpicker.SelectUserMsg:
		return m.onSelectUser(msg.ID)

	case entrytable.EditEntryMsg:
		return m, m.openForm(formModelFromEntry(msg.Entry), msg.Entry.ID)

	case entrytable.DeleteEntryMsg:
		m.deleteTarget = msg.Entry
		m.mode = modeConfirmDelete
		return m, nil

	case reopenFormMsg:
		errs := m.formErrs
		cmd := m.openForm(msg.fm, msg.id)
		m.formErrs = errs
		return m, cmd

	case entrySavedMsg:
		return m.onEntrySaved(msg)

	case entryDeletedMsg:
		return m.onEntryDeleted(msg)
	}

	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirmDelete(msg)
	}
	return m.updateBrowse(msg)
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey && !(m.activeTab == tabTeam && m.picker.Filtering()) {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(keyMsg, m.keys.Tab):
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case key.Matches(keyMsg, m.keys.ShiftTab):
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil

		case key.Matches(keyMsg, m.keys.Add):
			if m.ctrl.SelectedUserID() == 0 {
				m.statusMsg = "Select a team member first."
				return m, nil
			}
			m.statusMsg = ""
			return m, m.openForm(newFormModel(today()), 0)

		case key.Matches(keyMsg, m.keys.Retry):
			m.statusMsg = ""
			usersToken, plan, hasPlan := m.ctrl.Retry()
			var cmds []tea.Cmd
			if usersToken != 0 {
				cmds = append(cmds, m.fetchUsersCmd(usersToken))
			}
			if hasPlan {
				cmds = append(cmds, m.startPlan(plan))
			}
			return m, tea.Batch(cmds...)
		}
	}

	var cmd tea.Cmd
	switch m.activeTab {
	case tabTeam:
		m.picker, cmd = m.picker.Update(msg)
	default:
		m.entries, cmd = m.entries.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		m.closeForm()
		return m, nil

	case huh.StateCompleted:
		entry, errs := validation.New().Validate(m.formModel.Raw())
		if len(errs) > 0 {
			m.formErrs = errs
			fm := m.formModel
			id := m.editingID
			return m, tea.Batch(cmd, func() tea.Msg { return reopenFormMsg{fm: fm, id: id} })
		}
		entry.ID = m.editingID
		m.formErrs = nil
		m.submitting = true
		return m, tea.Batch(cmd, m.saveEntryCmd(m.ctrl.SelectedUserID(), entry, m.editingID != 0))
	}

	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		m.statusMsg = "Deleting entry…"
		return m, m.deleteEntryCmd(m.deleteTarget.ID)
	case "n", "N", "esc":
		m.mode = modeBrowse
		m.deleteTarget = models.ProgressEntry{}
		return m, nil
	}
	return m, nil
}

func (m Model) onUsers(msg usersMsg) (tea.Model, tea.Cmd) {
	plan, hasPlan, applied := m.ctrl.ApplyUsers(msg.token, msg.users, msg.err)
	if !applied {
		return m, nil
	}
	if msg.err == nil {
		m.picker.SetUsers(msg.users)
		m.cacheUsers(msg.users)
	}
	if hasPlan {
		m.picker.SetSelected(plan.UserID)
		return m, m.startPlan(plan)
	}
	return m, nil
}

func (m Model) onEntries(msg entriesMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ApplyEntries(msg.token, msg.entries, msg.err) {
		return m, nil
	}
	if msg.err == nil {
		m.entries.SetEntries(msg.entries)
		m.cacheEntries(m.ctrl.SelectedUserID(), msg.entries)
	}
	return m, nil
}

func (m Model) onAggregate(msg aggregateMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ApplyAggregate(msg.token, msg.agg, msg.err) {
		return m, nil
	}
	if msg.err == nil {
		m.grid.SetAggregate(msg.agg)
		m.cacheAggregate(m.ctrl.SelectedUserID(), msg.agg)
	}
	return m, nil
}

func (m Model) onSelectUser(id int) (tea.Model, tea.Cmd) {
	plan, ok := m.ctrl.SelectUser(id)
	if !ok {
		return m, nil
	}
	m.picker.SetSelected(id)
	m.grid.Clear()
	m.entries.SetEntries(nil)
	m.activeTab = tabDashboard
	m.statusMsg = ""
	return m, m.startPlan(plan)
}

func (m Model) onEntrySaved(msg entrySavedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		var conflict *api.ConflictError
		if errors.As(msg.err, &conflict) {
			m.closeForm()
			m.statusMsg = fmt.Sprintf("An entry for %s already exists. Press 'e' on it to edit instead.", conflict.Date)
			return m, nil
		}
		// Reopen so the typed values survive a transient failure.
		m.statusMsg = msg.err.Error()
		fm := m.formModel
		id := m.editingID
		cmd := m.openForm(fm, id)
		return m, cmd
	}

	m.closeForm()
	m.statusMsg = fmt.Sprintf("Entry for %s saved.", msg.entry.Date)
	if plan, ok := m.ctrl.Refresh(); ok {
		return m, m.startPlan(plan)
	}
	return m, nil
}

func (m Model) onEntryDeleted(msg entryDeletedMsg) (tea.Model, tea.Cmd) {
	m.deleteTarget = models.ProgressEntry{}
	if msg.err != nil {
		m.statusMsg = msg.err.Error()
		return m, nil
	}
	m.statusMsg = "Entry deleted."
	if plan, ok := m.ctrl.Refresh(); ok {
		return m, m.startPlan(plan)
	}
	return m, nil
}

// Cache writes are best-effort: the dashboard always renders live data, the
// cache only feeds the headless --cached commands.

func (m Model) cacheUsers(users []models.User) {
	if m.deps.Cache == nil {
		return
	}
	if err := m.deps.Cache.SaveUsers(users); err != nil {
		logger.Warn("failed to cache users", "error", err)
	}
}

func (m Model) cacheEntries(userID int, entries []models.ProgressEntry) {
	if m.deps.Cache == nil || userID == 0 {
		return
	}
	if err := m.deps.Cache.SaveEntries(userID, entries); err != nil {
		logger.Warn("failed to cache entries", "user", userID, "error", err)
	}
}

func (m Model) cacheAggregate(userID int, agg models.WeeklyAggregate) {
	if m.deps.Cache == nil || userID == 0 {
		return
	}
	if err := m.deps.Cache.SaveAggregate(agg); err != nil {
		logger.Warn("failed to cache aggregate", "user", userID, "error", err)
	}
}
