package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mverma/stride/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.ctrl.Snapshot()

	switch m.mode {
	case modeForm:
		return docStyle.Render(m.formView())
	case modeConfirmDelete:
		return docStyle.Render(m.confirmDeleteView())
	}

	var b strings.Builder
	b.WriteString(m.headerView(snap))
	b.WriteString("\n\n")

	switch {
	case snap.Status == session.StatusError:
		b.WriteString(dangerStyle.Render("✗ " + snap.ErrMsg))
		b.WriteString(subtitleStyle.Render("\n  Press 'r' to retry."))
		if snap.SelectedUserID != 0 {
			b.WriteString("\n\n")
			b.WriteString(m.tabContentView(snap))
		}
	case snap.Status == session.StatusLoading:
		b.WriteString(m.spin.View() + " Loading…")
		b.WriteString("\n\n")
		b.WriteString(m.tabContentView(snap))
	default:
		b.WriteString(m.tabContentView(snap))
	}

	if m.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m Model) headerView(snap session.Snapshot) string {
	title := titleStyle.Render("stride")

	who := "no user selected"
	for _, u := range snap.Users {
		if u.ID == snap.SelectedUserID {
			who = u.Name
			break
		}
	}
	window := ""
	if snap.Window.Start != "" {
		window = fmt.Sprintf("  %s → %s", snap.Window.Start, snap.Window.End)
	}
	sub := subtitleStyle.Render(who + window)

	tabs := make([]string, 0, int(tabCount))
	for t := tabDashboard; t < tabCount; t++ {
		style := inactiveTabStyle
		if t == m.activeTab {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(t.title()))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", sub),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

func (m Model) tabContentView(snap session.Snapshot) string {
	if m.activeTab == tabTeam {
		return m.picker.View()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.grid.View(),
		"",
		m.entries.View(),
	)
}

func (m Model) formView() string {
	var b strings.Builder

	title := "New Daily Entry"
	if m.editingID != 0 {
		title = "Edit Daily Entry"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.formErrs) > 0 {
		for _, fe := range m.formErrs {
			b.WriteString(dangerStyle.Render("✗ " + fe.Error()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString(m.spin.View() + " Saving…")
		return b.String()
	}

	b.WriteString(m.form.View())
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("esc to cancel"))
	return b.String()
}

func (m Model) confirmDeleteView() string {
	return fmt.Sprintf(
		"%s\n\nDelete the entry for %s? %s\n\n%s",
		titleStyle.Render("Delete Entry"),
		m.deleteTarget.Date,
		subtitleStyle.Render("This cannot be undone."),
		"[y] delete  [n] keep",
	)
}
