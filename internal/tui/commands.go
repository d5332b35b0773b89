package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mverma/stride/internal/constants"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/session"
)

// Every fetch message carries the session token it was issued with. The
// update loop hands the token back to the controller, which decides whether
// the response is still current or arrived after a newer request.

type usersMsg struct {
	token uint64
	users []models.User
	err   error
}

type entriesMsg struct {
	token   uint64
	entries []models.ProgressEntry
	err     error
}

type aggregateMsg struct {
	token uint64
	agg   models.WeeklyAggregate
	err   error
}

type entrySavedMsg struct {
	entry models.ProgressEntry
	err   error
}

type entryDeletedMsg struct {
	id  int
	err error
}

func (m Model) timeout() time.Duration {
	secs := m.deps.Timeout
	if secs <= 0 {
		secs = constants.DefaultRequestTimeoutSec
	}
	return time.Duration(secs) * time.Second
}

func (m Model) fetchUsersCmd(token uint64) tea.Cmd {
	client, timeout := m.deps.Client, m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.FetchUsers(ctx)
		return usersMsg{token: token, users: users, err: err}
	}
}

func (m Model) fetchEntriesCmd(plan session.FetchPlan) tea.Cmd {
	client, timeout := m.deps.Client, m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := client.FetchEntries(ctx, plan.UserID, plan.Window.Start, plan.Window.End)
		return entriesMsg{token: plan.EntriesToken, entries: entries, err: err}
	}
}

func (m Model) fetchAggregateCmd(plan session.FetchPlan) tea.Cmd {
	client, resolver, timeout := m.deps.Client, m.deps.Resolver, m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		agg, err := client.FetchWeeklyAggregateWithFallback(ctx, plan.UserID, plan.Window, resolver)
		return aggregateMsg{token: plan.AggregateToken, agg: agg, err: err}
	}
}

// startPlan launches the entry and aggregate fetches a selection change
// planned. The two run concurrently; each settles independently through its
// own token.
func (m Model) startPlan(plan session.FetchPlan) tea.Cmd {
	return tea.Batch(m.fetchEntriesCmd(plan), m.fetchAggregateCmd(plan))
}

func (m Model) saveEntryCmd(userID int, entry models.ProgressEntry, editing bool) tea.Cmd {
	client, timeout := m.deps.Client, m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			saved models.ProgressEntry
			err   error
		)
		if editing {
			saved, err = client.UpdateEntry(ctx, entry)
		} else {
			saved, err = client.CreateEntry(ctx, userID, entry)
		}
		return entrySavedMsg{entry: saved, err: err}
	}
}

func (m Model) deleteEntryCmd(id int) tea.Cmd {
	client, timeout := m.deps.Client, m.timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := client.DeleteEntry(ctx, id)
		return entryDeletedMsg{id: id, err: err}
	}
}
