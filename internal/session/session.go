package session

import (
	"time"

	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/stats"
)

type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusError
)

// Kind identifies which remote data a fetch token belongs to. Tokens are
// compared per kind so a late users response cannot invalidate an entries
// response and vice versa.
type Kind int

const (
	KindUsers Kind = iota
	KindEntries
	KindAggregate
	kindCount
)

// FetchPlan describes the fetches the caller must start after a selection
// change. Each token must ride along with its response and be handed back
// to the matching Apply method; responses carrying an outdated token are
// discarded, which is what makes rapid user switching safe.
type FetchPlan struct {
	UserID         int
	EntriesToken   uint64
	AggregateToken uint64
	Window         stats.Window
}

// Snapshot is the externally visible state. Controller methods hand out
// copies, never internal slices.
type Snapshot struct {
	Status         Status
	ErrMsg         string
	SelectedUserID int // 0 when nothing is selected
	Users          []models.User
	Entries        []models.ProgressEntry
	Aggregate      models.WeeklyAggregate
	HasAggregate   bool
	Window         stats.Window
}

// Controller owns which user is being viewed and reconciles fetch results
// against the monotonically increasing token it issued for each data kind.
// Visible state follows "last issued, not last arrived": an out-of-order
// completion can never overwrite newer data with older data.
//
// The controller is not goroutine-safe; it is driven from a single event
// loop (the bubbletea update loop or a sequential CLI command).
type Controller struct {
	now func() time.Time

	counter   uint64
	issued    [kindCount]uint64
	issuedFor [kindCount]int
	pending   [kindCount]bool

	users    []models.User
	selected int
	entries  []models.ProgressEntry
	agg      models.WeeklyAggregate
	hasAgg   bool
	window   stats.Window
	errMsg   string
}

// New creates a controller. The clock is injected so tests can pin "today"
// when building the trailing aggregate window; nil defaults to time.Now.
func New(now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{now: now}
}

func (c *Controller) issue(kind Kind, userID int) uint64 {
	c.counter++
	c.issued[kind] = c.counter
	c.issuedFor[kind] = userID
	c.pending[kind] = true
	return c.counter
}

// IssueUsers starts a users fetch, invalidating any in-flight one.
func (c *Controller) IssueUsers() uint64 {
	c.errMsg = ""
	return c.issue(KindUsers, 0)
}

// SelectUser sets the active user and plans fresh entry and aggregate
// fetches. It is a no-op (ok=false) when the id is not in the known user
// set. Selecting invalidates every in-flight fetch for the previous
// selection: their tokens are superseded, so their results will be dropped
// on arrival.
func (c *Controller) SelectUser(id int) (FetchPlan, bool) {
	if !c.knownUser(id) {
		logger.Warn("ignoring selection of unknown user", "id", id)
		return FetchPlan{}, false
	}
	c.selected = id
	c.errMsg = ""
	return c.plan(id), true
}

// Refresh plans new fetches for the current selection, e.g. after an entry
// submission. ok=false when nothing is selected.
func (c *Controller) Refresh() (FetchPlan, bool) {
	if c.selected == 0 {
		return FetchPlan{}, false
	}
	c.errMsg = ""
	return c.plan(c.selected), true
}

func (c *Controller) plan(userID int) FetchPlan {
	c.window = stats.TrailingWeek(c.now())
	return FetchPlan{
		UserID:         userID,
		EntriesToken:   c.issue(KindEntries, userID),
		AggregateToken: c.issue(KindAggregate, userID),
		Window:         c.window,
	}
}

// Retry reissues the fetches appropriate to the current state after an
// error, preserving the selection so the user does not have to pick again.
// usersToken is zero when the user list is already loaded.
func (c *Controller) Retry() (usersToken uint64, plan FetchPlan, hasPlan bool) {
	c.errMsg = ""
	if len(c.users) == 0 {
		return c.IssueUsers(), FetchPlan{}, false
	}
	p, ok := c.Refresh()
	return 0, p, ok
}

// ApplyUsers reconciles a users response. Stale tokens are discarded and
// the method reports applied=false. On the first successful load with no
// selection yet, the first listed user is auto-selected and the returned
// plan carries the fetches to start.
func (c *Controller) ApplyUsers(token uint64, users []models.User, err error) (plan FetchPlan, hasPlan, applied bool) {
	if !c.current(KindUsers, token) {
		logger.Debug("discarding stale users response", "token", token)
		return FetchPlan{}, false, false
	}
	c.pending[KindUsers] = false
	if err != nil {
		c.fail(err)
		return FetchPlan{}, false, true
	}
	c.users = users
	if c.selected == 0 && len(users) > 0 {
		p, ok := c.SelectUser(users[0].ID)
		return p, ok, true
	}
	return FetchPlan{}, false, true
}

// ApplyEntries reconciles an entries response for the selected user.
func (c *Controller) ApplyEntries(token uint64, entries []models.ProgressEntry, err error) bool {
	if !c.current(KindEntries, token) {
		logger.Debug("discarding stale entries response", "token", token)
		return false
	}
	c.pending[KindEntries] = false
	if err != nil {
		c.fail(err)
		return true
	}
	c.entries = entries
	return true
}

// ApplyAggregate reconciles a weekly aggregate, remote or locally computed.
func (c *Controller) ApplyAggregate(token uint64, agg models.WeeklyAggregate, err error) bool {
	if !c.current(KindAggregate, token) {
		logger.Debug("discarding stale aggregate response", "token", token)
		return false
	}
	c.pending[KindAggregate] = false
	if err != nil {
		c.fail(err)
		return true
	}
	c.agg = agg
	c.hasAgg = true
	return true
}

// current reports whether token is the most recently issued one for kind
// and is still bound to the current selection.
func (c *Controller) current(kind Kind, token uint64) bool {
	if token == 0 || token != c.issued[kind] {
		return false
	}
	if kind != KindUsers && c.issuedFor[kind] != c.selected {
		return false
	}
	return true
}

// fail records a failure message. Prior valid data and the selection are
// retained so the UI can offer a retry without re-selecting.
func (c *Controller) fail(err error) {
	c.errMsg = err.Error()
	logger.Warn("fetch failed", "error", err)
}

func (c *Controller) knownUser(id int) bool {
	for _, u := range c.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// SelectedUserID returns the active user id, 0 when none.
func (c *Controller) SelectedUserID() int {
	return c.selected
}

// Snapshot returns a copy of the observable state.
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		ErrMsg:         c.errMsg,
		SelectedUserID: c.selected,
		Users:          append([]models.User(nil), c.users...),
		Entries:        append([]models.ProgressEntry(nil), c.entries...),
		Aggregate:      c.agg,
		HasAggregate:   c.hasAgg,
		Window:         c.window,
	}
	switch {
	case c.errMsg != "":
		snap.Status = StatusError
	case c.pending[KindUsers] || c.pending[KindEntries] || c.pending[KindAggregate]:
		snap.Status = StatusLoading
	default:
		snap.Status = StatusReady
	}
	return snap
}
