package stats

import (
	"math"
	"time"

	"github.com/mverma/stride/internal/constants"
	"github.com/mverma/stride/internal/models"
)

// Window is an inclusive range of calendar dates in YYYY-MM-DD form.
// The boundary is always supplied by the caller; nothing in this package
// reads the wall clock, so a given entry set and window always produce
// the same aggregate.
type Window struct {
	Start string
	End   string
}

// TrailingWeek returns the 7-day window ending on today's date.
func TrailingWeek(today time.Time) Window {
	end := today
	start := end.AddDate(0, 0, -(constants.WeeklyWindowDays - 1))
	return Window{
		Start: start.Format(constants.DateFormat),
		End:   end.Format(constants.DateFormat),
	}
}

// Contains reports whether date falls inside the window. Dates are
// compared lexically, which is ordering-correct for YYYY-MM-DD.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// Days returns the number of calendar days the window spans. A malformed
// window counts as a single day so percentage math never divides by zero.
func (w Window) Days() int {
	start, err := time.Parse(constants.DateFormat, w.Start)
	if err != nil {
		return 1
	}
	end, err := time.Parse(constants.DateFormat, w.End)
	if err != nil {
		return 1
	}
	days := int(end.Sub(start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Credits maps a step-goal status to its step credit. The weekly step total
// is a status-derived proxy, not a pedometer count, so the values are
// configuration rather than constants.
type Credits struct {
	Completed int
	Partial   int
}

// DefaultCredits mirrors the mapping the remote store uses.
var DefaultCredits = Credits{Completed: 10000, Partial: 5000}

// Resolver turns daily entries into weekly aggregates. It is the local
// fallback when the server cannot compute the aggregate, and the contract
// a server-computed aggregate must satisfy.
type Resolver struct {
	credits Credits
}

func New() *Resolver {
	return &Resolver{credits: DefaultCredits}
}

func NewWithCredits(c Credits) *Resolver {
	return &Resolver{credits: c}
}

// StepCredit returns the step credit for a single entry status.
func (r *Resolver) StepCredit(s models.StepStatus) int {
	switch s {
	case models.StepCompleted:
		return r.credits.Completed
	case models.StepPartial:
		return r.credits.Partial
	default:
		return 0
	}
}

// Aggregate rolls up the entries falling inside the window. Entries outside
// the window are ignored; absent water/sleep values count as zero.
func (r *Resolver) Aggregate(userID int, entries []models.ProgressEntry, w Window) models.WeeklyAggregate {
	agg := models.WeeklyAggregate{
		UserID:      userID,
		WindowStart: w.Start,
		WindowEnd:   w.End,
	}

	completed := 0
	for _, e := range entries {
		if !w.Contains(e.Date) {
			continue
		}
		agg.TotalWaterLiters += e.Water()
		agg.TotalSleepHours += e.Sleep()
		agg.TotalSteps += r.StepCredit(e.Walk10kSteps)
		if e.Walk10kSteps == models.StepCompleted {
			completed++
		}
	}

	pct := int(math.Round(100 * float64(completed) / float64(w.Days())))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	agg.ProgressPercentage = pct

	return agg
}
