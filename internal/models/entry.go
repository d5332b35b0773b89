package models

type StepStatus string

const (
	StepCompleted    StepStatus = "completed"
	StepPartial      StepStatus = "partial"
	StepNotCompleted StepStatus = "not_completed"
	StepNotTracked   StepStatus = "not_tracked"
)

// ParseStepStatus reports whether s is one of the four known statuses.
// The empty string is not a valid status; callers default it to StepNotTracked.
func ParseStepStatus(s string) (StepStatus, bool) {
	switch StepStatus(s) {
	case StepCompleted, StepPartial, StepNotCompleted, StepNotTracked:
		return StepStatus(s), true
	}
	return "", false
}

// Label returns a human-readable form for table display.
func (s StepStatus) Label() string {
	switch s {
	case StepCompleted:
		return "Completed"
	case StepPartial:
		return "Partial"
	case StepNotCompleted:
		return "Not completed"
	case StepNotTracked:
		return "Not tracked"
	default:
		return string(s)
	}
}

// ProgressEntry is one user's logged activities for a single calendar date.
// At most one entry exists per (UserID, Date); the server enforces this and
// the client surfaces a conflict rather than overwriting.
//
// Free-text fields use "" for absent. Numeric fields use a nil pointer for
// absent so that 0 liters remains distinguishable from "not recorded".
// Walk10kSteps always holds a value (StepNotTracked when never set).
type ProgressEntry struct {
	ID                int        `json:"id,omitempty"`
	UserID            int        `json:"user_id,omitempty"`
	Date              string     `json:"date"` // YYYY-MM-DD
	Study             string     `json:"study,omitempty"`
	Exercise          string     `json:"exercise,omitempty"`
	Meditation        string     `json:"meditation,omitempty"`
	EnglishPractice   string     `json:"english_practice,omitempty"`
	LinkedinPost      string     `json:"linkedin_post,omitempty"`
	Summary           string     `json:"summary,omitempty"`
	TestLink          string     `json:"test_link,omitempty"`
	WaterIntakeLiters *float64   `json:"water_intake,omitempty"`
	TotalSleepHours   *float64   `json:"total_sleep_hours,omitempty"`
	FirstBath         bool       `json:"first_bath"`
	SecondBath        bool       `json:"second_bath"`
	Walk10kSteps      StepStatus `json:"walk_10k_steps"`
}

// Water returns the recorded liters, treating absent as 0.
func (e ProgressEntry) Water() float64 {
	if e.WaterIntakeLiters == nil {
		return 0
	}
	return *e.WaterIntakeLiters
}

// Sleep returns the recorded hours, treating absent as 0.
func (e ProgressEntry) Sleep() float64 {
	if e.TotalSleepHours == nil {
		return 0
	}
	return *e.TotalSleepHours
}
