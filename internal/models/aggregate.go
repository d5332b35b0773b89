package models

// WeeklyAggregate is the roll-up of one user's entries over a trailing
// 7-day window. It is derived, never stored as an entity of its own: the
// server computes it on request and the client recomputes it locally from
// entries when the server cannot.
type WeeklyAggregate struct {
	UserID             int     `json:"user_id"`
	WindowStart        string  `json:"window_start"` // YYYY-MM-DD, inclusive
	WindowEnd          string  `json:"window_end"`   // YYYY-MM-DD, inclusive
	TotalSteps         int     `json:"total_steps"`
	TotalWaterLiters   float64 `json:"total_water_liters"`
	TotalSleepHours    float64 `json:"total_sleep_hours"`
	ProgressPercentage int     `json:"progress_percentage"` // 0-100
}
