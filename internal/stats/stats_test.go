package stats

import (
	"testing"
	"time"

	"github.com/mverma/stride/internal/models"
)

func f(v float64) *float64 { return &v }

func week() Window {
	return Window{Start: "2025-03-03", End: "2025-03-09"}
}

func weekEntries() []models.ProgressEntry {
	waters := []float64{4, 2, 4, 3, 3, 2, 4}
	sleeps := []float64{7, 6, 6, 7, 7, 6, 6}
	steps := []models.StepStatus{
		models.StepCompleted,
		models.StepCompleted,
		models.StepPartial,
		models.StepCompleted,
		models.StepCompleted,
		models.StepPartial,
		models.StepCompleted,
	}

	entries := make([]models.ProgressEntry, 7)
	for i := range entries {
		entries[i] = models.ProgressEntry{
			Date:              "2025-03-0" + string(rune('3'+i)),
			WaterIntakeLiters: f(waters[i]),
			TotalSleepHours:   f(sleeps[i]),
			Walk10kSteps:      steps[i],
		}
	}
	return entries
}

func TestTrailingWeek_SevenDaysInclusive(t *testing.T) {
	today := time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)
	w := TrailingWeek(today)

	if w.Start != "2025-03-03" {
		t.Errorf("expected start 2025-03-03, got %s", w.Start)
	}
	if w.End != "2025-03-09" {
		t.Errorf("expected end 2025-03-09, got %s", w.End)
	}
	if w.Days() != 7 {
		t.Errorf("expected 7 days, got %d", w.Days())
	}
}

func TestWindow_Contains(t *testing.T) {
	w := week()
	cases := []struct {
		date string
		want bool
	}{
		{"2025-03-03", true},
		{"2025-03-09", true},
		{"2025-03-06", true},
		{"2025-03-02", false},
		{"2025-03-10", false},
	}
	for _, c := range cases {
		if got := w.Contains(c.date); got != c.want {
			t.Errorf("Contains(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}

func TestAggregate_FullWeek(t *testing.T) {
	agg := New().Aggregate(7, weekEntries(), week())

	if agg.UserID != 7 {
		t.Errorf("expected user 7, got %d", agg.UserID)
	}
	if agg.TotalWaterLiters != 22 {
		t.Errorf("expected 22 liters, got %v", agg.TotalWaterLiters)
	}
	if agg.TotalSleepHours != 45 {
		t.Errorf("expected 45 hours, got %v", agg.TotalSleepHours)
	}
	// 5 completed, 2 partial
	if want := 5*10000 + 2*5000; agg.TotalSteps != want {
		t.Errorf("expected %d steps, got %d", want, agg.TotalSteps)
	}
	// round(100 * 5/7) = 71
	if agg.ProgressPercentage != 71 {
		t.Errorf("expected 71%%, got %d%%", agg.ProgressPercentage)
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	r := New()
	first := r.Aggregate(1, weekEntries(), week())
	second := r.Aggregate(1, weekEntries(), week())
	if first != second {
		t.Errorf("same input produced different aggregates: %+v vs %+v", first, second)
	}
}

func TestAggregate_IgnoresEntriesOutsideWindow(t *testing.T) {
	entries := append(weekEntries(), models.ProgressEntry{
		Date:              "2025-03-02",
		WaterIntakeLiters: f(9),
		Walk10kSteps:      models.StepCompleted,
	})

	agg := New().Aggregate(1, entries, week())
	if agg.TotalWaterLiters != 22 {
		t.Errorf("out-of-window entry leaked into totals: %v liters", agg.TotalWaterLiters)
	}
	if agg.ProgressPercentage != 71 {
		t.Errorf("out-of-window entry changed percentage: %d%%", agg.ProgressPercentage)
	}
}

func TestAggregate_AbsentValuesCountAsZero(t *testing.T) {
	entries := []models.ProgressEntry{
		{Date: "2025-03-04", Walk10kSteps: models.StepNotTracked},
		{Date: "2025-03-05", WaterIntakeLiters: f(2), Walk10kSteps: models.StepCompleted},
	}

	agg := New().Aggregate(1, entries, week())
	if agg.TotalWaterLiters != 2 {
		t.Errorf("expected 2 liters, got %v", agg.TotalWaterLiters)
	}
	if agg.TotalSleepHours != 0 {
		t.Errorf("expected 0 hours, got %v", agg.TotalSleepHours)
	}
	if agg.TotalSteps != 10000 {
		t.Errorf("expected 10000 steps, got %d", agg.TotalSteps)
	}
}

func TestAggregate_EmptyWeekIsZero(t *testing.T) {
	agg := New().Aggregate(1, nil, week())
	if agg.TotalSteps != 0 || agg.TotalWaterLiters != 0 || agg.TotalSleepHours != 0 {
		t.Errorf("empty week should be all zeros: %+v", agg)
	}
	if agg.ProgressPercentage != 0 {
		t.Errorf("expected 0%%, got %d%%", agg.ProgressPercentage)
	}
}

func TestAggregate_PercentageStaysInBounds(t *testing.T) {
	// More completed entries than window days, e.g. duplicate dates from a
	// misbehaving server. The percentage still may not exceed 100.
	var entries []models.ProgressEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, models.ProgressEntry{
			Date:         "2025-03-05",
			Walk10kSteps: models.StepCompleted,
		})
	}

	agg := New().Aggregate(1, entries, week())
	if agg.ProgressPercentage > 100 {
		t.Errorf("percentage above 100: %d", agg.ProgressPercentage)
	}
}

func TestAggregate_MoreCompletionNeverLowersPercentage(t *testing.T) {
	r := New()
	base := []models.ProgressEntry{
		{Date: "2025-03-03", Walk10kSteps: models.StepCompleted},
		{Date: "2025-03-04", Walk10kSteps: models.StepNotCompleted},
	}
	before := r.Aggregate(1, base, week())

	more := append(base, models.ProgressEntry{
		Date:         "2025-03-05",
		Walk10kSteps: models.StepCompleted,
	})
	after := r.Aggregate(1, more, week())

	if after.ProgressPercentage < before.ProgressPercentage {
		t.Errorf("adding a completed day lowered the percentage: %d -> %d",
			before.ProgressPercentage, after.ProgressPercentage)
	}
	if after.TotalSteps < before.TotalSteps {
		t.Errorf("adding a completed day lowered steps: %d -> %d",
			before.TotalSteps, after.TotalSteps)
	}
}

func TestStepCredit_CustomCredits(t *testing.T) {
	r := NewWithCredits(Credits{Completed: 8000, Partial: 3000})

	if got := r.StepCredit(models.StepCompleted); got != 8000 {
		t.Errorf("completed credit = %d, want 8000", got)
	}
	if got := r.StepCredit(models.StepPartial); got != 3000 {
		t.Errorf("partial credit = %d, want 3000", got)
	}
	if got := r.StepCredit(models.StepNotCompleted); got != 0 {
		t.Errorf("not_completed credit = %d, want 0", got)
	}
	if got := r.StepCredit(models.StepNotTracked); got != 0 {
		t.Errorf("not_tracked credit = %d, want 0", got)
	}
}
