package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mverma/stride/internal/constants"
	"github.com/mverma/stride/internal/models"
)

const (
	MaxWaterLiters = 10.0
	MaxSleepHours  = 24.0
)

// FieldError is a recoverable, field-scoped validation failure. A submission
// is blocked while any remain, but validation itself never panics or aborts.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RawEntry is a daily entry as it comes off a form: every field a string,
// possibly empty, possibly out of range. Validate turns it into a
// models.ProgressEntry with one canonical representation for "absent".
type RawEntry struct {
	Date            string
	Study           string
	Exercise        string
	Meditation      string
	EnglishPractice string
	LinkedinPost    string
	Summary         string
	TestLink        string
	WaterIntake     string
	SleepHours      string
	FirstBath       string
	SecondBath      string
	Walk10kSteps    string
}

// Validator normalizes and validates raw daily entries
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate normalizes raw into a ProgressEntry and reports field errors.
// Rules:
//   - Date is required and must be YYYY-MM-DD; this is the only hard failure.
//   - Water and sleep must parse as numbers when present; out-of-range values
//     are clamped to the slider bounds and snapped to 0.5 steps, not rejected.
//   - Walk10kSteps must be one of the four statuses; absent defaults to
//     not_tracked.
//   - Checkbox fields map any truthy form value to true, absence to false.
//   - Free text is trimmed; empty strings normalize to absent.
//
// The entry is usable only when the returned error list is empty.
func (v *Validator) Validate(raw RawEntry) (models.ProgressEntry, []FieldError) {
	var errs []FieldError

	entry := models.ProgressEntry{
		Study:           normalizeText(raw.Study),
		Exercise:        normalizeText(raw.Exercise),
		Meditation:      normalizeText(raw.Meditation),
		EnglishPractice: normalizeText(raw.EnglishPractice),
		LinkedinPost:    normalizeText(raw.LinkedinPost),
		Summary:         normalizeText(raw.Summary),
		TestLink:        normalizeText(raw.TestLink),
		FirstBath:       truthy(raw.FirstBath),
		SecondBath:      truthy(raw.SecondBath),
	}

	date := strings.TrimSpace(raw.Date)
	if date == "" {
		errs = append(errs, FieldError{Field: "date", Message: "date is required"})
	} else if _, err := time.Parse(constants.DateFormat, date); err != nil {
		errs = append(errs, FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
	} else {
		entry.Date = date
	}

	if water, fieldErr, ok := parseBounded(raw.WaterIntake, "water_intake", MaxWaterLiters); fieldErr != nil {
		errs = append(errs, *fieldErr)
	} else if ok {
		entry.WaterIntakeLiters = &water
	}

	if sleep, fieldErr, ok := parseBounded(raw.SleepHours, "total_sleep_hours", MaxSleepHours); fieldErr != nil {
		errs = append(errs, *fieldErr)
	} else if ok {
		entry.TotalSleepHours = &sleep
	}

	steps := strings.TrimSpace(raw.Walk10kSteps)
	if steps == "" {
		entry.Walk10kSteps = models.StepNotTracked
	} else if status, ok := models.ParseStepStatus(steps); ok {
		entry.Walk10kSteps = status
	} else {
		entry.Walk10kSteps = models.StepNotTracked
		errs = append(errs, FieldError{
			Field:   "walk_10k_steps",
			Message: fmt.Sprintf("unknown step status %q", steps),
		})
	}

	return entry, errs
}

// RawFromEntry converts a normalized entry back to form values, used to
// prefill the edit form. Validating the result reproduces the same entry.
func RawFromEntry(e models.ProgressEntry) RawEntry {
	raw := RawEntry{
		Date:            e.Date,
		Study:           e.Study,
		Exercise:        e.Exercise,
		Meditation:      e.Meditation,
		EnglishPractice: e.EnglishPractice,
		LinkedinPost:    e.LinkedinPost,
		Summary:         e.Summary,
		TestLink:        e.TestLink,
		Walk10kSteps:    string(e.Walk10kSteps),
	}
	if e.WaterIntakeLiters != nil {
		raw.WaterIntake = strconv.FormatFloat(*e.WaterIntakeLiters, 'f', -1, 64)
	}
	if e.TotalSleepHours != nil {
		raw.SleepHours = strconv.FormatFloat(*e.TotalSleepHours, 'f', -1, 64)
	}
	if e.FirstBath {
		raw.FirstBath = "true"
	}
	if e.SecondBath {
		raw.SecondBath = "true"
	}
	return raw
}

// normalizeText trims whitespace so downstream display logic sees a single
// falsy representation for absent text.
func normalizeText(s string) string {
	return strings.TrimSpace(s)
}

// truthy maps form-checkbox representations to a boolean. Absence and
// anything unrecognized are false.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes", "y":
		return true
	}
	return false
}

// parseBounded parses a slider value, clamping to [0, max] and snapping to
// the slider's 0.5 step. ok is false when the field is absent.
func parseBounded(s, field string, max float64) (float64, *FieldError, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &FieldError{Field: field, Message: "must be a number"}, false
	}
	if val < 0 {
		val = 0
	}
	if val > max {
		val = max
	}
	val = math.Round(val*2) / 2
	return val, nil, true
}
