package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/mverma/stride/internal/constants"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/validation"
)

// EntryFormModel backs the huh entry form. Fields stay strings (bools for
// the confirms) until submission, when the validator normalizes them.
type EntryFormModel struct {
	Date            string
	WaterIntake     string
	SleepHours      string
	Walk10kSteps    string
	FirstBath       bool
	SecondBath      bool
	Study           string
	Exercise        string
	Meditation      string
	EnglishPractice string
	LinkedinPost    string
	TestLink        string
	Summary         string
}

func newFormModel(now time.Time) *EntryFormModel {
	return &EntryFormModel{
		Date:         now.Format(constants.DateFormat),
		Walk10kSteps: string(models.StepNotTracked),
	}
}

// formModelFromEntry prefills the form for editing.
func formModelFromEntry(e models.ProgressEntry) *EntryFormModel {
	raw := validation.RawFromEntry(e)
	return &EntryFormModel{
		Date:            raw.Date,
		WaterIntake:     raw.WaterIntake,
		SleepHours:      raw.SleepHours,
		Walk10kSteps:    raw.Walk10kSteps,
		FirstBath:       e.FirstBath,
		SecondBath:      e.SecondBath,
		Study:           raw.Study,
		Exercise:        raw.Exercise,
		Meditation:      raw.Meditation,
		EnglishPractice: raw.EnglishPractice,
		LinkedinPost:    raw.LinkedinPost,
		TestLink:        raw.TestLink,
		Summary:         raw.Summary,
	}
}

// Raw converts the form values into the validator's input shape.
func (f *EntryFormModel) Raw() validation.RawEntry {
	raw := validation.RawEntry{
		Date:            f.Date,
		WaterIntake:     f.WaterIntake,
		SleepHours:      f.SleepHours,
		Walk10kSteps:    f.Walk10kSteps,
		Study:           f.Study,
		Exercise:        f.Exercise,
		Meditation:      f.Meditation,
		EnglishPractice: f.EnglishPractice,
		LinkedinPost:    f.LinkedinPost,
		TestLink:        f.TestLink,
		Summary:         f.Summary,
	}
	if f.FirstBath {
		raw.FirstBath = "true"
	}
	if f.SecondBath {
		raw.SecondBath = "true"
	}
	return raw
}

// NewEntryForm builds the daily entry form. Inline validators catch obvious
// typos early; the validation package is still the source of truth on
// submission.
func NewEntryForm(f *EntryFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("date is required")
					}
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("must be YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewInput().
				Title("Water intake (liters)").
				Value(&f.WaterIntake).
				Validate(numberOrEmpty),
			huh.NewInput().
				Title("Sleep (hours)").
				Value(&f.SleepHours).
				Validate(numberOrEmpty),
			huh.NewSelect[string]().
				Title("10k steps walk").
				Options(
					huh.NewOption("Not tracked", string(models.StepNotTracked)),
					huh.NewOption("Completed", string(models.StepCompleted)),
					huh.NewOption("Partial", string(models.StepPartial)),
					huh.NewOption("Not completed", string(models.StepNotCompleted)),
				).
				Value(&f.Walk10kSteps),
			huh.NewConfirm().
				Title("Morning bath?").
				Value(&f.FirstBath),
			huh.NewConfirm().
				Title("Evening bath?").
				Value(&f.SecondBath),
		),
		huh.NewGroup(
			huh.NewInput().Title("Study").Value(&f.Study),
			huh.NewInput().Title("Exercise").Value(&f.Exercise),
			huh.NewInput().Title("Meditation").Value(&f.Meditation),
			huh.NewInput().Title("English practice").Value(&f.EnglishPractice),
			huh.NewInput().Title("LinkedIn post").Value(&f.LinkedinPost),
			huh.NewInput().Title("Test link").Value(&f.TestLink),
			huh.NewText().Title("Summary").CharLimit(400).Value(&f.Summary),
		),
	)
}

func numberOrEmpty(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}
