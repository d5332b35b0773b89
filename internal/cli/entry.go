package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/constants"
	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/validation"
)

type EntryAddCmd struct {
	User       int    `help:"User id to log for (defaults to the first listed user)."`
	Date       string `help:"Entry date (YYYY-MM-DD, defaults to today)."`
	Study      string `help:"Study activities."`
	Exercise   string `help:"Exercise and physical activity."`
	Meditation string `help:"Meditation and mindfulness."`
	English    string `help:"English practice."`
	Linkedin   string `help:"LinkedIn activity."`
	Summary    string `help:"Daily summary."`
	TestLink   string `help:"Link to test or assessment results."`
	Water      string `help:"Water intake in liters (0-10)."`
	Sleep      string `help:"Total sleep hours (0-24)."`
	FirstBath  bool   `help:"Morning bath/shower done."`
	SecondBath bool   `help:"Evening bath/shower done."`
	Steps      string `help:"10k steps status: completed, partial, not_completed, not_tracked."`
}

func (c *EntryAddCmd) Run(appCtx *Context) error {
	raw := validation.RawEntry{
		Date:            c.Date,
		Study:           c.Study,
		Exercise:        c.Exercise,
		Meditation:      c.Meditation,
		EnglishPractice: c.English,
		LinkedinPost:    c.Linkedin,
		Summary:         c.Summary,
		TestLink:        c.TestLink,
		WaterIntake:     c.Water,
		SleepHours:      c.Sleep,
		Walk10kSteps:    c.Steps,
	}
	if raw.Date == "" {
		raw.Date = time.Now().Format(constants.DateFormat)
	}
	if c.FirstBath {
		raw.FirstBath = "true"
	}
	if c.SecondBath {
		raw.SecondBath = "true"
	}

	entry, fieldErrs := validation.New().Validate(raw)
	if len(fieldErrs) > 0 {
		for _, fe := range fieldErrs {
			fmt.Printf("  ✗ %s\n", fe)
		}
		return fmt.Errorf("entry has %d validation error(s)", len(fieldErrs))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
	defer cancel()

	user, err := resolveUser(ctx, appCtx, c.User)
	if err != nil {
		return err
	}

	created, err := appCtx.Client.CreateEntry(ctx, user.ID, entry)
	if err != nil {
		var conflict *api.ConflictError
		if errors.As(err, &conflict) {
			return fmt.Errorf("%s already has an entry for %s; edit it from the dashboard instead", user.Name, entry.Date)
		}
		return err
	}

	fmt.Printf("Logged %s for %s.\n", created.Date, user.Name)
	return nil
}

type EntryListCmd struct {
	User   int  `help:"User id to list (defaults to the first listed user)."`
	Week   bool `help:"Limit to the trailing 7-day window."`
	Cached bool `help:"Serve the local cache instead of the server."`
}

func (c *EntryListCmd) Run(appCtx *Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
	defer cancel()

	var entries []models.ProgressEntry
	userID := c.User

	if c.Cached {
		if userID == 0 {
			users, err := appCtx.Cache.GetUsers()
			if err != nil {
				return err
			}
			if len(users) == 0 {
				return fmt.Errorf("cache is empty, run without --cached first")
			}
			userID = users[0].ID
		}
		var err error
		entries, err = appCtx.Cache.GetEntries(userID)
		if err != nil {
			return err
		}
	} else {
		user, err := resolveUser(ctx, appCtx, userID)
		if err != nil {
			return err
		}
		userID = user.ID

		from, to := "", ""
		if c.Week {
			window := windowNow()
			from, to = window.Start, window.End
		}
		entries, err = appCtx.Client.FetchEntries(ctx, userID, from, to)
		if err != nil {
			return err
		}
		if cacheErr := appCtx.Cache.SaveEntries(userID, entries); cacheErr != nil {
			logger.Warn("failed to cache entries", "error", cacheErr)
		}
	}

	if c.Week {
		window := windowNow()
		var filtered []models.ProgressEntry
		for _, e := range entries {
			if window.Contains(e.Date) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return nil
	}

	fmt.Printf("%-12s %-8s %-8s %-14s %s\n", "Date", "Water", "Sleep", "Steps", "Summary")
	for _, e := range entries {
		fmt.Printf("%-12s %-8s %-8s %-14s %s\n",
			e.Date,
			fmt.Sprintf("%.1fL", e.Water()),
			fmt.Sprintf("%.1fh", e.Sleep()),
			e.Walk10kSteps.Label(),
			e.Summary,
		)
	}
	return nil
}
