package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
)

type StatsCmd struct {
	User   int  `help:"User id to report on (defaults to the first listed user)."`
	Cached bool `help:"Serve the local cache instead of the server."`
}

func (c *StatsCmd) Run(appCtx *Context) error {
	var agg models.WeeklyAggregate
	var name string

	if c.Cached {
		userID := c.User
		if userID == 0 {
			users, err := appCtx.Cache.GetUsers()
			if err != nil {
				return err
			}
			if len(users) == 0 {
				return fmt.Errorf("cache is empty, run without --cached first")
			}
			userID = users[0].ID
			name = users[0].Name
		}
		var err error
		agg, err = appCtx.Cache.GetAggregate(userID)
		if err != nil {
			return err
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
		defer cancel()

		user, err := resolveUser(ctx, appCtx, c.User)
		if err != nil {
			return err
		}
		name = user.Name

		agg, err = appCtx.Client.FetchWeeklyAggregateWithFallback(ctx, user.ID, windowNow(), appCtx.Resolver)
		if err != nil {
			return err
		}
		if cacheErr := appCtx.Cache.SaveAggregate(agg); cacheErr != nil {
			logger.Warn("failed to cache aggregate", "error", cacheErr)
		}
	}

	if name != "" {
		fmt.Printf("Weekly stats for %s", name)
	} else {
		fmt.Printf("Weekly stats for user %d", agg.UserID)
	}
	if agg.WindowStart != "" {
		fmt.Printf(" (%s to %s)", agg.WindowStart, agg.WindowEnd)
	}
	fmt.Println()

	fmt.Printf("  Steps:        %d\n", agg.TotalSteps)
	fmt.Printf("  Water:        %.1fL\n", agg.TotalWaterLiters)
	fmt.Printf("  Sleep:        %.1fh\n", agg.TotalSleepHours)
	fmt.Printf("  Weekly goal:  %d%%\n", agg.ProgressPercentage)
	return nil
}
