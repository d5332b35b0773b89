package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
)

type UsersCmd struct {
	Cached bool `help:"Serve the local cache instead of the server."`
}

func (c *UsersCmd) Run(appCtx *Context) error {
	var users []models.User
	var err error

	if c.Cached {
		users, err = appCtx.Cache.GetUsers()
		if err != nil {
			return err
		}
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
		defer cancel()

		users, err = appCtx.Client.FetchUsers(ctx)
		if err != nil {
			return err
		}
		if cacheErr := appCtx.Cache.SaveUsers(users); cacheErr != nil {
			logger.Warn("failed to cache users", "error", cacheErr)
		}
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	fmt.Printf("%-6s %-4s %s\n", "ID", "", "Name")
	for _, u := range users {
		fmt.Printf("%-6d %-4s %s\n", u.ID, u.Initials(), u.Name)
	}
	return nil
}
