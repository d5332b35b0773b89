package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/config"
	"github.com/mverma/stride/internal/credentials"
	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/stats"
	"github.com/mverma/stride/internal/storage"
)

// Context carries the shared dependencies into every command.
type Context struct {
	Client   *api.Client
	Creds    *credentials.Keyring
	Cache    storage.Provider
	Resolver *stats.Resolver
	Config   config.Config
}

// windowNow returns the trailing 7-day window ending today.
func windowNow() stats.Window {
	return stats.TrailingWeek(time.Now())
}

// resolveUser picks the target user: the --user flag when given, otherwise
// the first listed user (the dashboard's default-selection policy).
func resolveUser(ctx context.Context, appCtx *Context, userID int) (models.User, error) {
	users, err := appCtx.Client.FetchUsers(ctx)
	if err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, fmt.Errorf("no users registered on the server")
	}
	if err := appCtx.Cache.SaveUsers(users); err != nil {
		logger.Warn("failed to cache users", "error", err)
	}
	if userID == 0 {
		return users[0], nil
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("unknown user id %d", userID)
}
