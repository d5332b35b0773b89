package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/constants"
)

type DoctorCmd struct{}

// Run performs environment health checks: keyring, server, cache, and a
// duplicate-instance scan. It never modifies anything.
func (c *DoctorCmd) Run(appCtx *Context) error {
	failures := 0

	fmt.Println("stride doctor")
	fmt.Println()

	// Keyring
	if appCtx.Creds.IsAvailable() {
		if _, err := appCtx.Creds.Token(); err == nil {
			fmt.Println("  ✓ keyring available, token stored")
		} else {
			fmt.Println("  ✓ keyring available, no token stored (run 'stride login')")
		}
	} else {
		fmt.Println("  ✗ OS keyring unavailable")
		failures++
	}

	// Server reachability
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(appCtx.Config.RequestTimeoutSec)*time.Second)
	defer cancel()

	_, err := appCtx.Client.FetchUsers(ctx)
	var authErr *api.AuthError
	var netErr *api.NetworkError
	switch {
	case err == nil:
		fmt.Printf("  ✓ server reachable at %s\n", appCtx.Config.ServerURL)
	case errors.As(err, &authErr):
		// The server answered; only the credentials are missing
		fmt.Printf("  ✓ server reachable at %s (not logged in)\n", appCtx.Config.ServerURL)
	case errors.As(err, &netErr):
		fmt.Printf("  ✗ server unreachable at %s: %v\n", appCtx.Config.ServerURL, err)
		failures++
	default:
		fmt.Printf("  ✗ server error: %v\n", err)
		failures++
	}

	// Cache
	if err := appCtx.Cache.Load(); err != nil {
		fmt.Printf("  ✗ cache unusable at %s: %v\n", appCtx.Cache.GetCachePath(), err)
		failures++
	} else {
		fmt.Printf("  ✓ cache ok at %s\n", appCtx.Cache.GetCachePath())
	}

	// Duplicate running instance
	if count, err := countInstances(); err != nil {
		fmt.Printf("  ? could not scan processes: %v\n", err)
	} else if count > 1 {
		fmt.Printf("  ✗ %d stride processes running; concurrent instances can race on the cache\n", count)
		failures++
	} else {
		fmt.Println("  ✓ no other stride instance running")
	}

	fmt.Println()
	if failures > 0 {
		return fmt.Errorf("%d check(s) failed", failures)
	}
	fmt.Println("All checks passed.")
	return nil
}

func countInstances() (int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return 0, err
	}
	self := filepath.Base(os.Args[0])
	count := 0
	for _, p := range procs {
		name := p.Executable()
		if name == constants.AppName || strings.TrimSuffix(name, ".exe") == constants.AppName || name == self {
			count++
		}
	}
	return count, nil
}
