package storage

import "github.com/mverma/stride/internal/models"

// Provider is a local read-through cache of remote data. It lets the client
// show the last-known dashboard when the network is down and back the
// --cached flag on headless commands. The remote store stays authoritative;
// the cache is disposable and is simply rewritten on every successful fetch.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Users
	SaveUsers([]models.User) error
	GetUsers() ([]models.User, error)

	// Entries, keyed by user
	SaveEntries(userID int, entries []models.ProgressEntry) error
	GetEntries(userID int) ([]models.ProgressEntry, error)

	// Weekly aggregates, keyed by user
	SaveAggregate(models.WeeklyAggregate) error
	GetAggregate(userID int) (models.WeeklyAggregate, error)

	// Utils
	GetCachePath() string
}
