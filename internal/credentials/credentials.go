package credentials

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/mverma/stride/internal/constants"
)

var (
	// ErrNotFound is returned when no token is stored in the keyring
	ErrNotFound = errors.New("no token found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Keyring stores the bearer token in the OS keyring. It is the single
// durable slot for the token: set on login, read by every request, cleared
// on logout. It satisfies the api.TokenProvider interface.
type Keyring struct{}

func NewKeyring() *Keyring {
	return &Keyring{}
}

// Token retrieves the stored bearer token.
// Returns ErrNotFound if no token is stored.
func (k *Keyring) Token() (string, error) {
	token, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return token, nil
}

// Set stores the bearer token in the OS keyring.
func (k *Keyring) Set(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// Clear removes the bearer token from the OS keyring.
func (k *Keyring) Clear() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is usable on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func (k *Keyring) IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered, it is just empty
	return err == nil || err == keyring.ErrNotFound
}
