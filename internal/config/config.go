package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/mverma/stride/internal/constants"
)

// Config is the file-backed client configuration. Flags override file
// values, file values override defaults. Step credits are configurable
// because the weekly step total is a status-derived proxy, not a count
// the client should hard-code.
type Config struct {
	ServerURL         string  `toml:"server_url"`
	RequestTimeoutSec int     `toml:"request_timeout_sec"`
	CachePath         string  `toml:"cache_path"`
	Debug             bool    `toml:"debug"`
	Credits           Credits `toml:"credits"`
}

type Credits struct {
	Completed int `toml:"completed"`
	Partial   int `toml:"partial"`
}

// DefaultDir returns the stride config directory (~/.config/stride).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", constants.AppName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), constants.AppName+".toml")
}

func defaults() Config {
	return Config{
		ServerURL:         constants.DefaultServerURL,
		RequestTimeoutSec: constants.DefaultRequestTimeoutSec,
		CachePath:         filepath.Join(DefaultDir(), "cache.db"),
		Credits:           Credits{Completed: 10000, Partial: 5000},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. STRIDE_SERVER_URL and STRIDE_DEBUG environment
// variables override both.
func Load(path string) (Config, error) {
	cfg := defaults()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if url := os.Getenv("STRIDE_SERVER_URL"); url != "" {
		cfg.ServerURL = url
	}
	if debug := os.Getenv("STRIDE_DEBUG"); debug != "" {
		if b, err := strconv.ParseBool(debug); err == nil {
			cfg.Debug = b
		}
	}

	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = constants.DefaultRequestTimeoutSec
	}
	if cfg.Credits.Completed < 0 {
		cfg.Credits.Completed = 0
	}
	if cfg.Credits.Partial < 0 {
		cfg.Credits.Partial = 0
	}

	return cfg, nil
}
