package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mverma/stride/internal/constants"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.ServerURL != constants.DefaultServerURL {
		t.Errorf("server url = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeoutSec != constants.DefaultRequestTimeoutSec {
		t.Errorf("timeout = %d", cfg.RequestTimeoutSec)
	}
	if cfg.Credits.Completed != 10000 || cfg.Credits.Partial != 5000 {
		t.Errorf("default credits = %+v", cfg.Credits)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.toml")
	content := `
server_url = "https://progress.example.com"
request_timeout_sec = 30

[credits]
completed = 8000
partial = 3000
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://progress.example.com" {
		t.Errorf("server url = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeoutSec != 30 {
		t.Errorf("timeout = %d", cfg.RequestTimeoutSec)
	}
	if cfg.Credits.Completed != 8000 || cfg.Credits.Partial != 3000 {
		t.Errorf("credits = %+v", cfg.Credits)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.toml")
	if err := os.WriteFile(path, []byte(`server_url = "https://file.example.com"`), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STRIDE_SERVER_URL", "https://env.example.com")
	t.Setenv("STRIDE_DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "https://env.example.com" {
		t.Errorf("env should win: %q", cfg.ServerURL)
	}
	if !cfg.Debug {
		t.Error("STRIDE_DEBUG=true should enable debug")
	}
}

func TestLoad_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.toml")
	if err := os.WriteFile(path, []byte("server_url = [broken"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("malformed config should error, not silently fall back")
	}
}

func TestLoad_NonPositiveTimeoutReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stride.toml")
	if err := os.WriteFile(path, []byte(`request_timeout_sec = -5`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RequestTimeoutSec != constants.DefaultRequestTimeoutSec {
		t.Errorf("timeout = %d, want default", cfg.RequestTimeoutSec)
	}
}
