package main

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/mverma/stride/internal/api"
	"github.com/mverma/stride/internal/cli"
	"github.com/mverma/stride/internal/config"
	"github.com/mverma/stride/internal/credentials"
	"github.com/mverma/stride/internal/errors"
	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/stats"
	"github.com/mverma/stride/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Debug   bool   `help:"Verbose logging to stderr."`

	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Login  cli.LoginCmd  `cmd:"" help:"Log in and store the API token."`
	Logout cli.LogoutCmd `cmd:"" help:"Clear the stored API token."`
	Signup cli.SignupCmd `cmd:"" help:"Create a new account."`
	Users  cli.UsersCmd  `cmd:"" help:"List team members."`
	Entry  struct {
		Add  cli.EntryAddCmd  `cmd:"" help:"Record a daily entry."`
		List cli.EntryListCmd `cmd:"" help:"List daily entries."`
	} `cmd:"" help:"Manage daily entries."`
	Stats  cli.StatsCmd  `cmd:"" help:"Show the weekly roll-up."`
	Doctor cli.DoctorCmd `cmd:"" help:"Check the local setup."`
}

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("stride"),
		kong.Description("Team daily-progress dashboard and tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: config.DefaultDir()}); err != nil {
		errors.Fatalf("failed to initialize logging: %v", err)
	}

	// Cache backend follows the file extension, like the config path itself.
	var cache storage.Provider
	if strings.HasSuffix(cfg.CachePath, ".json") {
		cache = storage.NewJSONStore(cfg.CachePath)
	} else {
		cache = storage.NewSQLiteStore(cfg.CachePath)
	}
	if err := cache.Load(); err != nil {
		// Cache is disposable: keep going, reads will miss and writes will
		// surface their own errors.
		logger.Warn("cache unavailable", "path", cfg.CachePath, "error", err)
	}
	defer cache.Close()

	creds := credentials.NewKeyring()
	client := api.NewClient(cfg.ServerURL, time.Duration(cfg.RequestTimeoutSec)*time.Second, creds)
	resolver := stats.NewWithCredits(stats.Credits{
		Completed: cfg.Credits.Completed,
		Partial:   cfg.Credits.Partial,
	})

	appCtx := &cli.Context{
		Client:   client,
		Creds:    creds,
		Cache:    cache,
		Resolver: resolver,
		Config:   cfg,
	}

	if err := ctx.Run(appCtx); err != nil {
		cache.Close()
		errors.Fatal(err)
	}
}
