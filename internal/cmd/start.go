package cmd

import (
	"github.com/spf13/viper"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/config"
	"github.com/salus-health/salus/internal/identity"
	"github.com/salus-health/salus/internal/logging"
	"github.com/salus-health/salus/internal/profile"
	"github.com/salus-health/salus/internal/session"
	"github.com/salus-health/salus/internal/tui"
	"github.com/salus-health/salus/internal/watch"
)

// runTUI wires the collaborators and hands control to the terminal UI.
func runTUI() error {
	cfg := config.Get()
	if viper.GetBool("tui.no_pacing") {
		cfg.TUI.RevealIntervalMs = 0
	}
	stateDir := cfg.Session.ResolveStateDir()

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(stateDir, cfg.Logging.Level)
		if err != nil {
			return err
		}
		logger = l
		defer func() { _ = logger.Close() }()
	}

	client := api.NewClient(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout()))

	store, err := session.NewClaimStore(stateDir)
	if err != nil {
		// Local snapshots are a convenience, not a requirement.
		logger.Warn("local claim store unavailable", "error", err)
		store = nil
	}

	var watcher *watch.Watcher
	if cfg.Watch.Enabled && cfg.Watch.Dir != "" {
		w, err := watch.New(cfg.Watch.Dir)
		if err != nil {
			logger.Warn("drop directory unavailable", "dir", cfg.Watch.Dir, "error", err)
		} else {
			watcher = w
		}
	}

	app := tui.New(tui.Deps{
		Client:   client,
		Identity: identity.NewManager(stateDir),
		Gate:     profile.NewGate(client, logger),
		Store:    store,
		Watcher:  watcher,
		Config:   cfg,
		Logger:   logger,
	})
	return app.Run()
}
