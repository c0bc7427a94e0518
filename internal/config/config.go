package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete Salus client configuration
type Config struct {
	Backend Backend `mapstructure:"backend"`
	TUI     TUI     `mapstructure:"tui"`
	Session Session `mapstructure:"session"`
	Watch   Watch   `mapstructure:"watch"`
	Logging Logging `mapstructure:"logging"`
}

// Backend controls how the client reaches the Salus API
type Backend struct {
	// BaseURL is the root of the backend API (default: "http://localhost:8000")
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds is the per-request timeout for chat and analyze calls.
	// Uploads get double this budget since documents can be large.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// TUI controls the terminal UI behavior
type TUI struct {
	// RevealIntervalMs is the delay between revealing successive agent log
	// lines on the progress view. 0 disables pacing and shows everything
	// at once.
	RevealIntervalMs int `mapstructure:"reveal_interval_ms"`
	// Theme is the color theme for the TUI (default: "default")
	Theme string `mapstructure:"theme"`
}

// Session controls session state behavior
type Session struct {
	// StateDir is where the client keeps its credential file, local claim
	// snapshots and debug log. Supports ~ expansion.
	StateDir string `mapstructure:"state_dir"`
	// Region selects which public-aid rule set the backend applies
	// (default: "Ontario").
	Region string `mapstructure:"region"`
}

// Watch controls the bill drop-directory watcher
type Watch struct {
	// Enabled turns the drop-directory watcher on (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Dir is the directory watched for new bill documents. A file appearing
	// here is offered to the intake view as an upload candidate.
	Dir string `mapstructure:"dir"`
}

// Logging controls debug logging behavior
type Logging struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
}

// Timeout returns the request timeout as a duration.
func (b Backend) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// RevealInterval returns the log pacing delay as a duration.
func (t TUI) RevealInterval() time.Duration {
	return time.Duration(t.RevealIntervalMs) * time.Millisecond
}

// ResolveStateDir expands ~ in the configured state directory and falls
// back to ~/.local/share/salus when unset.
func (s Session) ResolveStateDir() string {
	dir := s.StateDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ".salus"
		}
		return filepath.Join(home, ".local", "share", "salus")
	}
	if dir == "~" || len(dir) > 1 && dir[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Backend: Backend{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 60,
		},
		TUI: TUI{
			RevealIntervalMs: 600,
			Theme:            "default",
		},
		Session: Session{
			StateDir: "",
			Region:   "Ontario",
		},
		Watch: Watch{
			Enabled: false,
			Dir:     "",
		},
		Logging: Logging{
			Enabled: true,
			Level:   "info",
		},
	}
}

// SetDefaults registers all default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("backend.base_url", defaults.Backend.BaseURL)
	viper.SetDefault("backend.timeout_seconds", defaults.Backend.TimeoutSeconds)

	viper.SetDefault("tui.reveal_interval_ms", defaults.TUI.RevealIntervalMs)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	viper.SetDefault("session.state_dir", defaults.Session.StateDir)
	viper.SetDefault("session.region", defaults.Session.Region)

	viper.SetDefault("watch.enabled", defaults.Watch.Enabled)
	viper.SetDefault("watch.dir", defaults.Watch.Dir)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "salus")
	}
	// Fall back to ~/.config/salus
	home, err := os.UserHomeDir()
	if err != nil {
		return ".salus"
	}
	return filepath.Join(home, ".config", "salus")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
