package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/salus-health/salus/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize the configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Printf("config file:  %s\n\n", config.ConfigFile())
	fmt.Printf("backend.base_url:        %s\n", cfg.Backend.BaseURL)
	fmt.Printf("backend.timeout_seconds: %d\n", cfg.Backend.TimeoutSeconds)
	fmt.Printf("tui.reveal_interval_ms:  %d\n", cfg.TUI.RevealIntervalMs)
	fmt.Printf("tui.theme:               %s\n", cfg.TUI.Theme)
	fmt.Printf("session.state_dir:       %s\n", cfg.Session.ResolveStateDir())
	fmt.Printf("session.region:          %s\n", cfg.Session.Region)
	fmt.Printf("watch.enabled:           %v\n", cfg.Watch.Enabled)
	fmt.Printf("watch.dir:               %s\n", orNone(cfg.Watch.Dir))
	fmt.Printf("logging.enabled:         %v\n", cfg.Logging.Enabled)
	fmt.Printf("logging.level:           %s\n", cfg.Logging.Level)
	return nil
}

const defaultConfigTemplate = `backend:
  base_url: http://localhost:8000
  timeout_seconds: 60

tui:
  # Delay between revealing agent log lines. 0 shows everything at once.
  reveal_interval_ms: 600
  theme: default

session:
  # Defaults to ~/.local/share/salus
  state_dir: ""
  region: Ontario

watch:
  # Watch a directory for new bill documents and offer them for upload.
  enabled: false
  dir: ""

logging:
  enabled: true
  level: info
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
