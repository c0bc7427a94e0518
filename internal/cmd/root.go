// Package cmd defines the salus command line interface.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/salus-health/salus/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "salus",
	Short: "Medical bill intake and coverage assistant",
	Long: `Salus walks you through a medical bill: upload it, confirm what was
extracted in a short conversation, then watch private insurance and
government programs get coordinated into a single out-of-pocket figure.

Running salus with no arguments starts the interactive session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/salus/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.PersistentFlags().String("backend", "", "backend base URL (overrides config)")
	_ = viper.BindPFlag("backend.base_url", rootCmd.PersistentFlags().Lookup("backend"))

	rootCmd.Flags().Bool("no-pacing", false, "reveal analysis logs immediately instead of pacing them")
	_ = viper.BindPFlag("tui.no_pacing", rootCmd.Flags().Lookup("no-pacing"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/salus")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SALUS")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SALUS_BACKEND_BASE_URL for backend.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
