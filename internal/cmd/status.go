package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the backend connection",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	client := api.NewClient(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
	defer cancel()

	status, err := client.Status(ctx)
	if err != nil {
		return fmt.Errorf("backend at %s is unreachable: %w", cfg.Backend.BaseURL, err)
	}

	fmt.Printf("backend:        %s (ok)\n", cfg.Backend.BaseURL)
	fmt.Printf("uploaded file:  %s\n", orNone(status.UploadedFile))
	fmt.Printf("ready to run:   %v\n", status.ReadyForAnalysis)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
