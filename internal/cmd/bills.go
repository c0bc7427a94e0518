package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/config"
	"github.com/salus-health/salus/internal/identity"
	"github.com/salus-health/salus/internal/session"
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List your analyzed claims",
	Long: `Lists past coverage analyses, newest first. With a passkey credential the
backend history is used; otherwise the local snapshots from this machine.`,
	RunE: runBills,
}

func init() {
	rootCmd.AddCommand(billsCmd)
}

func runBills(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	stateDir := cfg.Session.ResolveStateDir()

	records, err := fetchBills(cfg, stateDir)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No claims yet. Run `salus` to analyze a bill.")
		return nil
	}

	for _, record := range records {
		date := "unknown date"
		if !record.CreatedAt.IsZero() {
			date = record.CreatedAt.Format("2006-01-02")
		}
		provider := record.BillData.Provider
		if provider == "" {
			provider = "unknown provider"
		}
		fmt.Printf("%s  %-30s billed $%.2f  covered $%.2f  you paid $%.2f\n",
			date, provider,
			record.Analysis.BillTotal,
			record.Analysis.PrivateCoverage+record.Analysis.PublicCoverage,
			record.Analysis.FinalCost)
	}
	return nil
}

func fetchBills(cfg *config.Config, stateDir string) ([]session.BillRecord, error) {
	mgr := identity.NewManager(stateDir)
	if mgr.HasCredential() {
		cred, err := mgr.Unlock()
		if err == nil {
			client := api.NewClient(cfg.Backend.BaseURL, api.WithTimeout(cfg.Backend.Timeout()))
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout())
			defer cancel()
			if records, err := client.Bills(ctx, cred.ID); err == nil {
				return records, nil
			}
			// Backend unreachable: fall through to local snapshots.
		}
	}

	store, err := session.NewClaimStore(stateDir)
	if err != nil {
		return nil, err
	}
	return store.List()
}
