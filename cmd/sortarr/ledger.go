package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/sortarr/internal/config"
	"github.com/vmunix/sortarr/internal/media"
	"github.com/vmunix/sortarr/internal/organizer"
	"github.com/vmunix/sortarr/internal/report"
	"github.com/vmunix/sortarr/internal/store"
)

var (
	ledgerOutcome string
	ledgerLimit   int
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or edit the processed-path ledger",
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed source paths",
	RunE:  runLedgerList,
}

var ledgerForgetCmd = &cobra.Command{
	Use:   "forget <source-path>",
	Short: "Remove a path from the ledger so the next run re-evaluates it",
	Long: `Remove a source path from the processed ledger. Use this when a
previously classified directory changed (files were added or removed)
and should be re-evaluated on the next run.`,
	Args: cobra.ExactArgs(1),
	RunE: runLedgerForget,
}

func init() {
	ledgerListCmd.Flags().StringVar(&ledgerOutcome, "outcome", "", "Filter by outcome (accepted, review, skipped, failed)")
	ledgerListCmd.Flags().IntVar(&ledgerLimit, "limit", 50, "Maximum entries to show (0 for all)")
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerForgetCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func openLedger() (*organizer.Ledger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return organizer.NewLedger(db), func() { _ = db.Close() }, nil
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	ledger, closeDB, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB()

	filter := organizer.LedgerFilter{Limit: ledgerLimit}
	if ledgerOutcome != "" {
		outcome := media.Outcome(ledgerOutcome)
		filter.Outcome = &outcome
	}

	records, err := ledger.List(filter)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	headers := []string{"Source", "Outcome", "Destination", "When"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.SourcePath,
			string(r.Outcome),
			r.DestPath,
			r.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	report.RenderList(os.Stdout, headers, rows)
	return nil
}

func runLedgerForget(cmd *cobra.Command, args []string) error {
	ledger, closeDB, err := openLedger()
	if err != nil {
		return err
	}
	defer closeDB()

	removed, err := ledger.Forget(args[0])
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no ledger entry for %q", args[0])
	}
	fmt.Printf("forgot %q\n", args[0])
	return nil
}
