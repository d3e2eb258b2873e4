package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/charterbid/app"
	"github.com/kilianp07/charterbid/infra/ledger"
	"github.com/kilianp07/charterbid/infra/logger"
)

var (
	ledgerLimit int
	ledgerSince string
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Ledger related commands",
}

var ledgerLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recorded allocation runs",
	RunE:  runLedgerLs,
}

func init() {
	ledgerLsCmd.Flags().IntVarP(&ledgerLimit, "limit", "n", 10, "number of runs to show, 0 for all")
	ledgerLsCmd.Flags().StringVar(&ledgerSince, "since", "", "only runs after this date (2006-01-02)")
	ledgerCmd.AddCommand(ledgerLsCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerLs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	q := ledger.Query{Limit: ledgerLimit}
	if ledgerSince != "" {
		if q.Since, err = time.Parse(time.DateOnly, ledgerSince); err != nil {
			return fmt.Errorf("since: %w", err)
		}
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			if _, ferr := fmt.Fprintf(cmd.ErrOrStderr(), "error while closing ledger: %v\n", err); ferr != nil {
				fmt.Println("failed to write to stderr:", ferr)
			}
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	recs, err := svc.History(ctx, q)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOFFSET\tNEXT\tLAST DRIVER\tFILLED\tOPEN\tSTOP")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%d/%d\t%d\t%s\n",
			r.Timestamp.Format(time.RFC3339), r.Offset, r.NextOffset, r.LastDriverID,
			r.SeatsFilled, r.SeatsDeclared, r.SeatsOpen, r.Stop)
	}
	return tw.Flush()
}
