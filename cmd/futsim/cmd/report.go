package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"futsim/journal"
	"futsim/market"
	"futsim/report"
	"futsim/sim"
)

var reportCmd = &cobra.Command{
	Use:   "report [run_id]",
	Short: "Summarize a journaled run",
	Long: `Recompute and print the summary statistics for a run stored in a
SQLite journal. Without a run_id the most recent run is used.

Example:
  futsim report --db ./runs.db
  futsim report --db ./runs.db 01J9GZ3...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

var reportDBPath string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportDBPath, "db", "./runs.db", "path to SQLite journal DB")
}

func runReport(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(reportDBPath)
	if err != nil {
		return fmt.Errorf("open journal db: %w", err)
	}
	defer j.Close()

	var runID string
	if len(args) == 1 {
		runID = args[0]
	} else {
		runs, err := j.ListRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			return fmt.Errorf("no runs in %s", reportDBPath)
		}
		runID = runs[0]
	}

	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return err
	}
	curve, err := j.ListEquityByRun(runID)
	if err != nil {
		return err
	}
	if len(curve) == 0 {
		return fmt.Errorf("run %q not found in %s", runID, reportDBPath)
	}

	res := &sim.Result{
		Portfolio: make([]sim.PortfolioRow, len(curve)),
		Trades:    make([]sim.TradeEntry, len(trades)),
	}
	for i, p := range curve {
		res.Portfolio[i] = sim.PortfolioRow{
			Date:      p.Date,
			Margin:    p.Margin,
			Equity:    p.Equity,
			Watermark: p.Watermark,
		}
	}
	for i, t := range trades {
		res.Trades[i] = sim.TradeEntry{
			Symbol:    t.Symbol,
			Order:     market.Order(t.Order),
			OpenDate:  t.OpenDate,
			CloseDate: t.CloseDate,
			Contracts: t.Contracts,
			Risk:      t.Risk,
			PnL:       t.PnL,
			Open:      t.Open,
		}
	}

	report.Print(os.Stdout, report.Summarize(runID, res))
	return nil
}
