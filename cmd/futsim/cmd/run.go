package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"futsim/config"
	"futsim/currency"
	"futsim/internal/dataset"
	"futsim/journal"
	"futsim/market"
	"futsim/pkg/id"
	"futsim/report"
	"futsim/sim"
	"futsim/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a config file",
	Long: `Run a portfolio simulation using settings from a configuration file.

The config file points at the market price CSVs, the contract
specification table and the exchange-rate files, and sets the account,
fee and strategy parameters.

Example:
  futsim run -f examples/configs/basic.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	start, end, err := cfg.Dates.Range()
	if err != nil {
		return err
	}

	specRows, err := dataset.LoadSpecs(cfg.Data.SpecsFile)
	if err != nil {
		return err
	}
	specs := market.NewSpecTable(specRows)

	var rates *currency.Table
	if cfg.Portfolio.LocalCurrency {
		rates, err = dataset.LoadRates(cfg.Data.RatesDir, cfg.Portfolio.BaseCurrency)
		if err != nil {
			return err
		}
	}

	quotes, err := dataset.LoadMarkets(cfg.Data.MarketsDir, cfg.Data.Markets, start, end)
	if err != nil {
		return err
	}
	logger.Info("data loaded",
		zap.Int("markets", len(quotes)),
		zap.Int("specs", specs.Len()))

	series := make([]*market.Series, len(quotes))
	for i, q := range quotes {
		if q.HasOrders() {
			// the file carries its own signals, use them as-is
			series[i] = q.Series()
			continue
		}
		series[i] = strategy.BuildSeries(q.Symbol, q.Dates, q.Closes, cfg.Strategy)
	}

	ds, err := market.NewDataset(series...)
	if err != nil {
		return err
	}

	engine, err := sim.New(sim.Config{
		InitialEquity: cfg.Portfolio.InitialEquity,
		PositionRisk:  cfg.Portfolio.PositionRisk,
		Commission:    cfg.Portfolio.Commission,
		LocalCurrency: cfg.Portfolio.LocalCurrency,
		Fees:          cfg.Fees,
	}, specs, rates, logger)
	if err != nil {
		return err
	}

	res, err := engine.Run(ds)
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	runID := id.New()
	if err := persist(cfg, runID, res); err != nil {
		return err
	}

	report.Print(os.Stdout, report.Summarize(runID, res))

	if cfg.Output.DBPath != "" {
		fmt.Printf("Results saved to: %s\n", cfg.Output.DBPath)
	}
	if cfg.Output.TradesFile != "" {
		fmt.Printf("Results saved to:\n  - %s\n  - %s\n", cfg.Output.TradesFile, cfg.Output.PortfolioFile)
	}

	return nil
}

// persist writes the run to every configured journal backend.
func persist(cfg *config.Config, runID string, res *sim.Result) error {
	if cfg.Output.DBPath != "" {
		j, err := journal.NewSQLite(cfg.Output.DBPath)
		if err != nil {
			return fmt.Errorf("open journal db: %w", err)
		}
		if err := journal.RecordResult(j, runID, res); err != nil {
			j.Close()
			return fmt.Errorf("journal db: %w", err)
		}
		if err := j.Close(); err != nil {
			return err
		}
	}

	if cfg.Output.TradesFile != "" && cfg.Output.PortfolioFile != "" {
		j, err := journal.NewCSV(cfg.Output.TradesFile, cfg.Output.PortfolioFile)
		if err != nil {
			return fmt.Errorf("open journal csv: %w", err)
		}
		if err := journal.RecordResult(j, runID, res); err != nil {
			j.Close()
			return fmt.Errorf("journal csv: %w", err)
		}
		if err := j.Close(); err != nil {
			return err
		}
	}

	return nil
}
