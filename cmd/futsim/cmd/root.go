package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "futsim",
	Short: "A deterministic multi-market futures portfolio simulator",
	Long: `Futsim replays historical futures data through a risk-parity
portfolio simulation.

It provides tools for:
  - Generating breakout/trend order streams per market
  - Stop-distance position sizing against portfolio equity
  - FX-correct mark-to-market and margin accounting
  - High-water-mark management and performance fees
  - Journaling trades and the equity curve to CSV or SQLite`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the CLI logger. Debug output goes to stderr so the
// result summary on stdout stays clean.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
