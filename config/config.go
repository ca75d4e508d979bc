// Package config loads and validates the simulation configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"futsim/sim"
	"futsim/strategy"
)

// Config represents the complete simulation configuration
type Config struct {
	Data      DataConfig      `json:"data" yaml:"data"`
	Portfolio PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Fees      sim.FeeConfig   `json:"fees" yaml:"fees"`
	Strategy  strategy.Params `json:"strategy" yaml:"strategy"`
	Dates     DateRange       `json:"dates" yaml:"dates"`
	Output    OutputConfig    `json:"output" yaml:"output"`
}

// DataConfig points at the input files: one price CSV per market, a
// contract specification CSV, and one exchange-rate CSV per currency.
type DataConfig struct {
	MarketsDir string   `json:"markets_dir" yaml:"markets_dir"`
	SpecsFile  string   `json:"specs_file" yaml:"specs_file"`
	RatesDir   string   `json:"rates_dir,omitempty" yaml:"rates_dir,omitempty"`
	Markets    []string `json:"markets,omitempty" yaml:"markets,omitempty"`
}

// PortfolioConfig contains account and sizing parameters. Commission
// is the per-side charge per contract; LocalCurrency turns on
// conversion of foreign-denominated amounts into BaseCurrency.
type PortfolioConfig struct {
	InitialEquity float64 `json:"initial_equity" yaml:"initial_equity"`
	PositionRisk  float64 `json:"position_risk" yaml:"position_risk"`
	Commission    float64 `json:"commission" yaml:"commission"`
	BaseCurrency  string  `json:"base_currency" yaml:"base_currency"`
	LocalCurrency bool    `json:"local_currency" yaml:"local_currency"`
}

// DateRange restricts the simulation to a calendar slice. Empty
// bounds mean unbounded on that side.
type DateRange struct {
	Start string `json:"start,omitempty" yaml:"start,omitempty"`
	End   string `json:"end,omitempty" yaml:"end,omitempty"`
}

const dateLayout = "2006-01-02"

// Range parses the bounds. Zero times stand in for missing bounds.
func (d DateRange) Range() (start, end time.Time, err error) {
	if d.Start != "" {
		start, err = time.Parse(dateLayout, d.Start)
		if err != nil {
			return start, end, fmt.Errorf("parse dates.start: %w", err)
		}
	}
	if d.End != "" {
		end, err = time.Parse(dateLayout, d.End)
		if err != nil {
			return start, end, fmt.Errorf("parse dates.end: %w", err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, fmt.Errorf("dates.end %s before dates.start %s", d.End, d.Start)
	}
	return start, end, nil
}

// OutputConfig contains journaling parameters
type OutputConfig struct {
	PortfolioFile string `json:"portfolio_file,omitempty" yaml:"portfolio_file,omitempty"`
	TradesFile    string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Data.MarketsDir == "" {
		return fmt.Errorf("data.markets_dir is required")
	}
	if c.Data.SpecsFile == "" {
		return fmt.Errorf("data.specs_file is required")
	}
	if c.Portfolio.InitialEquity <= 0 {
		return fmt.Errorf("portfolio.initial_equity must be positive")
	}
	if c.Portfolio.PositionRisk <= 0 || c.Portfolio.PositionRisk >= 1 {
		return fmt.Errorf("portfolio.position_risk must be between 0 and 1")
	}
	if c.Portfolio.Commission < 0 {
		return fmt.Errorf("portfolio.commission must not be negative")
	}
	if c.Portfolio.BaseCurrency == "" {
		return fmt.Errorf("portfolio.base_currency is required")
	}
	if c.Portfolio.LocalCurrency && c.Data.RatesDir == "" {
		return fmt.Errorf("data.rates_dir required when portfolio.local_currency is set")
	}
	if c.Fees.Enabled {
		if c.Fees.Management < 0 || c.Fees.Management >= 1 {
			return fmt.Errorf("fees.management must be between 0 and 1")
		}
		if c.Fees.Performance < 0 || c.Fees.Performance >= 1 {
			return fmt.Errorf("fees.performance must be between 0 and 1")
		}
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if _, _, err := c.Dates.Range(); err != nil {
		return err
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Data: DataConfig{
			MarketsDir: "./data/markets",
			SpecsFile:  "./data/specs.csv",
			RatesDir:   "./data/rates",
		},
		Portfolio: PortfolioConfig{
			InitialEquity: 1000000,
			PositionRisk:  0.005,
			Commission:    32,
			BaseCurrency:  "USD",
			LocalCurrency: true,
		},
		Fees: sim.FeeConfig{
			Enabled:     false,
			Management:  0.02,
			Performance: 0.20,
		},
		Strategy: strategy.DefaultParams(),
		Output: OutputConfig{
			PortfolioFile: "./portfolio.csv",
			TradesFile:    "./trades.csv",
		},
	}
}
