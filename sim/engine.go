// Package sim is the portfolio simulation core: a day-by-day state
// machine that turns per-market order streams into position sizes,
// mark-to-market P&L, margin usage and a single consolidated equity
// curve with high-water-mark fee accounting.
package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"futsim/currency"
	"futsim/market"
	"futsim/risk"
)

// Config is the run configuration, fixed at construction.
type Config struct {
	InitialEquity float64

	// PositionRisk is the fractional risk budget per new position.
	PositionRisk float64

	// Commission is the per-side commission per contract. The round
	// trip (2x) is charged up front at entry.
	Commission float64

	// LocalCurrency marks the inputs as local-currency series that
	// need conversion into the base currency. When false the data is
	// assumed pre-converted and the rate table is never consulted.
	LocalCurrency bool

	Fees FeeConfig
}

// Engine runs the simulation. A run is a single deterministic pass
// over a fixed dataset; the engine keeps no state between runs.
type Engine struct {
	cfg    Config
	specs  *market.SpecTable
	rates  *currency.Table
	logger *zap.Logger
}

func New(cfg Config, specs *market.SpecTable, rates *currency.Table, logger *zap.Logger) (*Engine, error) {
	if specs == nil || specs.Len() == 0 {
		return nil, fmt.Errorf("sim: contract specifications are required")
	}
	if cfg.LocalCurrency && rates == nil {
		return nil, fmt.Errorf("sim: local currency accounting requires a rate table")
	}
	if cfg.InitialEquity <= 0 {
		return nil, fmt.Errorf("sim: initial equity must be positive")
	}
	if cfg.PositionRisk <= 0 || cfg.PositionRisk >= 1 {
		return nil, fmt.Errorf("sim: position risk must be in (0, 1)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, specs: specs, rates: rates, logger: logger}, nil
}

// Run simulates the dataset date by date. For each date, each market
// either resizes (yesterday's order changed) or carries its position
// forward, is marked to market, converted to base currency, and folded
// into the day's margin and P&L aggregates; then the consolidated
// equity, watermark and fees are updated. Dates strictly depend on the
// prior date, so the pass is sequential by construction.
func (e *Engine) Run(ds *market.Dataset) (*Result, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, fmt.Errorf("sim: empty dataset")
	}

	specs := make([]market.Spec, len(ds.Markets))
	for i, s := range ds.Markets {
		spec, err := e.specs.Lookup(s.Symbol)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		specs[i] = spec
	}

	e.logger.Info("simulation start",
		zap.Int("markets", len(ds.Markets)),
		zap.Int("dates", ds.Len()),
		zap.Float64("initial_equity", e.cfg.InitialEquity))

	rows := make(map[string]*MarketRow, len(ds.Markets))
	for _, s := range ds.Markets {
		rows[s.Symbol] = &MarketRow{}
	}

	led := newLedger()
	roundTrip := e.cfg.Commission * 2

	portfolio := make([]PortfolioRow, 0, ds.Len())
	prevEquity := e.cfg.InitialEquity
	watermark := e.cfg.InitialEquity // Watermark(0) is the initial equity

	for i, date := range ds.Calendar {
		var mtm, totalMargin float64

		for mi, s := range ds.Markets {
			spec := specs[mi]
			row := rows[s.Symbol]

			var yOrder market.Order
			if i > 0 {
				yOrder = s.Orders[i-1]
			}

			if i > 0 && yOrder != market.OrderNone {
				// Yesterday's signal executes today: resize, book the
				// closed trade, charge the round trip up front.
				close, support, resistance, err := s.PositionPoints(i)
				if err != nil {
					return nil, fmt.Errorf("sim: %w", err)
				}
				sized, err := risk.Size(risk.Inputs{
					Equity:     prevEquity,
					RiskPct:    e.cfg.PositionRisk,
					Order:      yOrder,
					Close:      close,
					Support:    support,
					Resistance: resistance,
					PointValue: spec.PointValue,
				})
				if err != nil {
					return nil, fmt.Errorf("sim: %s on %s: %w",
						s.Symbol, date.Format("2006-01-02"), err)
				}

				led.transition(s.Symbol, ds.Calendar[i-1], yOrder, sized.Contracts, sized.RiskAmount, row.PnL)

				row.Contracts = sized.Contracts
				row.Risk = sized.RiskAmount
				if sized.Contracts != 0 {
					mtm -= math.Abs(float64(sized.Contracts)) * roundTrip
				}

				e.logger.Debug("position change",
					zap.String("market", s.Symbol),
					zap.Time("date", date),
					zap.String("order", string(yOrder)),
					zap.Int("contracts", sized.Contracts),
					zap.Float64("risk", sized.RiskAmount))
			}
			// otherwise yesterday's contracts and risk carry forward
			// unchanged in row.

			change := dailyChange(s, i, spec.PointValue, row.Contracts)
			updatePnL(row, yOrder, change)

			if e.cfg.LocalCurrency {
				var err error
				change, err = e.rates.Convert(currency.Change, spec.Currency, date, change)
				if err != nil {
					return nil, fmt.Errorf("sim: %s: %w", s.Symbol, err)
				}
			}
			mtm += round4(change)

			margin := math.Abs(float64(row.Contracts)) * spec.MarginRequirement
			if e.cfg.LocalCurrency {
				var err error
				margin, err = e.rates.Convert(currency.Margin, spec.Currency, date, margin)
				if err != nil {
					return nil, fmt.Errorf("sim: %s: %w", s.Symbol, err)
				}
			}
			row.Margin = margin
			totalMargin += margin
		}

		equity := prevEquity + mtm
		if e.cfg.Fees.Enabled && i > 0 {
			equity -= e.cfg.Fees.fee(equity, watermark)
		}

		portfolio = append(portfolio, PortfolioRow{
			Date:      date,
			Margin:    totalMargin,
			Equity:    equity,
			Watermark: watermark,
		})

		if equity > watermark {
			watermark = equity
		}
		prevEquity = equity
	}

	trades := led.finish(ds.Calendar[ds.Len()-1], func(sym string) float64 {
		return rows[sym].PnL
	})

	e.logger.Info("simulation complete",
		zap.Float64("final_equity", prevEquity),
		zap.Int("trades", len(trades)))

	return &Result{Portfolio: portfolio, Trades: trades}, nil
}
