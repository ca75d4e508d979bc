package sim

import "time"

// MarketRow is one market's mutable simulation state for a date. The
// engine owns these exclusively while a run is in progress.
//
// Contracts is signed (positive long, negative short, zero flat).
// Risk is the local-currency amount placed at risk when the position
// was opened; it is recomputed only on position changes and carried
// forward otherwise. PnL accumulates local-currency trade profit since
// the position was opened and resets when flattened. Margin is already
// converted to base currency.
type MarketRow struct {
	Contracts int
	Margin    float64
	Risk      float64
	PnL       float64
}

// PortfolioRow is the consolidated per-date state of the account, in
// base currency.
type PortfolioRow struct {
	Date      time.Time
	Margin    float64
	Equity    float64
	Watermark float64
}

// Result is the completed simulation output: the equity curve and the
// finalized trade ledger.
type Result struct {
	Portfolio []PortfolioRow
	Trades    []TradeEntry
}
