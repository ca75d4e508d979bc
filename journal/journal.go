// Package journal persists simulation output: the trade ledger and
// the per-date portfolio curve.
package journal

import (
	"time"

	"futsim/pkg/id"
	"futsim/sim"
)

// TradeRecord is one persisted ledger row. Dates are signal dates.
type TradeRecord struct {
	TradeID   string
	RunID     string
	Symbol    string
	Order     string
	OpenDate  time.Time
	CloseDate time.Time
	Contracts int
	Risk      float64
	PnL       float64
	Open      bool // still open when the run ended
}

// EquityPoint is one persisted row of the consolidated portfolio
// curve.
type EquityPoint struct {
	RunID     string
	Date      time.Time
	Margin    float64
	Equity    float64
	Watermark float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}

// RecordResult writes a completed simulation into a journal under one
// run ID, stamping each trade with a sortable ID.
func RecordResult(j Journal, runID string, res *sim.Result) error {
	for _, tr := range res.Trades {
		err := j.RecordTrade(TradeRecord{
			TradeID:   id.New(),
			RunID:     runID,
			Symbol:    tr.Symbol,
			Order:     string(tr.Order),
			OpenDate:  tr.OpenDate,
			CloseDate: tr.CloseDate,
			Contracts: tr.Contracts,
			Risk:      tr.Risk,
			PnL:       tr.PnL,
			Open:      tr.Open,
		})
		if err != nil {
			return err
		}
	}
	for _, row := range res.Portfolio {
		err := j.RecordEquity(EquityPoint{
			RunID:     runID,
			Date:      row.Date,
			Margin:    row.Margin,
			Equity:    row.Equity,
			Watermark: row.Watermark,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
