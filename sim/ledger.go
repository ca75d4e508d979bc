package sim

import (
	"sort"
	"time"

	"futsim/market"
)

// TradeEntry is one row of the trade ledger: a position opened by a
// signal and the risk and P&L it realized. Dates are signal dates, one
// session before execution. A trade still pending when the run ends is
// flushed with its accumulated P&L and Open set.
type TradeEntry struct {
	Symbol    string
	Order     market.Order
	OpenDate  time.Time
	CloseDate time.Time
	Contracts int
	Risk      float64
	PnL       float64
	Open      bool
}

// ledger collects trades as pending objects keyed by market, finalized
// when the next transition closes or resizes the position. This
// replaces scanning a shared table for the row matching yesterday's
// date and symbol.
type ledger struct {
	pending map[string]*TradeEntry
	closed  []TradeEntry
}

func newLedger() *ledger {
	return &ledger{pending: make(map[string]*TradeEntry)}
}

// transition records an order change for symbol, signaled on
// signalDate and executed today. The previous pending trade, if any,
// is finalized with the P&L accumulated through the signal date.
func (l *ledger) transition(symbol string, signalDate time.Time, order market.Order, contracts int, riskAmount, accumulatedPnL float64) {
	if p, ok := l.pending[symbol]; ok {
		p.CloseDate = signalDate
		p.PnL = accumulatedPnL
		l.closed = append(l.closed, *p)
		delete(l.pending, symbol)
	}

	if order.Active() {
		l.pending[symbol] = &TradeEntry{
			Symbol:    symbol,
			Order:     order,
			OpenDate:  signalDate,
			Contracts: contracts,
			Risk:      riskAmount,
		}
	}
}

// finish flushes trades still open at lastDate and returns the ledger
// ordered by open date, then symbol.
func (l *ledger) finish(lastDate time.Time, pnlOf func(symbol string) float64) []TradeEntry {
	out := l.closed
	for sym, p := range l.pending {
		p.CloseDate = lastDate
		p.PnL = pnlOf(sym)
		p.Open = true
		out = append(out, *p)
	}
	l.pending = make(map[string]*TradeEntry)

	sort.Slice(out, func(i, j int) bool {
		if !out[i].OpenDate.Equal(out[j].OpenDate) {
			return out[i].OpenDate.Before(out[j].OpenDate)
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
