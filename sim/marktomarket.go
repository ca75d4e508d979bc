package sim

import "futsim/market"

// dailyChange returns today's local-currency P&L delta for one market:
// the close-to-close move times point value times the held contract
// count. Calendar gaps (market holidays inside the merged calendar)
// are bridged by the most recent valid close within the gap window; if
// none exists, or today has no quote, the change is zero.
func dailyChange(s *market.Series, i int, pointValue float64, contracts int) float64 {
	if contracts == 0 {
		return 0
	}
	prev, ok := s.PrevClose(i)
	if !ok || !market.Defined(s.Close[i]) {
		return 0
	}
	return (s.Close[i] - prev) * pointValue * float64(contracts)
}

// updatePnL applies the running P&L transition for a market row.
//
// yesterdayOrder drives the state machine: a flat order yesterday
// means the position was just closed, so the running P&L resets; an
// active order yesterday means a fresh trade was just opened, so the
// P&L restarts at today's change; no order means the position is
// simply held and the change accumulates.
func updatePnL(row *MarketRow, yesterdayOrder market.Order, change float64) {
	switch {
	case yesterdayOrder == market.OrderFlat:
		row.PnL = 0
	case yesterdayOrder != market.OrderNone:
		row.PnL = round4(change)
	default:
		row.PnL += round4(change)
	}
}
