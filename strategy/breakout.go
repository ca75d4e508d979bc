// Package strategy generates the per-market order stream consumed by
// the simulation engine: a channel-breakout entry filtered by a moving
// average trend, with trailing-extreme and volatility-band exits.
//
// The engine itself is strategy-agnostic; anything that produces a
// market.Series can drive it. This is the reference rule set.
package strategy

import (
	"fmt"
	"time"

	"futsim/indicators"
	"futsim/market"
)

// Params are the rule windows, all in trading days.
type Params struct {
	EntryWindow int     `json:"entry_window" yaml:"entry_window"` // breakout channel for entries
	ExitWindow  int     `json:"exit_window" yaml:"exit_window"`   // tighter channel for exits
	FastMA      int     `json:"fast_ma" yaml:"fast_ma"`
	SlowMA      int     `json:"slow_ma" yaml:"slow_ma"`
	VolMA       int     `json:"vol_ma" yaml:"vol_ma"`         // center of the volatility bands
	VolWindow   int     `json:"vol_window" yaml:"vol_window"` // stddev estimation window
	VolSigmas   float64 `json:"vol_sigmas" yaml:"vol_sigmas"` // band width in sigmas
}

// Validate checks the windows are usable.
func (p Params) Validate() error {
	if p.EntryWindow <= 0 {
		return fmt.Errorf("strategy.entry_window must be positive")
	}
	if p.ExitWindow <= 0 {
		return fmt.Errorf("strategy.exit_window must be positive")
	}
	if p.FastMA <= 0 || p.SlowMA <= 0 {
		return fmt.Errorf("strategy moving average windows must be positive")
	}
	if p.FastMA >= p.SlowMA {
		return fmt.Errorf("strategy.fast_ma must be shorter than slow_ma")
	}
	if p.VolMA <= 0 || p.VolWindow <= 0 {
		return fmt.Errorf("strategy volatility windows must be positive")
	}
	if p.VolSigmas < 0 {
		return fmt.Errorf("strategy.vol_sigmas must not be negative")
	}
	return nil
}

// DefaultParams returns the reference parameterization.
func DefaultParams() Params {
	return Params{
		EntryWindow: 100,
		ExitWindow:  50,
		FastMA:      100,
		SlowMA:      200,
		VolMA:       20,
		VolWindow:   100,
		VolSigmas:   3,
	}
}

// BuildSeries runs the rules over one market's dense close series and
// assembles the engine input: orders plus the exit channel levels the
// engine uses as stop references for sizing.
func BuildSeries(symbol string, dates []time.Time, closes []float64, p Params) *market.Series {
	s := market.NewSeries(symbol, dates)
	copy(s.Close, closes)

	orders, exitRes, exitSup := Orders(closes, p)
	copy(s.Orders, orders)
	copy(s.Resistance, exitRes)
	copy(s.Support, exitSup)
	return s
}

// Orders derives transition-only orders from a close series, along
// with the shifted exit-channel levels. Signals are lagged one bar:
// the order on date t is acted on at t+1, so no rule ever sees the
// close it trades on.
func Orders(closes []float64, p Params) (orders []market.Order, exitRes, exitSup []float64) {
	n := len(closes)

	fast := indicators.SMA(closes, p.FastMA)
	slow := indicators.SMA(closes, p.SlowMA)

	entryRes := indicators.Shift(indicators.Max(closes, p.EntryWindow), 1)
	entrySup := indicators.Shift(indicators.Min(closes, p.EntryWindow), 1)
	exitRes = indicators.Shift(indicators.Max(closes, p.ExitWindow), 1)
	exitSup = indicators.Shift(indicators.Min(closes, p.ExitWindow), 1)

	volCenter := indicators.SMA(closes, p.VolMA)
	sigma := indicators.Shift(indicators.Std(closes, p.VolWindow), 1)

	longRaw := make([]signal, n)
	shortRaw := make([]signal, n)
	for i := 0; i < n; i++ {
		c := closes[i]
		volSup := volCenter[i] - sigma[i]*p.VolSigmas
		volRes := volCenter[i] + sigma[i]*p.VolSigmas

		// NaN comparisons are false, so warmup regions emit nothing.
		switch {
		case c > entryRes[i] && fast[i] > slow[i]:
			longRaw[i] = sigLong
		case c < exitSup[i] || c > volRes:
			longRaw[i] = sigFlat
		}

		switch {
		case c < entrySup[i] && fast[i] < slow[i]:
			shortRaw[i] = sigShort
		case c > exitRes[i] || c < volSup:
			shortRaw[i] = sigFlat
		}
	}

	long := shiftFill(longRaw)
	short := shiftFill(shortRaw)

	orders = make([]market.Order, n)
	prev := sigNone
	emitted := false
	for i := 0; i < n; i++ {
		c := combine(long[i], short[i])
		if c == sigNone || c == prev {
			continue
		}
		prev = c

		o := c.order()
		if !emitted && o == market.OrderFlat {
			// a leading exit with no position to exit is noise
			continue
		}
		orders[i] = o
		emitted = true
	}

	return orders, exitRes, exitSup
}

type signal int8

const (
	sigNone signal = iota
	sigLong
	sigShort
	sigFlat
)

func (s signal) order() market.Order {
	switch s {
	case sigLong:
		return market.OrderLong
	case sigShort:
		return market.OrderShort
	case sigFlat:
		return market.OrderFlat
	default:
		return market.OrderNone
	}
}

// shiftFill lags the raw signal one bar and forward-fills it, so each
// side holds its last decision until a new one arrives.
func shiftFill(raw []signal) []signal {
	out := make([]signal, len(raw))
	last := sigNone
	for i := range raw {
		out[i] = last
		if raw[i] != sigNone {
			last = raw[i]
		}
	}
	return out
}

// combine folds the independent long and short state machines into one
// target position. Both sides must have an opinion; a simultaneous
// long and short claim is contradictory and yields nothing.
func combine(l, s signal) signal {
	switch {
	case l == sigNone || s == sigNone:
		return sigNone
	case l == sigLong && s == sigFlat:
		return sigLong
	case l == sigFlat && s == sigShort:
		return sigShort
	case l == sigFlat && s == sigFlat:
		return sigFlat
	default:
		return sigNone
	}
}
