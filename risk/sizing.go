// Package risk converts a fractional risk budget and a stop distance
// into a signed futures contract count.
package risk

import (
	"fmt"
	"math"

	"futsim/market"
)

// Inputs carries everything sizing needs for one entry.
type Inputs struct {
	Equity  float64 // prior-day equity, the budget base
	RiskPct float64 // 0.005 risks 0.5% of equity per position

	Order market.Order

	// Position points from the latest valid quote. Support and
	// Resistance may be undefined while their windows warm up.
	Close      float64
	Support    float64
	Resistance float64

	PointValue float64
}

// Result is the sized position. Contracts is signed: positive long,
// negative short, zero flat.
type Result struct {
	Contracts int

	// StopDistance is the effective per-contract stop distance sizing
	// used, after any volatility-proxy fallback.
	StopDistance float64

	// RiskAmount is the local-currency amount placed at risk if the
	// stop is hit: |Contracts| * StopDistance * PointValue.
	RiskAmount float64
}

// Size computes the contract count so that a full move to the stop
// level loses approximately RiskPct * Equity.
//
// The stop distance comes from the structural level relevant to the
// direction (Close-Support for longs, Resistance-Close for shorts).
// A non-positive or undefined distance falls back to a volatility
// proxy of Close * RiskPct so the division is never degenerate.
func Size(in Inputs) (Result, error) {
	var dist float64

	switch in.Order {
	case market.OrderFlat:
		return Result{}, nil

	case market.OrderLong:
		dist = in.Close - in.Support
		if !market.Defined(in.Support) || dist <= 0 {
			dist = in.Close * in.RiskPct
		}

	case market.OrderShort:
		dist = in.Resistance - in.Close
		if !market.Defined(in.Resistance) || dist <= 0 {
			dist = in.Close * in.RiskPct
		}

	default:
		return Result{}, fmt.Errorf("cannot size order %q", in.Order)
	}

	contracts := int(math.Ceil((in.RiskPct * in.Equity) / (dist * in.PointValue)))
	if in.Order == market.OrderShort {
		contracts = -contracts
	}

	return Result{
		Contracts:    contracts,
		StopDistance: dist,
		RiskAmount:   math.Abs(float64(contracts)) * dist * in.PointValue,
	}, nil
}
