package sim

import "github.com/shopspring/decimal"

// Monetary deltas are rounded to a fixed fractional-cent precision so
// a multi-decade simulation does not accumulate floating drift.

func round4(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(4).Float64()
	return f
}

func round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}
