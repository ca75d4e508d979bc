// Package indicators provides aligned rolling statistics over price
// slices. The math is delegated to github.com/cinar/indicator; this
// package adapts its streaming API to index-aligned slices where the
// warmup region is explicitly undefined.
package indicators

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/cinar/indicator/v2/volatility"
)

// Undefined marks indices inside an indicator's warmup region.
var Undefined = math.NaN()

// align pads the library output back to the input length so out[i]
// describes the window ending at values[i].
func align(n int, out []float64) []float64 {
	aligned := make([]float64, n)
	pad := n - len(out)
	for i := 0; i < pad; i++ {
		aligned[i] = Undefined
	}
	copy(aligned[pad:], out)
	return aligned
}

// SMA returns the simple moving average over the trailing period.
func SMA(values []float64, period int) []float64 {
	sma := trend.NewSmaWithPeriod[float64](period)
	out := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
	return align(len(values), out)
}

// Max returns the rolling maximum over the trailing period.
func Max(values []float64, period int) []float64 {
	mmax := trend.NewMovingMaxWithPeriod[float64](period)
	out := helper.ChanToSlice(mmax.Compute(helper.SliceToChan(values)))
	return align(len(values), out)
}

// Min returns the rolling minimum over the trailing period.
func Min(values []float64, period int) []float64 {
	mmin := trend.NewMovingMinWithPeriod[float64](period)
	out := helper.ChanToSlice(mmin.Compute(helper.SliceToChan(values)))
	return align(len(values), out)
}

// Std returns the rolling sample standard deviation over the trailing
// period.
func Std(values []float64, period int) []float64 {
	mstd := volatility.NewMovingStdWithPeriod[float64](period)
	out := helper.ChanToSlice(mstd.Compute(helper.SliceToChan(values)))
	return align(len(values), out)
}

// Shift moves values forward by n indices, filling the head with
// Undefined. Shifted rolling levels are how trailing structure is
// computed without looking at the current bar.
func Shift(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < n {
			out[i] = Undefined
			continue
		}
		out[i] = values[i-n]
	}
	return out
}
