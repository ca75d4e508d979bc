package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"futsim/market"
)

func testParams() Params {
	return Params{
		EntryWindow: 3,
		ExitWindow:  2,
		FastMA:      2,
		SlowMA:      4,
		VolMA:       2,
		VolWindow:   3,
		VolSigmas:   10, // bands wide enough to never trigger
	}
}

func TestOrdersBreakoutThenReversal(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 11, 12, 13, 14, 15, 16, 12, 11, 10}

	orders, exitRes, exitSup := Orders(closes, testParams())

	want := make([]market.Order, len(closes))
	want[4] = market.OrderLong  // breakout above the 3-day channel, fast MA above slow
	want[8] = market.OrderShort // breakdown flips the book directly
	assert.Equal(t, want, orders)

	// exit levels are the shifted 2-day channel
	assert.InDelta(t, 15, exitRes[6], 1e-9)
	assert.InDelta(t, 14, exitSup[6], 1e-9)
}

func TestOrdersLeadingExitDropped(t *testing.T) {
	t.Parallel()

	p := testParams()
	p.SlowMA = 2    // fast never crosses slow: no entries
	p.VolSigmas = 0 // bands collapse onto the mean: exits fire

	closes := []float64{10, 9, 10, 9, 10, 9}
	orders, _, _ := Orders(closes, p)

	// exit signals with no position to exit must not reach the engine
	for i, o := range orders {
		assert.Equal(t, market.OrderNone, o, "index %d", i)
	}
}

func TestOrdersEmitsTransitionsOnly(t *testing.T) {
	t.Parallel()

	closes := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	orders, _, _ := Orders(closes, testParams())

	active := 0
	for _, o := range orders {
		if o != market.OrderNone {
			active++
			assert.Equal(t, market.OrderLong, o)
		}
	}
	// a sustained trend is one entry, not one order per bar
	assert.Equal(t, 1, active)
}

func TestBuildSeries(t *testing.T) {
	t.Parallel()

	dates := make([]time.Time, 10)
	for i := range dates {
		dates[i] = time.Date(2024, 2, 1+i, 0, 0, 0, 0, time.UTC)
	}
	closes := []float64{10, 11, 12, 13, 14, 15, 16, 12, 11, 10}

	s := BuildSeries("ES", dates, closes, testParams())

	assert.Equal(t, "ES", s.Symbol)
	assert.Equal(t, closes, s.Close)
	assert.Equal(t, market.OrderLong, s.Orders[4])
	// engine stop references are the exit channel
	assert.InDelta(t, 14, s.Support[6], 1e-9)
}
