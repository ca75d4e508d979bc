package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"futsim/market"
	"futsim/sim"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func sampleResult() *sim.Result {
	return &sim.Result{
		Portfolio: []sim.PortfolioRow{
			{Date: day(3), Margin: 0, Equity: 100000, Watermark: 100000},
			{Date: day(4), Margin: 10000, Equity: 104000, Watermark: 100000},
			{Date: day(5), Margin: 10000, Equity: 98800, Watermark: 104000},
			{Date: day(6), Margin: 0, Equity: 101000, Watermark: 104000},
		},
		Trades: []sim.TradeEntry{
			{Symbol: "ES", Order: market.OrderLong, OpenDate: day(3), CloseDate: day(5), Contracts: 2, Risk: 1000, PnL: 4000},
			{Symbol: "GC", Order: market.OrderShort, OpenDate: day(4), CloseDate: day(6), Contracts: -1, Risk: 500, PnL: -1000},
			{Symbol: "CL", Order: market.OrderLong, OpenDate: day(5), CloseDate: day(6), Contracts: 3, Risk: 2000, PnL: 3000},
			{Symbol: "NG", Order: market.OrderShort, OpenDate: day(6), CloseDate: day(6), Contracts: -2, Risk: 800, PnL: 0, Open: true},
		},
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize("R1", sampleResult())

	assert.Equal(t, "R1", s.RunID)
	assert.True(t, s.Start.Equal(day(3)))
	assert.True(t, s.End.Equal(day(6)))

	assert.Equal(t, 3, s.Trades)
	assert.Equal(t, 1, s.OpenTrades)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 2.0/3.0, s.WinRate, 1e-9)
	assert.InDelta(t, 1.0, s.LongWinRate, 1e-9)
	assert.InDelta(t, 0.0, s.ShortWinRate, 1e-9)

	// grossWin 7000 / grossLoss 1000
	assert.InDelta(t, 7.0, s.ProfitFactor, 1e-9)
	assert.InDelta(t, 2000, s.AvgPnL, 1e-9)
	assert.InDelta(t, 3000, s.MedianPnL, 1e-9)

	// R multiples: 4, -2, 1.5
	assert.InDelta(t, 3.5/3.0, s.AvgRMultiple, 1e-9)

	// holding days: 2 + 2 + 1
	assert.InDelta(t, 5.0/3.0, s.AvgHoldingDays, 1e-9)

	assert.InDelta(t, 100000, s.StartEquity, 1e-9)
	assert.InDelta(t, 101000, s.EndEquity, 1e-9)
	assert.InDelta(t, 1000, s.NetPL, 1e-9)
	assert.InDelta(t, 1.0, s.ReturnPct, 1e-9)

	// peak 104000, trough 98800
	assert.InDelta(t, 5200.0/104000.0*100, s.MaxDrawdownPct, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	s := Summarize("R1", &sim.Result{})

	assert.Equal(t, 0, s.Trades)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.ProfitFactor)
	assert.Equal(t, 0.0, s.MaxDrawdownPct)
	assert.Equal(t, 0.0, s.NetPL)
}

func TestPrint(t *testing.T) {
	t.Parallel()

	s := Summarize("R1", sampleResult())

	var buf bytes.Buffer
	Print(&buf, s)
	out := buf.String()

	assert.Contains(t, out, "Run ID:         R1")
	assert.Contains(t, out, "Trades:         3")
	assert.Contains(t, out, "Still Open:     1")
	assert.Contains(t, out, "Win Rate:       66.67%")
	assert.Contains(t, out, "Profit Factor:  7.00")
	assert.Contains(t, out, "Net P/L:        1000.00")
	assert.Contains(t, out, "Return:         1.00%")
	assert.Contains(t, out, "Max Drawdown:   5.00%")
}
