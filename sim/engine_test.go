package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futsim/currency"
	"futsim/market"
)

func tradingDates(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 6, 3+i, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func usdSpecs() *market.SpecTable {
	return market.NewSpecTable([]market.Spec{
		{Symbol: "ES", Currency: "USD", PointValue: 50, MarginRequirement: 5000},
		{Symbol: "NKD", Currency: "JPY", PointValue: 500, MarginRequirement: 1_000_000},
	})
}

// Single market, flat start, long for two sessions, flat again. Every
// number below is hand-computed.
func TestRunSingleMarketRoundTrip(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("ES", tradingDates(5))
	copy(s.Close, []float64{100, 102, 101, 103, 104})
	for i := range s.Support {
		s.Support[i] = 95
		s.Resistance[i] = 110
	}
	s.Orders[0] = market.OrderLong // signal on day 1, executed day 2
	s.Orders[2] = market.OrderFlat // signal on day 3, executed day 4

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{
		InitialEquity: 100_000,
		PositionRisk:  0.005,
		Commission:    10, // 20 per contract round trip
	}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	res, err := eng.Run(ds)
	require.NoError(t, err)
	require.Len(t, res.Portfolio, 5)

	// Day 2 entry: equity budget 500, stop distance 102-95=7,
	// ceil(500/350) = 2 contracts, risk 700, commission 40,
	// mark 2*(102-100)*50 = 200.
	wantEquity := []float64{100_000, 100_160, 100_060, 100_060, 100_060}
	wantMargin := []float64{0, 10_000, 10_000, 0, 0}
	wantWatermark := []float64{100_000, 100_000, 100_160, 100_160, 100_160}

	for i, row := range res.Portfolio {
		assert.InDelta(t, wantEquity[i], row.Equity, 1e-9, "equity day %d", i)
		assert.InDelta(t, wantMargin[i], row.Margin, 1e-9, "margin day %d", i)
		assert.InDelta(t, wantWatermark[i], row.Watermark, 1e-9, "watermark day %d", i)
	}

	require.Len(t, res.Trades, 1)
	tr := res.Trades[0]
	assert.Equal(t, "ES", tr.Symbol)
	assert.Equal(t, market.OrderLong, tr.Order)
	assert.Equal(t, ds.Calendar[0], tr.OpenDate)
	assert.Equal(t, ds.Calendar[2], tr.CloseDate)
	assert.Equal(t, 2, tr.Contracts)
	assert.InDelta(t, 700, tr.Risk, 1e-9)
	// accumulated through the closing signal date: +200 then -100
	assert.InDelta(t, 100, tr.PnL, 1e-9)
	assert.False(t, tr.Open)
}

func TestRunCarriesPositionAndRiskForward(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("ES", tradingDates(6))
	copy(s.Close, []float64{100, 101, 99, 103, 102, 105})
	for i := range s.Support {
		s.Support[i] = 95
	}
	s.Orders[0] = market.OrderLong

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{InitialEquity: 1_000_000, PositionRisk: 0.005}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	res, err := eng.Run(ds)
	require.NoError(t, err)

	require.Len(t, res.Trades, 1)
	assert.True(t, res.Trades[0].Open)
	risk := res.Trades[0].Risk
	assert.Greater(t, risk, 0.0)

	// no position changes after entry: margin utilization constant
	for i := 2; i < 6; i++ {
		assert.Equal(t, res.Portfolio[1].Margin, res.Portfolio[i].Margin, "margin day %d", i)
	}
}

func TestRunWatermarkNonDecreasing(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("ES", tradingDates(8))
	copy(s.Close, []float64{100, 105, 95, 110, 90, 112, 108, 111})
	for i := range s.Support {
		s.Support[i] = 90
		s.Resistance[i] = 115
	}
	s.Orders[0] = market.OrderLong
	s.Orders[3] = market.OrderShort
	s.Orders[5] = market.OrderFlat

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{
		InitialEquity: 1_000_000,
		PositionRisk:  0.005,
		Commission:    5,
		Fees:          FeeConfig{Enabled: true, Management: 0.02, Performance: 0.2},
	}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	res, err := eng.Run(ds)
	require.NoError(t, err)

	assert.Equal(t, 1_000_000.0, res.Portfolio[0].Watermark)
	for i := 1; i < len(res.Portfolio); i++ {
		prev := res.Portfolio[i-1]
		row := res.Portfolio[i]
		assert.GreaterOrEqual(t, row.Watermark, prev.Watermark, "day %d", i)
		// watermark never sees same-day equity
		assert.LessOrEqual(t, row.Watermark, maxEquity(res.Portfolio[:i]), "day %d", i)
	}
}

func maxEquity(rows []PortfolioRow) float64 {
	m := rows[0].Equity
	for _, r := range rows {
		if r.Equity > m {
			m = r.Equity
		}
	}
	return m
}

func TestRunFeesReduceEquityDaily(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("ES", tradingDates(3))
	copy(s.Close, []float64{100, 100, 100})

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{
		InitialEquity: 1_000_000,
		PositionRisk:  0.005,
		Fees:          FeeConfig{Enabled: true, Management: 0.02, Performance: 0.2},
	}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	res, err := eng.Run(ds)
	require.NoError(t, err)

	// no fee on the first date
	assert.Equal(t, 1_000_000.0, res.Portfolio[0].Equity)

	// flat all the way: only the management fee drains equity
	day1 := 1_000_000 - round2(1_000_000*0.02/365)
	assert.InDelta(t, day1, res.Portfolio[1].Equity, 1e-9)
	day2 := day1 - round2(day1*0.02/365)
	assert.InDelta(t, day2, res.Portfolio[2].Equity, 1e-9)
}

func TestRunLocalCurrencyConversion(t *testing.T) {
	t.Parallel()

	dates := tradingDates(3)
	s := market.NewSeries("NKD", dates)
	copy(s.Close, []float64{28_000, 28_100, 28_050})
	for i := range s.Support {
		s.Support[i] = 27_000
	}
	s.Orders[0] = market.OrderLong

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	rates := currency.NewTable("USD")
	for _, d := range dates {
		rates.Add("JPY", d, 0.0067)
	}

	eng, err := New(Config{
		InitialEquity: 100_000_000,
		PositionRisk:  0.005,
		LocalCurrency: true,
	}, usdSpecs(), rates, nil)
	require.NoError(t, err)

	res, err := eng.Run(ds)
	require.NoError(t, err)

	// entry day 2: stop distance 28100-27000=1100, point value 500,
	// ceil(500000/550000) = 1 contract; margin 1,000,000 JPY -> USD
	assert.InDelta(t, 1_000_000*0.0067, res.Portfolio[1].Margin, 1e-6)

	// daily change day 2: (28100-28000)*500 = 50,000 JPY -> 335 USD
	assert.InDelta(t, 100_000_000+50_000*0.0067, res.Portfolio[1].Equity, 1e-6)

	// ledger risk stays local currency
	require.Len(t, res.Trades, 1)
	assert.InDelta(t, 550_000, res.Trades[0].Risk, 1e-9)
}

func TestRunMissingRateIsFatal(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("NKD", tradingDates(3))
	copy(s.Close, []float64{28_000, 28_100, 28_050})
	s.Orders[0] = market.OrderLong

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{
		InitialEquity: 100_000_000,
		PositionRisk:  0.005,
		LocalCurrency: true,
	}, usdSpecs(), currency.NewTable("USD"), nil)
	require.NoError(t, err)

	_, err = eng.Run(ds)
	assert.Error(t, err)
}

func TestRunUnknownOrderIsFatal(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("ES", tradingDates(3))
	copy(s.Close, []float64{100, 101, 102})
	s.Orders[0] = market.Order("hold")

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{InitialEquity: 100_000, PositionRisk: 0.005}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	_, err = eng.Run(ds)
	assert.Error(t, err)
}

func TestRunUnknownMarketIsFatal(t *testing.T) {
	t.Parallel()

	s := market.NewSeries("CL", tradingDates(2))
	copy(s.Close, []float64{70, 71})

	ds, err := market.NewDataset(s)
	require.NoError(t, err)

	eng, err := New(Config{InitialEquity: 100_000, PositionRisk: 0.005}, usdSpecs(), nil, nil)
	require.NoError(t, err)

	_, err = eng.Run(ds)
	assert.Error(t, err)
}
