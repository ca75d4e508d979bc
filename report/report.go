// Package report computes trade and equity statistics for a finished
// simulation and renders them as a plain-text summary.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"futsim/market"
	"futsim/sim"
)

// Summary holds the aggregate statistics of one run. Trade statistics
// cover completed trades only. Positions still open when the run ends
// are counted separately and excluded from win/loss math.
type Summary struct {
	RunID string
	Start time.Time
	End   time.Time

	Trades     int
	OpenTrades int
	Wins       int
	Losses     int

	WinRate      float64 // fraction of completed trades with positive P&L
	LongWinRate  float64
	ShortWinRate float64
	ProfitFactor float64

	AvgPnL         float64
	MedianPnL      float64
	AvgRMultiple   float64
	AvgHoldingDays float64

	StartEquity    float64
	EndEquity      float64
	NetPL          float64
	ReturnPct      float64
	MaxDrawdownPct float64
}

// Summarize reduces a simulation result to a Summary.
func Summarize(runID string, res *sim.Result) Summary {
	s := Summary{RunID: runID}

	if n := len(res.Portfolio); n > 0 {
		s.Start = res.Portfolio[0].Date
		s.End = res.Portfolio[n-1].Date
		s.StartEquity = res.Portfolio[0].Equity
		s.EndEquity = res.Portfolio[n-1].Equity
		s.NetPL = s.EndEquity - s.StartEquity
		if s.StartEquity != 0 {
			s.ReturnPct = s.NetPL / s.StartEquity * 100
		}
		s.MaxDrawdownPct = maxDrawdownPct(res.Portfolio)
	}

	var (
		pnls       []float64
		grossWin   float64
		grossLoss  float64
		longs      int
		longWins   int
		shorts     int
		shortWins  int
		rSum       float64
		rCount     int
		holdingSum float64
	)

	for _, tr := range res.Trades {
		if tr.Open {
			s.OpenTrades++
			continue
		}

		s.Trades++
		pnls = append(pnls, tr.PnL)
		holdingSum += tr.CloseDate.Sub(tr.OpenDate).Hours() / 24

		switch {
		case tr.PnL > 0:
			s.Wins++
			grossWin += tr.PnL
		case tr.PnL < 0:
			s.Losses++
			grossLoss += -tr.PnL
		}

		switch tr.Order {
		case market.OrderLong:
			longs++
			if tr.PnL > 0 {
				longWins++
			}
		case market.OrderShort:
			shorts++
			if tr.PnL > 0 {
				shortWins++
			}
		}

		if tr.Risk > 0 {
			rSum += tr.PnL / tr.Risk
			rCount++
		}
	}

	if s.Trades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Trades)
		s.AvgPnL = sum(pnls) / float64(s.Trades)
		s.MedianPnL = median(pnls)
		s.AvgHoldingDays = holdingSum / float64(s.Trades)
	}
	if longs > 0 {
		s.LongWinRate = float64(longWins) / float64(longs)
	}
	if shorts > 0 {
		s.ShortWinRate = float64(shortWins) / float64(shorts)
	}
	if grossLoss > 0 {
		s.ProfitFactor = grossWin / grossLoss
	}
	if rCount > 0 {
		s.AvgRMultiple = rSum / float64(rCount)
	}

	return s
}

// maxDrawdownPct returns the largest peak-to-trough equity decline as
// a percentage of the peak.
func maxDrawdownPct(curve []sim.PortfolioRow) float64 {
	var peak, maxDD float64
	for _, row := range curve {
		if row.Equity > peak {
			peak = row.Equity
		}
		if peak > 0 {
			dd := (peak - row.Equity) / peak * 100
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Print renders a Summary as the text block shown after a run.
func Print(w io.Writer, s Summary) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Simulation Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:         %s\n", s.RunID)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:          %s\n", s.Start.Format("2006-01-02"))
	fmt.Fprintf(w, "End:            %s\n", s.End.Format("2006-01-02"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:         %d\n", s.Trades)
	if s.OpenTrades > 0 {
		fmt.Fprintf(w, "Still Open:     %d\n", s.OpenTrades)
	}
	fmt.Fprintf(w, "Wins:           %d\n", s.Wins)
	fmt.Fprintf(w, "Losses:         %d\n", s.Losses)
	fmt.Fprintf(w, "Win Rate:       %.2f%%\n", s.WinRate*100)
	fmt.Fprintf(w, "Long Win Rate:  %.2f%%\n", s.LongWinRate*100)
	fmt.Fprintf(w, "Short Win Rate: %.2f%%\n", s.ShortWinRate*100)
	if s.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor:  %.2f\n", s.ProfitFactor)
	}
	if s.Trades > 0 {
		fmt.Fprintf(w, "Avg P&L:        %.2f\n", s.AvgPnL)
		fmt.Fprintf(w, "Median P&L:     %.2f\n", s.MedianPnL)
		fmt.Fprintf(w, "Avg R Multiple: %.2f\n", s.AvgRMultiple)
		fmt.Fprintf(w, "Avg Hold Days:  %.1f\n", s.AvgHoldingDays)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Equity:   %.2f\n", s.StartEquity)
	fmt.Fprintf(w, "End Equity:     %.2f\n", s.EndEquity)
	fmt.Fprintf(w, "Net P/L:        %.2f\n", s.NetPL)
	fmt.Fprintf(w, "Return:         %.2f%%\n", s.ReturnPct)
	if s.MaxDrawdownPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:   %.2f%%\n", s.MaxDrawdownPct)
	}

	fmt.Fprintln(w)
}
