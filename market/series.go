package market

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Undefined is the no-value marker for price fields. Structural levels
// are undefined until their rolling window warms up, and closes are
// undefined on dates a market did not trade.
var Undefined = math.NaN()

// Defined reports whether a price field carries a value.
func Defined(x float64) bool { return !math.IsNaN(x) }

// Day truncates a timestamp to a UTC calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Series is one market's time-indexed simulation input: close prices,
// trailing structural levels used as stop references, and the order
// stream produced by the signal layer. All slices share the Dates
// index; undefined entries hold Undefined (or OrderNone).
type Series struct {
	Symbol string
	Dates  []time.Time

	Close      []float64
	Resistance []float64
	Support    []float64
	Orders     []Order
}

// NewSeries allocates a series of n dates with every field undefined.
func NewSeries(symbol string, dates []time.Time) *Series {
	n := len(dates)
	s := &Series{
		Symbol:     symbol,
		Dates:      dates,
		Close:      make([]float64, n),
		Resistance: make([]float64, n),
		Support:    make([]float64, n),
		Orders:     make([]Order, n),
	}
	for i := 0; i < n; i++ {
		s.Close[i] = Undefined
		s.Resistance[i] = Undefined
		s.Support[i] = Undefined
	}
	return s
}

// PositionPoints returns the close, support and resistance from the
// most recent date at or before i with a defined close, scanning back
// at most GapWindow dates. Exhausting the window means the dataset is
// broken around i, which is fatal for sizing.
func (s *Series) PositionPoints(i int) (close, support, resistance float64, err error) {
	j, ok := ScanBack(i, GapWindow, func(k int) bool { return Defined(s.Close[k]) })
	if !ok {
		return 0, 0, 0, fmt.Errorf("%s: no close within %d dates of %s",
			s.Symbol, GapWindow, s.Dates[i].Format("2006-01-02"))
	}
	return s.Close[j], s.Support[j], s.Resistance[j], nil
}

// PrevClose returns the most recent defined close strictly before i,
// scanning back at most GapWindow dates.
func (s *Series) PrevClose(i int) (float64, bool) {
	j, ok := ScanBack(i-1, GapWindow-1, func(k int) bool { return Defined(s.Close[k]) })
	if !ok {
		return 0, false
	}
	return s.Close[j], true
}

// Dataset is the merged multi-market input: every series realigned to
// the union calendar of all markets, ascending by date.
type Dataset struct {
	Calendar []time.Time
	Markets  []*Series

	index map[time.Time]int
}

// NewDataset merges per-market series onto their union calendar. Dates
// a market did not trade become undefined rows for that market.
func NewDataset(series ...*Series) (*Dataset, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("dataset: no market series")
	}

	seen := make(map[time.Time]struct{})
	var calendar []time.Time
	for _, s := range series {
		if len(s.Dates) != len(s.Close) || len(s.Dates) != len(s.Orders) {
			return nil, fmt.Errorf("dataset: %s: misaligned series", s.Symbol)
		}
		for _, d := range s.Dates {
			d = Day(d)
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				calendar = append(calendar, d)
			}
		}
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Before(calendar[j]) })

	index := make(map[time.Time]int, len(calendar))
	for i, d := range calendar {
		index[d] = i
	}

	markets := make([]*Series, 0, len(series))
	for _, s := range series {
		aligned := NewSeries(s.Symbol, calendar)
		for i, d := range s.Dates {
			j := index[Day(d)]
			aligned.Close[j] = s.Close[i]
			aligned.Resistance[j] = s.Resistance[i]
			aligned.Support[j] = s.Support[i]
			aligned.Orders[j] = s.Orders[i]
		}
		markets = append(markets, aligned)
	}

	return &Dataset{Calendar: calendar, Markets: markets, index: index}, nil
}

// DateIndex returns the calendar row for a date, if present.
func (d *Dataset) DateIndex(t time.Time) (int, bool) {
	i, ok := d.index[Day(t)]
	return i, ok
}

// Len returns the number of simulated dates.
func (d *Dataset) Len() int { return len(d.Calendar) }
