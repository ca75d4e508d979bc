package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(days ...int) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestScanBack(t *testing.T) {
	t.Parallel()

	present := func(vals []bool) func(int) bool {
		return func(i int) bool { return vals[i] }
	}

	tests := []struct {
		name    string
		vals    []bool
		idx     int
		maxBack int
		want    int
		ok      bool
	}{
		{"hit at index", []bool{false, true}, 1, 9, 1, true},
		{"hit behind", []bool{true, false, false}, 2, 9, 0, true},
		{"window exhausted", []bool{true, false, false}, 2, 1, 0, false},
		{"clamped at zero", []bool{false, false}, 1, 9, 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ScanBack(tt.idx, tt.maxBack, present(tt.vals))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSeriesPrevCloseSkipsGaps(t *testing.T) {
	t.Parallel()

	s := NewSeries("NKD", dates(1, 2, 3, 4, 5, 6))
	s.Close[0] = 100
	s.Close[1] = 101
	// indices 2-4 are a market holiday run
	s.Close[5] = 104

	prev, ok := s.PrevClose(5)
	assert.True(t, ok)
	assert.Equal(t, 101.0, prev)

	_, ok = s.PrevClose(0)
	assert.False(t, ok)
}

func TestSeriesPositionPoints(t *testing.T) {
	t.Parallel()

	s := NewSeries("ES", dates(1, 2, 3))
	s.Close[0] = 100
	s.Support[0] = 95
	s.Resistance[0] = 110

	// today has no quote, points come from the last valid row
	close, support, resistance, err := s.PositionPoints(2)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, close)
	assert.Equal(t, 95.0, support)
	assert.Equal(t, 110.0, resistance)
}

func TestSeriesPositionPointsExhausted(t *testing.T) {
	t.Parallel()

	s := NewSeries("ES", dates(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))
	s.Close[0] = 100

	// index 11 is 11 rows past the only close, outside the window
	_, _, _, err := s.PositionPoints(11)
	assert.Error(t, err)
}

func TestNewDatasetUnionCalendar(t *testing.T) {
	t.Parallel()

	a := NewSeries("ES", dates(1, 2, 4))
	a.Close[0], a.Close[1], a.Close[2] = 100, 101, 102
	a.Orders[1] = OrderLong

	b := NewSeries("NKD", dates(2, 3, 4))
	b.Close[0], b.Close[1], b.Close[2] = 28000, 28100, 28200

	ds, err := NewDataset(a, b)
	require.NoError(t, err)

	assert.Equal(t, dates(1, 2, 3, 4), ds.Calendar)
	require.Len(t, ds.Markets, 2)

	es := ds.Markets[0]
	assert.Equal(t, 101.0, es.Close[1])
	assert.False(t, Defined(es.Close[2])) // ES did not trade Jan 3
	assert.Equal(t, OrderLong, es.Orders[1])

	nkd := ds.Markets[1]
	assert.False(t, Defined(nkd.Close[0]))
	assert.Equal(t, 28100.0, nkd.Close[2])

	i, ok := ds.DateIndex(time.Date(2024, 1, 3, 15, 4, 5, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestParseOrder(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Order{
		"long": OrderLong, "short": OrderShort, "flat": OrderFlat, "": OrderNone, "nan": OrderNone,
	} {
		got, err := ParseOrder(raw)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseOrder("hold")
	assert.Error(t, err)
}
