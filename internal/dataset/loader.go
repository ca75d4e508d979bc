// Package dataset reads the input CSVs: per-market price files, the
// contract specification table, and per-currency exchange-rate files.
// Files exported from spreadsheet tools are often UTF-16 with a BOM,
// so every reader sniffs for that and transcodes.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"futsim/currency"
	"futsim/market"
)

// Quotes is one market's raw close series, dates ascending. Files may
// additionally carry pre-computed signal columns (order, resistance,
// support); Orders is nil when they are absent and the signal layer
// must derive them.
type Quotes struct {
	Symbol string
	Dates  []time.Time
	Closes []float64

	Orders     []market.Order
	Resistance []float64
	Support    []float64
}

// HasOrders reports whether the file carried its own order stream.
func (q Quotes) HasOrders() bool { return q.Orders != nil }

// Series assembles the simulation input from the loaded columns.
func (q Quotes) Series() *market.Series {
	s := market.NewSeries(q.Symbol, q.Dates)
	copy(s.Close, q.Closes)
	if q.Orders != nil {
		copy(s.Orders, q.Orders)
	}
	if q.Resistance != nil {
		copy(s.Resistance, q.Resistance)
	}
	if q.Support != nil {
		copy(s.Support, q.Support)
	}
	return s
}

// openCSV opens path as a CSV reader, decoding UTF-16 when a BOM is
// present. The returned closer must be called when done.
func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReader(f)
	if b, _ := br.Peek(2); len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		if _, err := f.Seek(0, 0); err != nil {
			f.Close()
			return nil, nil, err
		}
		tr := transform.NewReader(f, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
		br = bufio.NewReader(tr)
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	return r, f.Close, nil
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return market.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// isHeader reports whether the record looks like a header row: its
// second field is not numeric.
func isHeader(rec []string) bool {
	if len(rec) < 2 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	return err != nil
}

// LoadSpecs reads the contract specification table. Columns:
// symbol, currency, point_value, margin_requirement.
func LoadSpecs(path string) ([]market.Spec, error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return nil, fmt.Errorf("open specs %s: %w", path, err)
	}
	defer closeFn()

	var specs []market.Spec
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read specs %s: %w", path, err)
		}
		if first {
			first = false
			if len(rec) >= 3 && isNonNumeric(rec[2]) {
				continue
			}
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("specs %s: want 4 columns, got %d", path, len(rec))
		}

		pv, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("specs %s: point value for %s: %w", path, rec[0], err)
		}
		margin, err := strconv.ParseFloat(strings.TrimSpace(rec[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("specs %s: margin for %s: %w", path, rec[0], err)
		}

		specs = append(specs, market.Spec{
			Symbol:            strings.TrimSpace(rec[0]),
			Currency:          strings.ToUpper(strings.TrimSpace(rec[1])),
			PointValue:        pv,
			MarginRequirement: margin,
		})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("specs %s: no rows", path)
	}
	return specs, nil
}

func isNonNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err != nil
}

// LoadRates builds a conversion table from a directory of per-currency
// CSVs. Each file is named after its currency code (EUR.csv) and holds
// date,rate rows quoting units of base per one unit of that currency.
func LoadRates(dir, base string) (*currency.Table, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}

	table := currency.NewTable(base)
	for _, path := range paths {
		code := strings.ToUpper(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		if err := loadRateFile(table, code, path); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func loadRateFile(table *currency.Table, code, path string) error {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return fmt.Errorf("open rates %s: %w", path, err)
	}
	defer closeFn()

	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read rates %s: %w", path, err)
		}
		if len(rec) < 2 || isHeader(rec) {
			continue
		}

		date, err := parseDate(rec[0])
		if err != nil {
			return fmt.Errorf("rates %s: %w", path, err)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return fmt.Errorf("rates %s: rate on %s: %w", path, rec[0], err)
		}
		table.Add(code, date, rate)
	}
}

// LoadMarket reads one market's date,close file. Rows outside
// [start, end] are dropped; zero bounds are open-ended. Rows come back
// sorted by date.
func LoadMarket(path, symbol string, start, end time.Time) (Quotes, error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return Quotes{}, fmt.Errorf("open market %s: %w", path, err)
	}
	defer closeFn()

	type row struct {
		date       time.Time
		close      float64
		order      market.Order
		resistance float64
		support    float64
	}
	var rows []row
	var hasOrders, hasLevels bool

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Quotes{}, fmt.Errorf("read market %s: %w", path, err)
		}
		if len(rec) < 2 || isHeader(rec) {
			continue
		}

		date, err := parseDate(rec[0])
		if err != nil {
			return Quotes{}, fmt.Errorf("market %s: %w", path, err)
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}

		c, err := parseFloat(rec[1])
		if err != nil {
			return Quotes{}, fmt.Errorf("market %s: close on %s: %w", path, rec[0], err)
		}
		rw := row{date: date, close: c, resistance: math.NaN(), support: math.NaN()}

		if len(rec) >= 3 {
			rw.order, err = market.ParseOrder(strings.TrimSpace(rec[2]))
			if err != nil {
				return Quotes{}, fmt.Errorf("market %s: %s: %w", path, rec[0], err)
			}
			hasOrders = true
		}
		if len(rec) >= 5 {
			rw.resistance, err = parseFloat(rec[3])
			if err != nil {
				return Quotes{}, fmt.Errorf("market %s: resistance on %s: %w", path, rec[0], err)
			}
			rw.support, err = parseFloat(rec[4])
			if err != nil {
				return Quotes{}, fmt.Errorf("market %s: support on %s: %w", path, rec[0], err)
			}
			hasLevels = true
		}
		rows = append(rows, rw)
	}

	if len(rows) == 0 {
		return Quotes{}, fmt.Errorf("market %s: no rows in range", path)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	q := Quotes{
		Symbol: symbol,
		Dates:  make([]time.Time, len(rows)),
		Closes: make([]float64, len(rows)),
	}
	if hasOrders {
		q.Orders = make([]market.Order, len(rows))
	}
	if hasLevels {
		q.Resistance = make([]float64, len(rows))
		q.Support = make([]float64, len(rows))
	}
	for i, r := range rows {
		q.Dates[i] = r.date
		q.Closes[i] = r.close
		if hasOrders {
			q.Orders[i] = r.order
		}
		if hasLevels {
			q.Resistance[i] = r.resistance
			q.Support[i] = r.support
		}
	}
	return q, nil
}

// LoadMarkets reads every market CSV under dir. When names is
// non-empty only those file stems are loaded; otherwise every *.csv in
// the directory is.
func LoadMarkets(dir string, names []string, start, end time.Time) ([]Quotes, error) {
	var paths []string
	if len(names) > 0 {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name+".csv"))
		}
	} else {
		var err error
		paths, err = filepath.Glob(filepath.Join(dir, "*.csv"))
		if err != nil {
			return nil, err
		}
		sort.Strings(paths)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no market files under %s", dir)
	}

	out := make([]Quotes, 0, len(paths))
	for _, path := range paths {
		symbol := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		q, err := LoadMarket(path, symbol, start, end)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
