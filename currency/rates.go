// Package currency resolves point-in-time exchange rates and converts
// local-currency amounts into the portfolio's base currency.
package currency

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"futsim/market"
)

// Mode selects what kind of amount a conversion scales.
type Mode string

const (
	// Margin converts a posted margin amount.
	Margin Mode = "margin"
	// Change converts a daily P&L delta. A delta of exactly zero is
	// passed through without consulting the rate table.
	Change Mode = "change"
)

// Table is a date-indexed rate lookup for every non-base currency.
// Rates are stored rounded to six decimals; holidays leave holes that
// consumers bridge by scanning back up to market.GapWindow days.
type Table struct {
	base  string
	rates map[string]map[time.Time]float64
}

// NewTable builds an empty table. base is the portfolio currency; it is
// never looked up and always converts at 1.
func NewTable(base string) *Table {
	return &Table{base: base, rates: make(map[string]map[time.Time]float64)}
}

func (t *Table) Base() string { return t.base }

// Add records a rate for one currency on one date. The rate is rounded
// to six decimals at insertion so every consumer sees the same value.
func (t *Table) Add(code string, date time.Time, rate float64) {
	m, ok := t.rates[code]
	if !ok {
		m = make(map[time.Time]float64)
		t.rates[code] = m
	}
	m[market.Day(date)] = round6(rate)
}

// Rate resolves the conversion rate for a currency on a date, falling
// back to the most recent prior date within market.GapWindow calendar
// days. The base currency short-circuits to 1.
func (t *Table) Rate(code string, date time.Time) (float64, error) {
	if code == t.base {
		return 1, nil
	}
	m, ok := t.rates[code]
	if !ok {
		return 0, fmt.Errorf("no rates loaded for currency %q", code)
	}
	day := market.Day(date)
	for x := 0; x <= market.GapWindow; x++ {
		if r, ok := m[day.AddDate(0, 0, -x)]; ok {
			return r, nil
		}
	}
	return 0, fmt.Errorf("no %s rate within %d days of %s",
		code, market.GapWindow, day.Format("2006-01-02"))
}

// Convert scales amount from code into the base currency according to
// mode. An unrecognized mode is a broken caller contract.
func (t *Table) Convert(mode Mode, code string, date time.Time, amount float64) (float64, error) {
	switch mode {
	case Margin:
		if code == t.base {
			return amount, nil
		}
		rate, err := t.Rate(code, date)
		if err != nil {
			return 0, fmt.Errorf("convert margin: %w", err)
		}
		return amount * rate, nil

	case Change:
		if code == t.base || amount == 0 {
			return amount, nil
		}
		rate, err := t.Rate(code, date)
		if err != nil {
			return 0, fmt.Errorf("convert change: %w", err)
		}
		return amount * rate, nil

	default:
		return 0, fmt.Errorf("unknown conversion mode %q", mode)
	}
}

func round6(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(6).Float64()
	return f
}
