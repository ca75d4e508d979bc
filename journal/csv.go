package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

type CSVJournal struct {
	trades    *csv.Writer
	portfolio *csv.Writer
	tf, pf    *os.File
}

func NewCSV(tradesPath, portfolioPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	pf, err := os.Create(portfolioPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	pw := csv.NewWriter(pf)

	if err := tw.Write([]string{"trade_id", "run_id", "symbol", "order", "open_date", "close_date", "contracts", "risk", "pnl", "open"}); err != nil {
		return nil, err
	}
	if err := pw.Write([]string{"run_id", "date", "margin", "equity", "watermark"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	pw.Flush()
	if err := pw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, pw, tf, pf}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		t.Symbol,
		t.Order,
		t.OpenDate.Format(dateLayout),
		t.CloseDate.Format(dateLayout),
		strconv.Itoa(t.Contracts),
		f(t.Risk),
		f(t.PnL),
		strconv.FormatBool(t.Open),
	})
	if err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquityPoint) error {
	err := j.portfolio.Write([]string{
		e.RunID,
		e.Date.Format(dateLayout),
		f(e.Margin),
		f(e.Equity),
		f(e.Watermark),
	})
	if err != nil {
		return err
	}

	j.portfolio.Flush()
	return j.portfolio.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.portfolio.Flush()
	if err := j.portfolio.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.pf.Close(); err != nil {
		return err
	}
	return nil
}

const dateLayout = "2006-01-02"

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 4, 64)
}
