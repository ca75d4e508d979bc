package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, order_type, open_date, close_date, contracts, risk, pnl, open)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Order,
		t.OpenDate, t.CloseDate, t.Contracts, t.Risk, t.PnL, t.Open,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO portfolio
		(run_id, date, margin, equity, watermark)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Date, e.Margin, e.Equity, e.Watermark,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
