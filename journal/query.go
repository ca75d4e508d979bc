package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetTrade returns a single ledger row by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	var rec TradeRecord

	row := j.db.QueryRow(`
		SELECT trade_id, run_id, symbol, order_type, open_date, close_date, contracts, risk, pnl, open
		FROM trades
		WHERE trade_id = ?`, tradeID)

	err := row.Scan(
		&rec.TradeID,
		&rec.RunID,
		&rec.Symbol,
		&rec.Order,
		&rec.OpenDate,
		&rec.CloseDate,
		&rec.Contracts,
		&rec.Risk,
		&rec.PnL,
		&rec.Open,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesByRun returns a run's full ledger ordered by open date.
func (j *SQLite) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, order_type, open_date, close_date, contracts, risk, pnl, open
		FROM trades
		WHERE run_id = ?
		ORDER BY open_date ASC, symbol ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.RunID,
			&rec.Symbol,
			&rec.Order,
			&rec.OpenDate,
			&rec.CloseDate,
			&rec.Contracts,
			&rec.Risk,
			&rec.PnL,
			&rec.Open,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesClosedBetween returns completed trades whose close date
// falls in [start, end), across all runs, ordered by close date.
func (j *SQLite) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, order_type, open_date, close_date, contracts, risk, pnl, open
		FROM trades
		WHERE open = 0 AND close_date >= ? AND close_date < ?
		ORDER BY close_date ASC, symbol ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.TradeID,
			&rec.RunID,
			&rec.Symbol,
			&rec.Order,
			&rec.OpenDate,
			&rec.CloseDate,
			&rec.Contracts,
			&rec.Risk,
			&rec.PnL,
			&rec.Open,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's portfolio curve ordered by date.
func (j *SQLite) ListEquityByRun(runID string) ([]EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, margin, equity, watermark
		FROM portfolio
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var rec EquityPoint
		if err := rows.Scan(&rec.RunID, &rec.Date, &rec.Margin, &rec.Equity, &rec.Watermark); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRuns returns the distinct run IDs present, newest first. Run IDs
// are ULIDs, so lexicographic order is creation order.
func (j *SQLite) ListRuns() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT run_id FROM portfolio ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
