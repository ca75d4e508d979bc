package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	order_type TEXT NOT NULL,
	open_date DATETIME NOT NULL,
	close_date DATETIME NOT NULL,
	contracts INTEGER NOT NULL,
	risk REAL NOT NULL,
	pnl REAL NOT NULL,
	open INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS portfolio (
	run_id TEXT NOT NULL,
	date DATETIME NOT NULL,
	margin REAL NOT NULL,
	equity REAL NOT NULL,
	watermark REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, open_date);
CREATE INDEX IF NOT EXISTS idx_portfolio_run ON portfolio(run_id, date);
`
