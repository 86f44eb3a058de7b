package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"rugwatch/internal/model"
)

// Compile-time interface check.
var _ Recorder = (*SQLiteRecorder)(nil)

// SQLiteRecorder appends session events to a SQLite database at
// <dataDir>/rugwatch.db. Sessions accumulate in the same tables.
type SQLiteRecorder struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	channel      TEXT NOT NULL,
	trade_type   TEXT NOT NULL,
	username     TEXT NOT NULL,
	user_id      TEXT NOT NULL,
	coin_symbol  TEXT NOT NULL,
	coin_name    TEXT NOT NULL,
	amount       REAL NOT NULL,
	total_value  REAL NOT NULL,
	price        REAL NOT NULL,
	timestamp    INTEGER NOT NULL,
	received_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS price_updates (
	coin_symbol                TEXT NOT NULL,
	current_price              REAL NOT NULL,
	market_cap                 REAL NOT NULL,
	change_24h                 REAL NOT NULL,
	volume_24h                 REAL NOT NULL,
	pool_coin_amount           REAL NOT NULL,
	pool_base_currency_amount  REAL NOT NULL,
	received_at                INTEGER NOT NULL
);
`

// NewSQLiteRecorder opens (or creates) the database and ensures the schema
// exists.
func NewSQLiteRecorder(dataDir string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "rugwatch.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRecorder{db: db}, nil
}

// RecordTrades inserts the trades in a single transaction.
func (r *SQLiteRecorder) RecordTrades(trades []model.TradeEvent) error {
	if len(trades) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO trades
		(channel, trade_type, username, user_id, coin_symbol, coin_name,
		 amount, total_value, price, timestamp, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.Exec(
			t.MsgType, t.Data.TradeType, t.Data.Username, t.Data.UserID,
			t.Data.CoinSymbol, t.Data.CoinName, t.Data.Amount,
			t.Data.TotalValue, t.Data.Price, t.Data.Timestamp,
			t.ReceivedAt.UnixMilli(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting trade: %w", err)
		}
	}
	return tx.Commit()
}

// RecordPriceUpdates inserts the price updates in a single transaction.
func (r *SQLiteRecorder) RecordPriceUpdates(updates []model.PriceUpdateEvent) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO price_updates
		(coin_symbol, current_price, market_cap, change_24h, volume_24h,
		 pool_coin_amount, pool_base_currency_amount, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.Exec(
			u.CoinSymbol, u.CurrentPrice, u.MarketCap, u.Change24h,
			u.Volume24h, u.PoolCoinAmount, u.PoolBaseCurrencyAmount,
			u.ReceivedAt.UnixMilli(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("inserting price update: %w", err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
