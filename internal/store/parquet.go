package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"rugwatch/internal/model"
)

// Compile-time interface check.
var _ Recorder = (*ParquetRecorder)(nil)

// ParquetRecorder writes one trades file and one price-updates file per
// session under <dataDir>/sessions/.
type ParquetRecorder struct {
	dir     string
	session string // timestamp prefix shared by both files
}

// NewParquetRecorder creates the session directory and a recorder whose
// files are stamped with the current time.
func NewParquetRecorder(dataDir string) (*ParquetRecorder, error) {
	dir := filepath.Join(dataDir, "sessions")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating session dir: %w", err)
	}
	return &ParquetRecorder{
		dir:     dir,
		session: time.Now().Format("20060102-150405"),
	}, nil
}

// ---------------------------------------------------------------------------
// Parquet record types (on-disk schema)
// ---------------------------------------------------------------------------

// tradeRow is the Parquet schema for a recorded trade event.
type tradeRow struct {
	Channel    string  `parquet:"channel"`
	TradeType  string  `parquet:"trade_type"`
	Username   string  `parquet:"username"`
	UserID     string  `parquet:"user_id"`
	CoinSymbol string  `parquet:"coin_symbol"`
	CoinName   string  `parquet:"coin_name"`
	Amount     float64 `parquet:"amount"`
	TotalValue float64 `parquet:"total_value"`
	Price      float64 `parquet:"price"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // origin, Unix ms
	ReceivedAt int64   `parquet:"received_at,timestamp(millisecond)"`
}

// priceRow is the Parquet schema for a recorded price update.
type priceRow struct {
	CoinSymbol             string  `parquet:"coin_symbol"`
	CurrentPrice           float64 `parquet:"current_price"`
	MarketCap              float64 `parquet:"market_cap"`
	Change24h              float64 `parquet:"change_24h"`
	Volume24h              float64 `parquet:"volume_24h"`
	PoolCoinAmount         float64 `parquet:"pool_coin_amount"`
	PoolBaseCurrencyAmount float64 `parquet:"pool_base_currency_amount"`
	ReceivedAt             int64   `parquet:"received_at,timestamp(millisecond)"`
}

// RecordTrades writes the trades to this session's trades file.
func (r *ParquetRecorder) RecordTrades(trades []model.TradeEvent) error {
	if len(trades) == 0 {
		return nil
	}
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, tradeRow{
			Channel:    t.MsgType,
			TradeType:  t.Data.TradeType,
			Username:   t.Data.Username,
			UserID:     t.Data.UserID,
			CoinSymbol: t.Data.CoinSymbol,
			CoinName:   t.Data.CoinName,
			Amount:     t.Data.Amount,
			TotalValue: t.Data.TotalValue,
			Price:      t.Data.Price,
			Timestamp:  t.Data.Timestamp,
			ReceivedAt: t.ReceivedAt.UnixMilli(),
		})
	}
	path := filepath.Join(r.dir, r.session+"-trades.parquet")
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// RecordPriceUpdates writes the price updates to this session's prices file.
func (r *ParquetRecorder) RecordPriceUpdates(updates []model.PriceUpdateEvent) error {
	if len(updates) == 0 {
		return nil
	}
	rows := make([]priceRow, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, priceRow{
			CoinSymbol:             u.CoinSymbol,
			CurrentPrice:           u.CurrentPrice,
			MarketCap:              u.MarketCap,
			Change24h:              u.Change24h,
			Volume24h:              u.Volume24h,
			PoolCoinAmount:         u.PoolCoinAmount,
			PoolBaseCurrencyAmount: u.PoolBaseCurrencyAmount,
			ReceivedAt:             u.ReceivedAt.UnixMilli(),
		})
	}
	path := filepath.Join(r.dir, r.session+"-prices.parquet")
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; files are finalized by each write.
func (r *ParquetRecorder) Close() error {
	return nil
}
