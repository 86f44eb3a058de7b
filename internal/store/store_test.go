package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"rugwatch/internal/model"
)

func sampleTrades() []model.TradeEvent {
	return []model.TradeEvent{
		{
			MsgType: model.ChannelAllTrades,
			Data: model.TradeData{
				TradeType: "BUY", Username: "alice", UserID: "u1",
				CoinSymbol: "BTC", CoinName: "Bitcoin",
				Amount: 1.5, TotalValue: 150, Price: 100,
				Timestamp: 1700000000000,
			},
			ReceivedAt: time.UnixMilli(1700000001000),
		},
		{
			MsgType: model.ChannelLiveTrade,
			Data: model.TradeData{
				TradeType: "SELL", Username: "bob", UserID: "u2",
				CoinSymbol: "ETH", CoinName: "Ethereum",
				Amount: 10, TotalValue: 50, Price: 5,
				Timestamp: 1700000002000,
			},
			ReceivedAt: time.UnixMilli(1700000003000),
		},
	}
}

func samplePriceUpdates() []model.PriceUpdateEvent {
	return []model.PriceUpdateEvent{
		{
			CoinSymbol: "BTC", CurrentPrice: 100.5, MarketCap: 1e6,
			Change24h: 2.5, Volume24h: 5e4, PoolCoinAmount: 10,
			PoolBaseCurrencyAmount: 1005, ReceivedAt: time.UnixMilli(1700000004000),
		},
	}
}

func TestNewRecorderSelection(t *testing.T) {
	r, err := New("off", t.TempDir())
	if err != nil || r != nil {
		t.Errorf("New(off) = %v, %v, want nil, nil", r, err)
	}
	if _, err := New("bogus", t.TempDir()); err == nil {
		t.Error("New(bogus) error = nil, want error")
	}
}

func TestParquetRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r, err := NewParquetRecorder(dir)
	if err != nil {
		t.Fatalf("NewParquetRecorder() error: %v", err)
	}
	defer r.Close()

	if err := r.RecordTrades(sampleTrades()); err != nil {
		t.Fatalf("RecordTrades() error: %v", err)
	}
	if err := r.RecordPriceUpdates(samplePriceUpdates()); err != nil {
		t.Fatalf("RecordPriceUpdates() error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatalf("reading session dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("session dir has %d files, want 2", len(entries))
	}

	var tradesPath string
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".parquet" {
			t.Errorf("unexpected file %s", e.Name())
		}
		if strings.HasSuffix(e.Name(), "-trades.parquet") {
			tradesPath = filepath.Join(dir, "sessions", e.Name())
		}
	}
	if tradesPath == "" {
		t.Fatal("trades parquet file not found")
	}

	rows, err := parquet.ReadFile[tradeRow](tradesPath)
	if err != nil {
		t.Fatalf("reading trades parquet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("trades parquet has %d rows, want 2", len(rows))
	}
	if rows[0].Username != "alice" || rows[0].Channel != model.ChannelAllTrades {
		t.Errorf("row[0] = %q/%q, want alice/all-trades", rows[0].Username, rows[0].Channel)
	}
	if rows[1].ReceivedAt != 1700000003000 {
		t.Errorf("row[1].ReceivedAt = %d, want 1700000003000", rows[1].ReceivedAt)
	}
}

func TestParquetRecorderEmpty(t *testing.T) {
	dir := t.TempDir()
	r, err := NewParquetRecorder(dir)
	if err != nil {
		t.Fatalf("NewParquetRecorder() error: %v", err)
	}
	if err := r.RecordTrades(nil); err != nil {
		t.Errorf("RecordTrades(nil) error: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Join(dir, "sessions"))
	if len(entries) != 0 {
		t.Errorf("empty record produced %d files, want 0", len(entries))
	}
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	r, err := NewSQLiteRecorder(dir)
	if err != nil {
		t.Fatalf("NewSQLiteRecorder() error: %v", err)
	}
	defer r.Close()

	if err := r.RecordTrades(sampleTrades()); err != nil {
		t.Fatalf("RecordTrades() error: %v", err)
	}
	if err := r.RecordPriceUpdates(samplePriceUpdates()); err != nil {
		t.Fatalf("RecordPriceUpdates() error: %v", err)
	}

	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&n); err != nil {
		t.Fatalf("counting trades: %v", err)
	}
	if n != 2 {
		t.Errorf("trades count = %d, want 2", n)
	}

	var symbol string
	var price float64
	if err := r.db.QueryRow(
		"SELECT coin_symbol, current_price FROM price_updates").Scan(&symbol, &price); err != nil {
		t.Fatalf("reading price update: %v", err)
	}
	if symbol != "BTC" || price != 100.5 {
		t.Errorf("price update = %q/%v, want BTC/100.5", symbol, price)
	}

	// A second session appends to the same tables.
	r2, err := NewSQLiteRecorder(dir)
	if err != nil {
		t.Fatalf("reopening recorder: %v", err)
	}
	defer r2.Close()
	if err := r2.RecordTrades(sampleTrades()[:1]); err != nil {
		t.Fatalf("RecordTrades() on reopen: %v", err)
	}
	if err := r2.db.QueryRow("SELECT COUNT(*) FROM trades").Scan(&n); err != nil {
		t.Fatalf("counting trades: %v", err)
	}
	if n != 3 {
		t.Errorf("trades count after second session = %d, want 3", n)
	}
}
