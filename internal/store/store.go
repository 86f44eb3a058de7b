// Package store records a dashboard session's buffered events for post-hoc
// analysis. Recording is one-way: the dashboard never reads anything back,
// so a restart always begins empty.
package store

import (
	"fmt"

	"rugwatch/internal/model"
)

// Recorder persists the events captured during a session.
type Recorder interface {
	// RecordTrades persists the given trade events.
	RecordTrades(trades []model.TradeEvent) error

	// RecordPriceUpdates persists the given price-update events.
	RecordPriceUpdates(updates []model.PriceUpdateEvent) error

	// Close releases any underlying resources.
	Close() error
}

// New creates the recorder selected by backend ("off", "parquet", or
// "sqlite"). For "off" it returns (nil, nil).
func New(backend, dataDir string) (Recorder, error) {
	switch backend {
	case "", "off":
		return nil, nil
	case "parquet":
		return NewParquetRecorder(dataDir)
	case "sqlite":
		return NewSQLiteRecorder(dataDir)
	default:
		return nil, fmt.Errorf("store: unknown recorder backend %q", backend)
	}
}
