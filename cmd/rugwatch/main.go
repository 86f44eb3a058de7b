package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"rugwatch/internal/buffer"
	"rugwatch/internal/config"
	"rugwatch/internal/feed"
	"rugwatch/internal/model"
	"rugwatch/internal/store"
	"rugwatch/internal/util"
	"rugwatch/internal/view"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file.
	logPath := cfg.Logging.File
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(cfg.Recorder.DataDir, logPath)
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating log dir: %v\n", err)
		os.Exit(1)
	}
	logFile, err := util.OpenLogFile(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(logFile, cfg.Logging.Level)
	util.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		fmt.Fprintf(os.Stderr, "rugwatch: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	trades := buffer.New[model.TradeEvent](feed.TradeBufferCap)
	prices := buffer.New[model.PriceUpdateEvent](feed.PriceBufferCap)
	commands := feed.NewCommandChannel()

	st := view.NewState(trades, prices)
	m := newTUIModel(st, commands, cfg.UI.TickMillis, logger)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// The connector runs for the process's lifetime. Any failure is fatal to
	// it alone: the UI keeps serving whatever is buffered.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		conn := feed.NewConnector(cfg.Feed.Endpoint, trades, prices, commands, logger)
		if err := conn.Dial(ctx); err != nil {
			logger.Error("feed connect failed", "error", err)
			p.Send(feedDownMsg{err: err})
			return
		}
		if err := conn.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("feed terminated", "error", err)
			p.Send(feedDownMsg{err: err})
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}

	// Shutdown: stop the connector, then record the session if configured.
	cancel()
	return recordSession(cfg.Recorder, trades, prices, logger)
}

// recordSession snapshots both buffers into the configured recorder.
func recordSession(cfg config.Recorder, trades *buffer.Ring[model.TradeEvent], prices *buffer.Ring[model.PriceUpdateEvent], logger *slog.Logger) error {
	rec, err := store.New(cfg.Backend, cfg.DataDir)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}
	defer rec.Close()

	if err := rec.RecordTrades(trades.Snapshot()); err != nil {
		return fmt.Errorf("recording trades: %w", err)
	}
	if err := rec.RecordPriceUpdates(prices.Snapshot()); err != nil {
		return fmt.Errorf("recording price updates: %w", err)
	}
	logger.Info("session recorded", "backend", cfg.Backend,
		"trades", trades.Len(), "price_updates", prices.Len())
	return nil
}
