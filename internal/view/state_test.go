package view

import (
	"testing"
	"time"

	"rugwatch/internal/buffer"
	"rugwatch/internal/model"
)

func newTestState(tradeCap, priceCap int) (*State, *buffer.Ring[model.TradeEvent], *buffer.Ring[model.PriceUpdateEvent]) {
	trades := buffer.New[model.TradeEvent](tradeCap)
	prices := buffer.New[model.PriceUpdateEvent](priceCap)
	return NewState(trades, prices), trades, prices
}

func trade(msgType, symbol, username string) model.TradeEvent {
	return model.TradeEvent{
		MsgType: msgType,
		Data: model.TradeData{
			TradeType:  "BUY",
			Username:   username,
			CoinSymbol: symbol,
		},
		ReceivedAt: time.Now(),
	}
}

func priceUpdate(symbol string, price float64) model.PriceUpdateEvent {
	return model.PriceUpdateEvent{CoinSymbol: symbol, CurrentPrice: price, ReceivedAt: time.Now()}
}

func TestFilteredTradesConjunction(t *testing.T) {
	s, trades, _ := newTestState(10, 10)
	trades.Push(trade(model.ChannelAllTrades, "BTC", "alice"))
	trades.Push(trade(model.ChannelAllTrades, "ETH", "bob"))
	trades.Push(trade(model.ChannelLiveTrade, "BTC", "alice"))
	trades.Push(trade(model.ChannelAllTrades, "BTC", "carol"))

	// Default filter: All, no text filters → both all-trades with any symbol.
	if got := s.FilteredTrades(); len(got) != 3 {
		t.Fatalf("FilteredTrades() len = %d, want 3", len(got))
	}

	// Coin and trader filters are conjunctive with the type filter.
	s.coinFilter = "btc"
	s.traderFilter = "alice"
	got := s.FilteredTrades()
	if len(got) != 1 {
		t.Fatalf("FilteredTrades() len = %d, want 1", len(got))
	}
	if got[0].Data.Username != "alice" || got[0].MsgType != model.ChannelAllTrades {
		t.Errorf("FilteredTrades()[0] = %q/%q, want alice/all-trades", got[0].Data.Username, got[0].MsgType)
	}

	// Large filter selects the live-trade channel.
	s.tradeFilter = model.FilterLarge
	s.traderFilter = ""
	got = s.FilteredTrades()
	if len(got) != 1 || got[0].MsgType != model.ChannelLiveTrade {
		t.Errorf("FilteredTrades() with Large = %d items, want the one live-trade", len(got))
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	s, trades, _ := newTestState(10, 10)
	trades.Push(trade(model.ChannelAllTrades, "BTC", "WhaleKing"))

	s.coinFilter = "btc"
	s.traderFilter = "whale"
	if got := s.FilteredTrades(); len(got) != 1 {
		t.Errorf("lowercase filters: len = %d, want 1", len(got))
	}

	s.coinFilter = "BtC"
	s.traderFilter = "WHALEKING"
	if got := s.FilteredTrades(); len(got) != 1 {
		t.Errorf("mixed-case filters: len = %d, want 1", len(got))
	}
}

func TestEndToEndEvictionAndFilter(t *testing.T) {
	// Capacity 2: push A, B, C. A is evicted; B is a live-trade.
	s, trades, _ := newTestState(2, 10)
	trades.Push(trade(model.ChannelAllTrades, "ABC", "u1")) // A
	trades.Push(trade(model.ChannelLiveTrade, "XYZ", "u2")) // B
	trades.Push(trade(model.ChannelAllTrades, "ABC", "u3")) // C

	if trades.Len() != 2 {
		t.Fatalf("buffer len = %d, want 2", trades.Len())
	}

	s.coinFilter = "abc"
	got := s.FilteredTrades()
	if len(got) != 1 {
		t.Fatalf("FilteredTrades() len = %d, want 1", len(got))
	}
	if got[0].Data.Username != "u3" {
		t.Errorf("FilteredTrades()[0].Username = %q, want u3 (C)", got[0].Data.Username)
	}
}

func TestScrollClamping(t *testing.T) {
	s, trades, _ := newTestState(10, 10)

	// Empty list: scroll-down stays at 0.
	s.ScrollDown()
	if s.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %d on empty list, want 0", s.ScrollOffset())
	}

	trades.Push(trade(model.ChannelAllTrades, "BTC", "a"))
	trades.Push(trade(model.ChannelAllTrades, "ETH", "b"))
	trades.Push(trade(model.ChannelAllTrades, "SOL", "c"))

	for i := 0; i < 10; i++ {
		s.ScrollDown()
	}
	if s.ScrollOffset() != 2 {
		t.Errorf("ScrollOffset() = %d after repeated ScrollDown, want 2", s.ScrollOffset())
	}

	for i := 0; i < 10; i++ {
		s.ScrollUp()
	}
	if s.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %d after repeated ScrollUp, want 0", s.ScrollOffset())
	}
}

func TestSwitchPageResetsScroll(t *testing.T) {
	s, trades, _ := newTestState(10, 10)
	trades.Push(trade(model.ChannelAllTrades, "BTC", "a"))
	trades.Push(trade(model.ChannelAllTrades, "ETH", "b"))
	s.ScrollDown()
	if s.ScrollOffset() != 1 {
		t.Fatalf("ScrollOffset() = %d, want 1", s.ScrollOffset())
	}

	s.SwitchPage()
	if s.Page() != model.PagePriceTracker {
		t.Errorf("Page() = %v, want PagePriceTracker", s.Page())
	}
	if s.ScrollOffset() != 0 {
		t.Errorf("ScrollOffset() = %d after SwitchPage, want 0", s.ScrollOffset())
	}
}

func TestCoinFilterModeRoundTrip(t *testing.T) {
	s, _, _ := newTestState(10, 10)
	s.coinFilter = "original"

	s.StartCoinFilter()
	if s.InputMode() != model.ModeCoinFilter {
		t.Fatalf("InputMode() = %v, want ModeCoinFilter", s.InputMode())
	}
	if s.InputBuffer() != "original" {
		t.Errorf("InputBuffer() = %q, want pre-seeded %q", s.InputBuffer(), "original")
	}

	// Type something, then cancel: the committed filter is untouched.
	s.AppendInput('x')
	s.AppendInput('y')
	s.Cancel()
	if s.InputMode() != model.ModeNormal {
		t.Errorf("InputMode() = %v after Cancel, want ModeNormal", s.InputMode())
	}
	if s.CoinFilter() != "original" {
		t.Errorf("CoinFilter() = %q after Cancel, want %q", s.CoinFilter(), "original")
	}

	// Confirm commits the buffer verbatim.
	s.StartCoinFilter()
	s.AppendInput('z')
	s.Confirm()
	if s.CoinFilter() != "originalz" {
		t.Errorf("CoinFilter() = %q after Confirm, want %q", s.CoinFilter(), "originalz")
	}
}

func TestEditModeGuards(t *testing.T) {
	s, trades, _ := newTestState(10, 10)
	trades.Push(trade(model.ChannelAllTrades, "BTC", "a"))
	trades.Push(trade(model.ChannelAllTrades, "ETH", "b"))

	s.StartCoinFilter()
	s.SwitchPage()
	s.SwitchTradeFilter()
	s.ScrollDown()
	if s.Page() != model.PageTrades || s.TradeFilter() != model.FilterAll || s.ScrollOffset() != 0 {
		t.Error("page/filter/scroll commands honored while editing")
	}

	// Edit-entry commands are page-gated.
	s.Cancel()
	s.StartCoinSelection() // trades page: no-op
	if s.InputMode() != model.ModeNormal {
		t.Errorf("StartCoinSelection on trades page entered %v", s.InputMode())
	}
	s.SwitchPage()
	s.StartCoinFilter() // price page: no-op
	if s.InputMode() != model.ModeNormal {
		t.Errorf("StartCoinFilter on price page entered %v", s.InputMode())
	}
}

func TestConfirmCoinSelectionNormalizes(t *testing.T) {
	s, _, prices := newTestState(10, 10)
	s.SwitchPage()

	// Simulate a stale snapshot from a previously tracked coin.
	s.trackedCoin = "OLD"
	stale := priceUpdate("OLD", 1.0)
	s.latestPrice = &stale

	s.StartCoinSelection()
	if s.InputBuffer() != "OLD" {
		t.Errorf("InputBuffer() = %q, want pre-seeded OLD", s.InputBuffer())
	}
	s.inputBuffer = " btc "
	symbol, ok := s.Confirm()
	if !ok || symbol != "BTC" {
		t.Fatalf("Confirm() = %q, %v, want BTC, true", symbol, ok)
	}
	if s.TrackedCoin() != "BTC" {
		t.Errorf("TrackedCoin() = %q, want BTC", s.TrackedCoin())
	}
	if s.LatestPrice() != nil {
		t.Error("LatestPrice() not cleared after tracking a new coin")
	}
	if s.InputMode() != model.ModeNormal {
		t.Errorf("InputMode() = %v, want ModeNormal", s.InputMode())
	}

	// Blank input: back to normal, nothing changes, no symbol emitted.
	s.StartCoinSelection()
	s.inputBuffer = "   "
	symbol, ok = s.Confirm()
	if ok || symbol != "" {
		t.Errorf("Confirm() with blank input = %q, %v, want \"\", false", symbol, ok)
	}
	if s.TrackedCoin() != "BTC" {
		t.Errorf("TrackedCoin() = %q after blank confirm, want BTC", s.TrackedCoin())
	}

	_ = prices
}

func TestTrackedPriceUpdatesAndLatest(t *testing.T) {
	s, _, prices := newTestState(10, 10)
	prices.Push(priceUpdate("BTC", 100))
	prices.Push(priceUpdate("ETH", 5))
	prices.Push(priceUpdate("BTC", 101))

	// No tracked coin: empty.
	if got := s.TrackedPriceUpdates(); len(got) != 0 {
		t.Errorf("TrackedPriceUpdates() len = %d without tracking, want 0", len(got))
	}
	s.RefreshLatestPrice()
	if s.LatestPrice() != nil {
		t.Error("LatestPrice() set without a tracked coin")
	}

	s.trackedCoin = "BTC"
	got := s.TrackedPriceUpdates()
	if len(got) != 2 {
		t.Fatalf("TrackedPriceUpdates() len = %d, want 2", len(got))
	}
	if got[0].CurrentPrice != 101 {
		t.Errorf("TrackedPriceUpdates()[0].CurrentPrice = %v, want newest (101)", got[0].CurrentPrice)
	}

	s.RefreshLatestPrice()
	if s.LatestPrice() == nil || s.LatestPrice().CurrentPrice != 101 {
		t.Errorf("LatestPrice() = %+v, want the newest BTC update", s.LatestPrice())
	}
}

func TestDeleteInput(t *testing.T) {
	s, _, _ := newTestState(10, 10)
	s.StartCoinFilter()
	s.AppendInput('a')
	s.AppendInput('b')
	s.DeleteInput()
	if s.InputBuffer() != "a" {
		t.Errorf("InputBuffer() = %q, want a", s.InputBuffer())
	}
	s.DeleteInput()
	s.DeleteInput() // empty: no-op
	if s.InputBuffer() != "" {
		t.Errorf("InputBuffer() = %q, want empty", s.InputBuffer())
	}
}
