// Package view holds the dashboard's filtering, scrolling, and input-mode
// state. It derives read-only views over the shared event buffers; it never
// mutates them.
package view

import (
	"strings"

	"rugwatch/internal/buffer"
	"rugwatch/internal/model"
)

// State is the authoritative UI state consumed by the renderer and mutated
// exclusively by the command methods below. It is owned by the main loop and
// is not safe for concurrent use; the buffers it reads are.
type State struct {
	trades       *buffer.Ring[model.TradeEvent]
	priceUpdates *buffer.Ring[model.PriceUpdateEvent]

	page         model.Page
	tradeFilter  model.TradeFilter
	coinFilter   string
	traderFilter string
	scrollOffset int

	trackedCoin string // uppercase, "" = none
	latestPrice *model.PriceUpdateEvent

	inputMode   model.InputMode
	inputBuffer string
}

// NewState binds a fresh State to the two event buffers.
func NewState(trades *buffer.Ring[model.TradeEvent], priceUpdates *buffer.Ring[model.PriceUpdateEvent]) *State {
	return &State{trades: trades, priceUpdates: priceUpdates}
}

// Accessors (point-in-time, read-only).

func (s *State) Page() model.Page               { return s.page }
func (s *State) TradeFilter() model.TradeFilter { return s.tradeFilter }
func (s *State) CoinFilter() string             { return s.coinFilter }
func (s *State) TraderFilter() string           { return s.traderFilter }
func (s *State) ScrollOffset() int              { return s.scrollOffset }
func (s *State) TrackedCoin() string            { return s.trackedCoin }
func (s *State) InputMode() model.InputMode     { return s.inputMode }
func (s *State) InputBuffer() string            { return s.inputBuffer }

// LatestPrice returns the most recent price update seen for the tracked
// coin, or nil if none has arrived since tracking began.
func (s *State) LatestPrice() *model.PriceUpdateEvent { return s.latestPrice }

// TradeCount returns the number of buffered trades (before filtering).
func (s *State) TradeCount() int { return s.trades.Len() }

// ---------------------------------------------------------------------------
// Normal-mode commands
// ---------------------------------------------------------------------------

// SwitchPage toggles between the trades page and the price tracker and
// resets scrolling.
func (s *State) SwitchPage() {
	if s.inputMode != model.ModeNormal {
		return
	}
	if s.page == model.PageTrades {
		s.page = model.PagePriceTracker
	} else {
		s.page = model.PageTrades
	}
	s.scrollOffset = 0
}

// SwitchTradeFilter toggles All/Large. Only meaningful on the trades page.
func (s *State) SwitchTradeFilter() {
	if s.inputMode != model.ModeNormal || s.page != model.PageTrades {
		return
	}
	if s.tradeFilter == model.FilterAll {
		s.tradeFilter = model.FilterLarge
	} else {
		s.tradeFilter = model.FilterAll
	}
	s.scrollOffset = 0
}

// StartCoinFilter enters coin-filter editing, pre-seeded with the current
// filter text. Only available from Normal mode on the trades page.
func (s *State) StartCoinFilter() {
	if s.inputMode != model.ModeNormal || s.page != model.PageTrades {
		return
	}
	s.inputMode = model.ModeCoinFilter
	s.inputBuffer = s.coinFilter
}

// StartTraderFilter enters trader-filter editing, pre-seeded with the
// current filter text.
func (s *State) StartTraderFilter() {
	if s.inputMode != model.ModeNormal || s.page != model.PageTrades {
		return
	}
	s.inputMode = model.ModeTraderFilter
	s.inputBuffer = s.traderFilter
}

// StartCoinSelection enters tracked-symbol editing, pre-seeded with the
// current tracked coin. Only available on the price tracker page.
func (s *State) StartCoinSelection() {
	if s.inputMode != model.ModeNormal || s.page != model.PagePriceTracker {
		return
	}
	s.inputMode = model.ModeCoinSelection
	s.inputBuffer = s.trackedCoin
}

// ScrollUp moves the view up one item, stopping at 0.
func (s *State) ScrollUp() {
	if s.inputMode != model.ModeNormal {
		return
	}
	if s.scrollOffset > 0 {
		s.scrollOffset--
	}
}

// ScrollDown moves the view down one item, clamped to the last item of the
// active page's filtered view.
func (s *State) ScrollDown() {
	if s.inputMode != model.ModeNormal {
		return
	}
	var max int
	if s.page == model.PageTrades {
		max = len(s.FilteredTrades())
	} else {
		max = len(s.TrackedPriceUpdates())
	}
	if max > 0 && s.scrollOffset < max-1 {
		s.scrollOffset++
	}
}

// ---------------------------------------------------------------------------
// Edit-mode commands
// ---------------------------------------------------------------------------

// AppendInput appends a rune to the input buffer. No-op in Normal mode.
func (s *State) AppendInput(r rune) {
	if s.inputMode == model.ModeNormal {
		return
	}
	s.inputBuffer += string(r)
}

// DeleteInput removes the last rune from the input buffer.
func (s *State) DeleteInput() {
	if s.inputMode == model.ModeNormal || s.inputBuffer == "" {
		return
	}
	runes := []rune(s.inputBuffer)
	s.inputBuffer = string(runes[:len(runes)-1])
}

// Confirm commits the current edit. In the filter modes the input buffer is
// stored verbatim. In coin-selection mode a non-blank input is trimmed,
// uppercased, and stored as the tracked coin; the stale latest-price
// snapshot is cleared and the new symbol is returned so the caller can
// forward it to the feed connector. A blank input changes nothing. The
// returned bool is true only when a new symbol was committed.
func (s *State) Confirm() (string, bool) {
	switch s.inputMode {
	case model.ModeCoinFilter:
		s.coinFilter = s.inputBuffer
		s.inputMode = model.ModeNormal
		s.inputBuffer = ""
		s.scrollOffset = 0
	case model.ModeTraderFilter:
		s.traderFilter = s.inputBuffer
		s.inputMode = model.ModeNormal
		s.inputBuffer = ""
		s.scrollOffset = 0
	case model.ModeCoinSelection:
		trimmed := strings.TrimSpace(s.inputBuffer)
		s.inputMode = model.ModeNormal
		s.inputBuffer = ""
		if trimmed != "" {
			symbol := strings.ToUpper(trimmed)
			s.trackedCoin = symbol
			s.latestPrice = nil
			s.scrollOffset = 0
			return symbol, true
		}
	}
	return "", false
}

// Cancel discards the edit in progress and returns to Normal mode without
// touching any committed field.
func (s *State) Cancel() {
	if s.inputMode == model.ModeNormal {
		return
	}
	s.inputMode = model.ModeNormal
	s.inputBuffer = ""
}

// ---------------------------------------------------------------------------
// Derived views
// ---------------------------------------------------------------------------

// FilteredTrades returns the buffered trades passing all three active
// predicates, newest first: channel matches the trade-type filter, and the
// coin/trader filters are empty or match case-insensitively as substrings.
func (s *State) FilteredTrades() []model.TradeEvent {
	channel := s.tradeFilter.Channel()
	coin := strings.ToLower(s.coinFilter)
	trader := strings.ToLower(s.traderFilter)

	return s.trades.SnapshotFilter(func(t model.TradeEvent) bool {
		if t.MsgType != channel {
			return false
		}
		if coin != "" && !strings.Contains(strings.ToLower(t.Data.CoinSymbol), coin) {
			return false
		}
		if trader != "" && !strings.Contains(strings.ToLower(t.Data.Username), trader) {
			return false
		}
		return true
	})
}

// TrackedPriceUpdates returns all buffered price updates for the tracked
// coin, newest first. Empty when no coin is tracked. The match is exact:
// tracked symbols are stored uppercased, as the feed reports them.
func (s *State) TrackedPriceUpdates() []model.PriceUpdateEvent {
	if s.trackedCoin == "" {
		return nil
	}
	return s.priceUpdates.SnapshotFilter(func(u model.PriceUpdateEvent) bool {
		return u.CoinSymbol == s.trackedCoin
	})
}

// RefreshLatestPrice re-derives the latest tracked-price snapshot from the
// price buffer. Called once per render iteration; most-recent wins since
// the buffer is newest-first.
func (s *State) RefreshLatestPrice() {
	if s.trackedCoin == "" {
		return
	}
	tracked := s.trackedCoin
	if u, ok := s.priceUpdates.First(func(u model.PriceUpdateEvent) bool {
		return u.CoinSymbol == tracked
	}); ok {
		s.latestPrice = &u
	}
}
