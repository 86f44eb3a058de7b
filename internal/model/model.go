// Package model defines the event records and wire frame types exchanged
// with the rugplay feed, plus the small enums that drive the dashboard UI.
package model

import "time"

// Feed channel discriminators carried in the "type" field of trade frames.
const (
	ChannelAllTrades = "all-trades"
	ChannelLiveTrade = "live-trade"
)

// TradeData is the payload of a trade frame as sent by the feed.
type TradeData struct {
	TradeType  string  `json:"type"` // "BUY" or "SELL"
	Username   string  `json:"username"`
	UserImage  string  `json:"userImage"`
	Amount     float64 `json:"amount"`
	CoinSymbol string  `json:"coinSymbol"`
	CoinName   string  `json:"coinName"`
	CoinIcon   string  `json:"coinIcon"`
	TotalValue float64 `json:"totalValue"`
	Price      float64 `json:"price"`
	Timestamp  int64   `json:"timestamp"` // origin timestamp, Unix ms
	UserID     string  `json:"userId"`
}

// TradeMessage is the wire shape of a trade frame. The outer "type" field is
// the channel discriminator ("all-trades" or "live-trade"); the inner
// data.type is the trade direction.
type TradeMessage struct {
	MsgType string    `json:"type"`
	Data    TradeData `json:"data"`
}

// TradeEvent is a trade frame stamped at ingestion. ReceivedAt is set once
// by the feed connector and never mutated afterwards.
type TradeEvent struct {
	MsgType    string
	Data       TradeData
	ReceivedAt time.Time
}

// PriceUpdateMessage is the wire shape of a "price_update" frame.
type PriceUpdateMessage struct {
	MsgType                string  `json:"type"`
	CoinSymbol             string  `json:"coinSymbol"`
	CurrentPrice           float64 `json:"currentPrice"`
	MarketCap              float64 `json:"marketCap"`
	Change24h              float64 `json:"change24h"`
	Volume24h              float64 `json:"volume24h"`
	PoolCoinAmount         float64 `json:"poolCoinAmount"`
	PoolBaseCurrencyAmount float64 `json:"poolBaseCurrencyAmount"`
}

// PriceUpdateEvent is a price update stamped at ingestion.
type PriceUpdateEvent struct {
	CoinSymbol             string
	CurrentPrice           float64
	MarketCap              float64
	Change24h              float64
	Volume24h              float64
	PoolCoinAmount         float64
	PoolBaseCurrencyAmount float64
	ReceivedAt             time.Time
}

// Event builds a PriceUpdateEvent from the wire message with the given
// receipt time.
func (m PriceUpdateMessage) Event(receivedAt time.Time) PriceUpdateEvent {
	return PriceUpdateEvent{
		CoinSymbol:             m.CoinSymbol,
		CurrentPrice:           m.CurrentPrice,
		MarketCap:              m.MarketCap,
		Change24h:              m.Change24h,
		Volume24h:              m.Volume24h,
		PoolCoinAmount:         m.PoolCoinAmount,
		PoolBaseCurrencyAmount: m.PoolBaseCurrencyAmount,
		ReceivedAt:             receivedAt,
	}
}

// Event builds a TradeEvent from the wire message with the given receipt time.
func (m TradeMessage) Event(receivedAt time.Time) TradeEvent {
	return TradeEvent{MsgType: m.MsgType, Data: m.Data, ReceivedAt: receivedAt}
}

// SubscribeFrame is the outbound channel subscription control frame.
type SubscribeFrame struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// SetCoinFrame selects the coin whose price updates the server should push.
type SetCoinFrame struct {
	Type       string `json:"type"`
	CoinSymbol string `json:"coinSymbol"`
}

// PongFrame is the reply to an inbound ping.
type PongFrame struct {
	Type string `json:"type"`
}

// Page identifies which of the two dashboard pages is active.
type Page int

const (
	PageTrades Page = iota
	PagePriceTracker
)

func (p Page) String() string {
	switch p {
	case PageTrades:
		return "Trade Monitor"
	case PagePriceTracker:
		return "Price Tracker"
	default:
		return "unknown"
	}
}

// TradeFilter selects which trade channel the trades page shows.
type TradeFilter int

const (
	FilterAll TradeFilter = iota
	FilterLarge
)

func (f TradeFilter) String() string {
	switch f {
	case FilterAll:
		return "All Trades"
	case FilterLarge:
		return "Large Trades"
	default:
		return "unknown"
	}
}

// Channel returns the feed channel discriminator matching the filter.
func (f TradeFilter) Channel() string {
	if f == FilterLarge {
		return ChannelLiveTrade
	}
	return ChannelAllTrades
}

// InputMode is the UI editing state. Page, filter, and scroll commands are
// only honored in ModeNormal; the other modes edit a text input buffer.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCoinFilter
	ModeTraderFilter
	ModeCoinSelection
)

func (m InputMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeCoinFilter:
		return "coin-filter"
	case ModeTraderFilter:
		return "trader-filter"
	case ModeCoinSelection:
		return "coin-selection"
	default:
		return "unknown"
	}
}
