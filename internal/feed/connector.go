// Package feed maintains the single long-lived websocket connection to the
// rugplay feed: channel subscription, ping/pong keep-alive, dynamic coin
// tracking, and decoding of inbound frames into the shared event buffers.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"rugwatch/internal/buffer"
	"rugwatch/internal/model"
)

const (
	// DefaultEndpoint is the production rugplay feed.
	DefaultEndpoint = "wss://ws.rugplay.com/"

	// GlobalCoin is the sentinel tracking target selected at startup.
	GlobalCoin = "@global"

	// TradeBufferCap and PriceBufferCap are the bounded-buffer capacities.
	TradeBufferCap = 1000
	PriceBufferCap = 100

	// handoffCap sizes the channels between the connector and the buffer
	// writers. A full channel drops the newest event rather than blocking
	// the network read path.
	handoffCap = 100

	// CommandChanCap sizes the tracked-symbol command channel.
	CommandChanCap = 10

	handshakeTimeout = 10 * time.Second
)

// NewCommandChannel creates the channel that carries tracked-symbol requests
// from the UI to the connector. Closing it shuts the connector down cleanly.
func NewCommandChannel() chan string {
	return make(chan string, CommandChanCap)
}

// TryTrack sends a tracking request without blocking. A full channel drops
// the request; the user can retry.
func TryTrack(commands chan<- string, symbol string) bool {
	select {
	case commands <- symbol:
		return true
	default:
		return false
	}
}

// rawFrame is one inbound websocket message, or the terminal read error.
type rawFrame struct {
	data []byte
	err  error
}

// Connector owns the feed connection for the process's lifetime. There is no
// reconnect: a transport failure terminates Run and the dashboard keeps
// serving whatever is already buffered.
type Connector struct {
	endpoint string
	trades   *buffer.Ring[model.TradeEvent]
	prices   *buffer.Ring[model.PriceUpdateEvent]
	commands <-chan string
	log      *slog.Logger

	conn    *websocket.Conn
	tradeCh chan model.TradeEvent
	priceCh chan model.PriceUpdateEvent
	wg      sync.WaitGroup
}

// NewConnector wires a connector to the two event buffers and the command
// channel. Dial must be called before Run.
func NewConnector(endpoint string, trades *buffer.Ring[model.TradeEvent], prices *buffer.Ring[model.PriceUpdateEvent], commands <-chan string, log *slog.Logger) *Connector {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Connector{
		endpoint: endpoint,
		trades:   trades,
		prices:   prices,
		commands: commands,
		log:      log,
		tradeCh:  make(chan model.TradeEvent, handoffCap),
		priceCh:  make(chan model.PriceUpdateEvent, handoffCap),
	}
}

// Dial connects to the feed and performs the startup protocol: subscribe to
// the all-trades and large-trades channels, then select the global tracking
// target. These subscriptions are sent exactly once; later tracking commands
// only ever send set_coin frames.
func (c *Connector) Dial(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", c.endpoint, err)
	}
	c.conn = conn

	startup := []any{
		model.SubscribeFrame{Type: "subscribe", Channel: "trades:all"},
		model.SubscribeFrame{Type: "subscribe", Channel: "trades:large"},
		model.SetCoinFrame{Type: "set_coin", CoinSymbol: GlobalCoin},
	}
	for _, frame := range startup {
		if err := conn.WriteJSON(frame); err != nil {
			conn.Close()
			return fmt.Errorf("sending startup frame: %w", err)
		}
	}

	c.log.Info("connected to feed", "endpoint", c.endpoint)
	return nil
}

// Run drives the connector until the command channel closes (clean exit,
// returns nil) or the transport fails (returns the error). Each iteration
// services exactly one ready source: an inbound frame or a tracking command.
func (c *Connector) Run(ctx context.Context) error {
	if c.conn == nil {
		return fmt.Errorf("feed: Run called before Dial")
	}

	// Buffer writers drain the handoff channels and apply bounded pushes.
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for t := range c.tradeCh {
			c.trades.Push(t)
		}
	}()
	go func() {
		defer c.wg.Done()
		for p := range c.priceCh {
			c.prices.Push(p)
		}
	}()

	// The read pump turns blocking reads into a selectable channel. done
	// releases it if Run exits while it is mid-send.
	frames := make(chan rawFrame)
	done := make(chan struct{})
	go func() {
		for {
			_, data, err := c.conn.ReadMessage()
			select {
			case frames <- rawFrame{data: data, err: err}:
			case <-done:
				return
			}
			if err != nil {
				return
			}
		}
	}()

	defer func() {
		close(done)
		c.conn.Close()
		close(c.tradeCh)
		close(c.priceCh)
		c.wg.Wait()
	}()

	for {
		select {
		case symbol, ok := <-c.commands:
			if !ok {
				c.log.Info("command channel closed, stopping feed")
				return nil
			}
			frame := model.SetCoinFrame{Type: "set_coin", CoinSymbol: symbol}
			if err := c.conn.WriteJSON(frame); err != nil {
				return fmt.Errorf("sending set_coin for %s: %w", symbol, err)
			}
			c.log.Info("tracking coin", "symbol", symbol)

		case fr := <-frames:
			if fr.err != nil {
				return fmt.Errorf("reading frame: %w", fr.err)
			}
			if err := c.dispatch(fr.data); err != nil {
				return err
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch decodes one inbound frame by its "type" discriminator. Malformed
// or unrecognized frames are dropped silently; only a failed pong reply is
// fatal.
func (c *Connector) dispatch(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil
	}

	switch head.Type {
	case "ping":
		if err := c.conn.WriteJSON(model.PongFrame{Type: "pong"}); err != nil {
			return fmt.Errorf("replying pong: %w", err)
		}

	case "price_update":
		var msg model.PriceUpdateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil
		}
		select {
		case c.priceCh <- msg.Event(time.Now()):
		default:
			c.log.Warn("price handoff full, dropping update", "symbol", msg.CoinSymbol)
		}

	default:
		var msg model.TradeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil
		}
		// Frames without a trade payload (server notices etc.) decode to an
		// empty Data; drop them.
		if msg.Data.CoinSymbol == "" && msg.Data.Username == "" {
			return nil
		}
		select {
		case c.tradeCh <- msg.Event(time.Now()):
		default:
			c.log.Warn("trade handoff full, dropping trade", "symbol", msg.Data.CoinSymbol)
		}
	}
	return nil
}
