// Package binancews streams Binance book-ticker updates over websocket into
// an in-memory book cache. It is an optional fast path for the default
// symbol; REST polling stays the source of truth for full scans.
package binancews

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Ticker struct {
	Symbol string
	Bid    float64
	Ask    float64
	TS     time.Time
}

type WS struct {
	URL    string
	Dialer *websocket.Dialer
	conn   *websocket.Conn
	mu     sync.Mutex
}

func NewWS(url string) *WS {
	if url == "" {
		url = "wss://stream.binance.com:9443/ws"
	}
	return &WS{
		URL: strings.TrimRight(url, "/"),
		Dialer: &websocket.Dialer{
			HandshakeTimeout:  15 * time.Second,
			EnableCompression: true,
		},
	}
}

func (w *WS) connect(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		return nil
	}
	c, _, err := w.Dialer.DialContext(ctx, w.URL, nil)
	if err != nil {
		return err
	}
	w.conn = c

	_ = w.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	w.conn.SetPingHandler(func(appData string) error {
		_ = w.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return w.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	return nil
}

func (w *WS) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn != nil {
		err := w.conn.Close()
		w.conn = nil
		return err
	}
	return nil
}

// SubscribeBookTicker subscribes to the book-ticker stream for the given
// native symbols (e.g. BTCUSDT) and returns a channel of ticks. The channel
// closes when the connection drops or the context is cancelled.
func (w *WS) SubscribeBookTicker(ctx context.Context, symbols []string) (<-chan Ticker, error) {
	if err := w.connect(ctx); err != nil {
		return nil, err
	}

	params := make([]string, 0, len(symbols))
	for _, s := range symbols {
		params = append(params, strings.ToLower(s)+"@bookTicker")
	}
	sub := struct {
		Method string   `json:"method"`
		Params []string `json:"params"`
		ID     int      `json:"id"`
	}{Method: "SUBSCRIBE", Params: params, ID: 1}

	if err := w.conn.WriteJSON(sub); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan Ticker, 1024)

	go func() {
		defer close(out)
		defer w.Close()

		type event struct {
			ID     *int            `json:"id,omitempty"`
			Result json.RawMessage `json:"result,omitempty"`
			Symbol string          `json:"s"`
			Bid    string          `json:"b"`
			Ask    string          `json:"a"`
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			_, data, err := w.conn.ReadMessage()
			if err != nil {
				return
			}
			_ = w.conn.SetReadDeadline(time.Now().Add(90 * time.Second))

			var ev event
			if json.Unmarshal(data, &ev) != nil {
				continue
			}
			if ev.ID != nil || ev.Symbol == "" {
				// subscription ack
				continue
			}

			bid, _ := strconv.ParseFloat(ev.Bid, 64)
			ask, _ := strconv.ParseFloat(ev.Ask, 64)
			if bid == 0 && ask == 0 {
				continue
			}

			out <- Ticker{
				Symbol: ev.Symbol,
				Bid:    bid,
				Ask:    ask,
				TS:     time.Now(),
			}
		}
	}()

	return out, nil
}
