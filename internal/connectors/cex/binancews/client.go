package binancews

import (
	"context"
	"strings"
	"time"

	"github.com/you/arb-scan/internal/connectors/cex"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

// Run keeps a book-ticker subscription alive for the given symbols
// ("BASE/QUOTE" form) and mirrors every tick into the cache, reconnecting
// with a small backoff until the context is cancelled.
func Run(ctx context.Context, url string, cache *BookCache, symbols []string, log *zap.Logger) {
	native := make([]string, 0, len(symbols))
	for _, s := range symbols {
		native = append(native, strings.ToUpper(strings.ReplaceAll(s, "/", "")))
	}

	for ctx.Err() == nil {
		ws := NewWS(url)
		stream, err := ws.SubscribeBookTicker(ctx, native)
		if err != nil {
			log.Warn("binance WS subscribe failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}
		log.Info("subscribed to binance WS book ticker", zap.Strings("symbols", native))

		for t := range stream {
			cache.Set(t.Symbol, t.Bid, t.Ask)
		}
		log.Warn("binance WS stream closed, reconnecting")
	}
}

// Client serves Binance quotes from the WS cache when it has the symbol and
// falls back to the REST client otherwise.
type Client struct {
	cache *BookCache
	rest  cex.Client
}

func NewClient(cache *BookCache, rest cex.Client) *Client {
	return &Client{cache: cache, rest: rest}
}

func (c *Client) Name() string { return c.rest.Name() }

func (c *Client) BookTicker(ctx context.Context, symbol string) (types.Quote, error) {
	native := strings.ToUpper(strings.ReplaceAll(symbol, "/", ""))
	if bid, ask, err := c.cache.BestBidAsk(native); err == nil {
		return types.Quote{
			Exchange: c.Name(),
			Symbol:   symbol,
			Bid:      bid,
			Ask:      ask,
			Ts:       time.Now(),
		}, nil
	}
	return c.rest.BookTicker(ctx, symbol)
}

func (c *Client) Ping(ctx context.Context) error { return c.rest.Ping(ctx) }
