// Package marketdata assembles per-symbol quote sets by fanning out across
// the configured exchanges. A venue that errors, times out, or reports a
// one-sided book is left out of the set; partial data is expected and normal.
package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/you/arb-scan/internal/connectors/cex"
	"github.com/you/arb-scan/internal/metrics"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type Fetcher struct {
	clients      []cex.Client
	fetchTimeout time.Duration
	gaugeSymbol  string
	log          *zap.Logger
}

// NewFetcher wires the fetcher over an explicit client set. gaugeSymbol is
// the symbol whose per-exchange bid/ask gets exported as gauges; pass the
// default symbol.
func NewFetcher(clients []cex.Client, fetchTimeout time.Duration, gaugeSymbol string, log *zap.Logger) *Fetcher {
	return &Fetcher{
		clients:      clients,
		fetchTimeout: fetchTimeout,
		gaugeSymbol:  gaugeSymbol,
		log:          log,
	}
}

// FetchQuotes queries every exchange concurrently and returns the quotes that
// came back valid. Each fetch carries its own timeout so one unresponsive
// venue cannot stall the cycle. An error is returned only when no exchange
// produced data at all.
func (f *Fetcher) FetchQuotes(ctx context.Context, symbol string) (types.QuoteSet, error) {
	set := make(types.QuoteSet, len(f.clients))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, c := range f.clients {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
			defer cancel()

			start := time.Now()
			q, err := c.BookTicker(fetchCtx, symbol)
			metrics.FetchLatency.WithLabelValues(c.Name()).Observe(time.Since(start).Seconds())
			if err != nil {
				metrics.FetchErrors.WithLabelValues(c.Name()).Inc()
				f.log.Warn("quote fetch failed",
					zap.String("exchange", c.Name()),
					zap.String("symbol", symbol),
					zap.Error(err),
				)
				return
			}
			if !q.Valid() {
				f.log.Debug("one-sided or empty book, skipping",
					zap.String("exchange", c.Name()),
					zap.String("symbol", symbol),
				)
				return
			}
			if symbol == f.gaugeSymbol {
				metrics.ExchangeBid.WithLabelValues(c.Name()).Set(q.Bid)
				metrics.ExchangeAsk.WithLabelValues(c.Name()).Set(q.Ask)
			}
			mu.Lock()
			set[c.Name()] = q
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(set) == 0 {
		return nil, fmt.Errorf("marketdata: no exchange returned a quote for %s", symbol)
	}
	return set, nil
}

// Status probes every exchange and reports reachability. Probes run
// concurrently with the same per-fetch timeout as quote fetches.
func (f *Fetcher) Status(ctx context.Context) []types.ExchangeStatus {
	out := make([]types.ExchangeStatus, len(f.clients))
	var wg sync.WaitGroup
	for i, c := range f.clients {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			pingCtx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
			defer cancel()
			st := types.ExchangeStatus{Name: c.Name(), Up: true}
			if err := c.Ping(pingCtx); err != nil {
				st.Up = false
				st.Err = err.Error()
			}
			out[i] = st
		}()
	}
	wg.Wait()
	return out
}
