package scanner

import (
	"context"
	"sort"
	"time"

	"github.com/you/arb-scan/internal/detector"
	"github.com/you/arb-scan/internal/metrics"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

// QuoteFetcher builds a QuoteSet for one symbol. A per-exchange failure must
// be absorbed into a smaller set, not returned as an error; an error means the
// fetch produced no data at all.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context, symbol string) (types.QuoteSet, error)
}

// Pacer spaces out consecutive symbol fetches so the scanner respects
// upstream rate limits. It never affects result correctness.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NopPacer does not wait. Used in tests and in single-symbol scans.
type NopPacer struct{}

func (NopPacer) Wait(context.Context) error { return nil }

// DelayPacer sleeps a fixed duration between symbols, honoring cancellation.
type DelayPacer struct{ Delay time.Duration }

func (p DelayPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(p.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Result distinguishes "no data" from "no opportunity": SymbolsWithData counts
// symbols for which at least two exchanges produced valid quotes.
type Result struct {
	Opportunities   []types.Opportunity
	SymbolsScanned  int
	SymbolsWithData int
}

// NoData reports whether the scan saw no usable quotes at all.
func (r Result) NoData() bool { return r.SymbolsWithData == 0 }

type Scanner struct {
	fetcher          QuoteFetcher
	pacer            Pacer
	minProfitPercent float64
	log              *zap.Logger
}

func New(fetcher QuoteFetcher, pacer Pacer, minProfitPercent float64, log *zap.Logger) *Scanner {
	if pacer == nil {
		pacer = NopPacer{}
	}
	return &Scanner{
		fetcher:          fetcher,
		pacer:            pacer,
		minProfitPercent: minProfitPercent,
		log:              log,
	}
}

// ScanSymbol fetches quotes for a single symbol and runs detection on them.
func (s *Scanner) ScanSymbol(ctx context.Context, symbol string) (types.Opportunity, bool, error) {
	quotes, err := s.fetcher.FetchQuotes(ctx, symbol)
	if err != nil {
		return types.Opportunity{}, false, err
	}
	opp, ok := detector.Detect(quotes, symbol, s.minProfitPercent)
	if ok {
		metrics.OpportunitiesFound.Inc()
		metrics.BestSpreadPercent.Set(opp.ProfitPercent)
	}
	return opp, ok, nil
}

// Scan runs detection over every symbol in order and returns the opportunities
// ranked descending by profit, truncated to maxResults. A failure on one
// symbol is logged and never aborts the rest of the scan; cancellation is
// honored between symbols.
func (s *Scanner) Scan(ctx context.Context, symbols []string, maxResults int) Result {
	metrics.ScansTotal.Inc()
	res := Result{SymbolsScanned: len(symbols)}

	for i, symbol := range symbols {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				s.log.Warn("scan aborted", zap.String("symbol", symbol), zap.Error(err))
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		quotes, err := s.fetcher.FetchQuotes(ctx, symbol)
		if err != nil {
			s.log.Warn("quote fetch failed for symbol", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		if len(quotes) >= 2 {
			res.SymbolsWithData++
		}
		if opp, ok := detector.Detect(quotes, symbol, s.minProfitPercent); ok {
			metrics.OpportunitiesFound.Inc()
			res.Opportunities = append(res.Opportunities, opp)
			s.log.Info("opportunity found",
				zap.String("symbol", opp.Symbol),
				zap.String("buy", opp.BuyExchange),
				zap.String("sell", opp.SellExchange),
				zap.Float64("profit_percent", opp.ProfitPercent),
			)
		}
	}

	sort.SliceStable(res.Opportunities, func(i, j int) bool {
		return res.Opportunities[i].ProfitPercent > res.Opportunities[j].ProfitPercent
	})
	if maxResults > 0 && len(res.Opportunities) > maxResults {
		res.Opportunities = res.Opportunities[:maxResults]
	}
	if len(res.Opportunities) > 0 {
		metrics.BestSpreadPercent.Set(res.Opportunities[0].ProfitPercent)
	}
	return res
}
