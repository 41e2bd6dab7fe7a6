package scanner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type stubFetcher struct {
	sets  map[string]types.QuoteSet
	errs  map[string]error
	calls []string
}

func (f *stubFetcher) FetchQuotes(_ context.Context, symbol string) (types.QuoteSet, error) {
	f.calls = append(f.calls, symbol)
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return f.sets[symbol], nil
}

func spreadSet(bid, ask float64) types.QuoteSet {
	return types.QuoteSet{
		"a": {Exchange: "a", Bid: bid - 1, Ask: ask},
		"b": {Exchange: "b", Bid: bid, Ask: bid + 1},
	}
}

func TestScan_RanksDescendingAndTruncates(t *testing.T) {
	f := &stubFetcher{sets: map[string]types.QuoteSet{
		"BTC/USDT":  spreadSet(103, 100), // 3%
		"ETH/USDT":  spreadSet(101, 100), // 1%
		"ADA/USDT":  spreadSet(105, 100), // 5%
		"DOT/USDT":  spreadSet(102, 100), // 2%
		"LINK/USDT": spreadSet(104, 100), // 4%
	}}
	s := New(f, NopPacer{}, 0.1, zap.NewNop())

	res := s.Scan(context.Background(), []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "DOT/USDT", "LINK/USDT"}, 3)

	require.Len(t, res.Opportunities, 3)
	assert.Equal(t, "ADA/USDT", res.Opportunities[0].Symbol)
	assert.Equal(t, "LINK/USDT", res.Opportunities[1].Symbol)
	assert.Equal(t, "BTC/USDT", res.Opportunities[2].Symbol)
	for i := 1; i < len(res.Opportunities); i++ {
		assert.GreaterOrEqual(t,
			res.Opportunities[i-1].ProfitPercent,
			res.Opportunities[i].ProfitPercent,
		)
	}
}

func TestScan_SymbolFailureIsolated(t *testing.T) {
	f := &stubFetcher{
		sets: map[string]types.QuoteSet{
			"BTC/USDT": spreadSet(103, 100),
			"ADA/USDT": spreadSet(105, 100),
		},
		errs: map[string]error{
			"ETH/USDT": fmt.Errorf("all exchanges unreachable"),
		},
	}
	s := New(f, NopPacer{}, 0.1, zap.NewNop())

	res := s.Scan(context.Background(), []string{"BTC/USDT", "ETH/USDT", "ADA/USDT"}, 5)

	require.Len(t, res.Opportunities, 2)
	assert.Equal(t, 3, res.SymbolsScanned)
	assert.Equal(t, 2, res.SymbolsWithData)
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT", "ADA/USDT"}, f.calls)
}

func TestScan_NoDataVsNoOpportunity(t *testing.T) {
	// Every fetch fails: no data.
	f := &stubFetcher{errs: map[string]error{
		"BTC/USDT": fmt.Errorf("down"),
		"ETH/USDT": fmt.Errorf("down"),
	}}
	s := New(f, NopPacer{}, 0.1, zap.NewNop())
	res := s.Scan(context.Background(), []string{"BTC/USDT", "ETH/USDT"}, 5)
	assert.True(t, res.NoData())
	assert.Empty(t, res.Opportunities)

	// Quotes arrive but no spread clears the threshold: data, no opportunity.
	f = &stubFetcher{sets: map[string]types.QuoteSet{
		"BTC/USDT": {
			"a": {Exchange: "a", Bid: 100, Ask: 101},
			"b": {Exchange: "b", Bid: 100.05, Ask: 100.9},
		},
	}}
	s = New(f, NopPacer{}, 0.1, zap.NewNop())
	res = s.Scan(context.Background(), []string{"BTC/USDT"}, 5)
	assert.False(t, res.NoData())
	assert.Empty(t, res.Opportunities)
}

func TestScan_CancelBetweenSymbols(t *testing.T) {
	f := &stubFetcher{sets: map[string]types.QuoteSet{
		"BTC/USDT": spreadSet(103, 100),
		"ETH/USDT": spreadSet(103, 100),
	}}
	s := New(f, DelayPacer{Delay: time.Hour}, 0.1, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	res := s.Scan(ctx, []string{"BTC/USDT", "ETH/USDT"}, 5)

	// Only the first symbol was fetched; the pacer wait was cancelled.
	assert.Equal(t, []string{"BTC/USDT"}, f.calls)
	assert.Len(t, res.Opportunities, 1)
}

type failingPacer struct {
	calls     int
	failAfter int
}

func (p *failingPacer) Wait(context.Context) error {
	p.calls++
	if p.calls >= p.failAfter {
		return context.Canceled
	}
	return nil
}

func TestScan_AbortedScanStillRankedAndTruncated(t *testing.T) {
	f := &stubFetcher{sets: map[string]types.QuoteSet{
		"BTC/USDT": spreadSet(101, 100), // 1%
		"ETH/USDT": spreadSet(105, 100), // 5%
		"ADA/USDT": spreadSet(103, 100), // 3%
	}}
	// Second Wait fails: ADA is never fetched, BTC and ETH were.
	s := New(f, &failingPacer{failAfter: 2}, 0.1, zap.NewNop())

	res := s.Scan(context.Background(), []string{"BTC/USDT", "ETH/USDT", "ADA/USDT"}, 1)

	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT"}, f.calls)
	require.Len(t, res.Opportunities, 1)
	assert.Equal(t, "ETH/USDT", res.Opportunities[0].Symbol)
}

func TestScanSymbol(t *testing.T) {
	f := &stubFetcher{sets: map[string]types.QuoteSet{
		"BTC/USDT": {
			"binance": {Exchange: "binance", Bid: 50000, Ask: 50010},
			"kucoin":  {Exchange: "kucoin", Bid: 50200, Ask: 50220},
		},
	}}
	s := New(f, nil, 0.1, zap.NewNop())

	opp, ok, err := s.ScanSymbol(context.Background(), "BTC/USDT")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "binance", opp.BuyExchange)
	assert.Equal(t, "kucoin", opp.SellExchange)
	assert.InDelta(t, 0.380, opp.ProfitPercent, 0.001)
}

func TestDelayPacer_Waits(t *testing.T) {
	p := DelayPacer{Delay: 20 * time.Millisecond}
	start := time.Now()
	err := p.Wait(context.Background())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDelayPacer_Cancelled(t *testing.T) {
	p := DelayPacer{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Wait(ctx))
}
