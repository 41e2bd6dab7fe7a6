package redisfeed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/arb-scan/internal/config"
	"github.com/you/arb-scan/internal/types"
)

func newTestPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Stream = "opp:stream"
	cfg.Redis.LatestNS = "opp:latest:"

	p := NewPublisher(cfg)
	t.Cleanup(func() { _ = p.Close() })
	return p, mr
}

func sampleOpp() types.Opportunity {
	return types.Opportunity{
		Symbol:        "BTC/USDT",
		BuyExchange:   "binance",
		SellExchange:  "kucoin",
		BuyPrice:      50010,
		SellPrice:     50200,
		ProfitPercent: 0.38,
		Ts:            time.Now().Truncate(time.Millisecond),
	}
}

func TestPublishOpportunity(t *testing.T) {
	p, mr := newTestPublisher(t)

	err := p.PublishOpportunity(context.Background(), sampleOpp())
	require.NoError(t, err)

	stream, err := mr.Stream("opp:stream")
	require.NoError(t, err)
	require.Len(t, stream, 1)

	kv := map[string]string{}
	for i := 0; i+1 < len(stream[0].Values); i += 2 {
		kv[stream[0].Values[i]] = stream[0].Values[i+1]
	}
	assert.Equal(t, "BTC/USDT", kv["symbol"])
	assert.Equal(t, "binance", kv["buy_exchange"])
	assert.Equal(t, "kucoin", kv["sell_exchange"])
}

func TestStoreAndReadLatest(t *testing.T) {
	p, _ := newTestPublisher(t)
	ctx := context.Background()

	want := []types.Opportunity{sampleOpp()}
	require.NoError(t, p.StoreLatest(ctx, want))

	got, err := p.Latest(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, want[0].Symbol, got[0].Symbol)
	assert.Equal(t, want[0].BuyExchange, got[0].BuyExchange)
	assert.Equal(t, want[0].ProfitPercent, got[0].ProfitPercent)
}

func TestLatest_Missing(t *testing.T) {
	p, _ := newTestPublisher(t)

	got, err := p.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLatest_Expired(t *testing.T) {
	p, mr := newTestPublisher(t)
	ctx := context.Background()

	require.NoError(t, p.StoreLatest(ctx, []types.Opportunity{sampleOpp()}))
	mr.FastForward(latestTTL + time.Second)

	got, err := p.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
