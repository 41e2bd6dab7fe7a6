// Package redisfeed publishes detected opportunities to Redis so other
// processes (dashboards, alerting) can consume them without talking to the
// exchanges themselves.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/arb-scan/internal/config"
	"github.com/you/arb-scan/internal/types"
)

const latestTTL = 5 * time.Minute

type Publisher struct {
	rdb      *redis.Client
	stream   string
	latestNS string
}

func NewPublisher(cfg *config.Config) *Publisher {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
	})
	return &Publisher{
		rdb:      rdb,
		stream:   cfg.Redis.Stream,
		latestNS: cfg.Redis.LatestNS,
	}
}

// PublishOpportunity appends one opportunity to the stream.
func (p *Publisher) PublishOpportunity(ctx context.Context, opp types.Opportunity) error {
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"symbol":         opp.Symbol,
			"buy_exchange":   opp.BuyExchange,
			"sell_exchange":  opp.SellExchange,
			"buy_price":      opp.BuyPrice,
			"sell_price":     opp.SellPrice,
			"profit_percent": opp.ProfitPercent,
			"ts_ms":          opp.Ts.UnixMilli(),
		},
	}).Err()
}

// StoreLatest keeps the most recent ranked list under a short-lived key so
// consumers see the newest scan or nothing, never a stale cycle.
func (p *Publisher) StoreLatest(ctx context.Context, opps []types.Opportunity) error {
	b, err := json.Marshal(opps)
	if err != nil {
		return fmt.Errorf("redisfeed: marshal latest: %w", err)
	}
	return p.rdb.Set(ctx, p.latestNS+"ranked", b, latestTTL).Err()
}

// Latest returns the most recently stored ranked list, or nil when the key
// has expired or was never written.
func (p *Publisher) Latest(ctx context.Context) ([]types.Opportunity, error) {
	b, err := p.rdb.Get(ctx, p.latestNS+"ranked").Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var opps []types.Opportunity
	if err := json.Unmarshal(b, &opps); err != nil {
		return nil, fmt.Errorf("redisfeed: unmarshal latest: %w", err)
	}
	return opps, nil
}

func (p *Publisher) Close() error { return p.rdb.Close() }
