package cex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type Kucoin struct {
	restURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewKucoin(restURL string, httpc *http.Client, log *zap.Logger) *Kucoin {
	if restURL == "" {
		restURL = "https://api.kucoin.com"
	}
	return &Kucoin{restURL: restURL, httpc: httpc, log: log}
}

func (k *Kucoin) Name() string { return "kucoin" }

type kucoinLevel1 struct {
	Code string `json:"code"`
	Data struct {
		Price   string `json:"price"`
		BestBid string `json:"bestBid"`
		BestAsk string `json:"bestAsk"`
	} `json:"data"`
}

func (k *Kucoin) BookTicker(ctx context.Context, symbol string) (types.Quote, error) {
	endpoint := k.restURL + "/api/v1/market/orderbook/level1?symbol=" + url.QueryEscape(joinSymbol(symbol, "-", false))
	var lr kucoinLevel1
	if err := getJSON(ctx, k.httpc, endpoint, &lr); err != nil {
		return types.Quote{}, err
	}
	if lr.Code != "200000" {
		return types.Quote{}, fmt.Errorf("kucoin: code %s", lr.Code)
	}
	bid, _ := strconv.ParseFloat(lr.Data.BestBid, 64)
	ask, _ := strconv.ParseFloat(lr.Data.BestAsk, 64)
	last, _ := strconv.ParseFloat(lr.Data.Price, 64)
	return types.Quote{
		Exchange: k.Name(),
		Symbol:   symbol,
		Bid:      bid,
		Ask:      ask,
		Last:     last,
		Ts:       time.Now(),
	}, nil
}

func (k *Kucoin) Ping(ctx context.Context) error {
	_, err := k.BookTicker(ctx, pingSymbol)
	return err
}
