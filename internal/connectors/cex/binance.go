package cex

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type Binance struct {
	restURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewBinance(restURL string, httpc *http.Client, log *zap.Logger) *Binance {
	if restURL == "" {
		restURL = "https://api.binance.com"
	}
	return &Binance{restURL: restURL, httpc: httpc, log: log}
}

func (b *Binance) Name() string { return "binance" }

type binanceBookTicker struct {
	Symbol   string `json:"symbol"`
	BidPrice string `json:"bidPrice"`
	AskPrice string `json:"askPrice"`
}

func (b *Binance) BookTicker(ctx context.Context, symbol string) (types.Quote, error) {
	endpoint := b.restURL + "/api/v3/ticker/bookTicker?symbol=" + url.QueryEscape(joinSymbol(symbol, "", false))
	var br binanceBookTicker
	if err := getJSON(ctx, b.httpc, endpoint, &br); err != nil {
		return types.Quote{}, err
	}
	bid, _ := strconv.ParseFloat(br.BidPrice, 64)
	ask, _ := strconv.ParseFloat(br.AskPrice, 64)
	return types.Quote{
		Exchange: b.Name(),
		Symbol:   symbol,
		Bid:      bid,
		Ask:      ask,
		Ts:       time.Now(),
	}, nil
}

func (b *Binance) Ping(ctx context.Context) error {
	_, err := b.BookTicker(ctx, pingSymbol)
	return err
}
