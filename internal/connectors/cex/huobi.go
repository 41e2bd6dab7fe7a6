package cex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type Huobi struct {
	restURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewHuobi(restURL string, httpc *http.Client, log *zap.Logger) *Huobi {
	if restURL == "" {
		restURL = "https://api.huobi.pro"
	}
	return &Huobi{restURL: restURL, httpc: httpc, log: log}
}

func (h *Huobi) Name() string { return "huobi" }

type huobiMerged struct {
	Status string `json:"status"`
	ErrMsg string `json:"err-msg"`
	Tick   struct {
		Bid   []float64 `json:"bid"` // [price, size]
		Ask   []float64 `json:"ask"`
		Close float64   `json:"close"`
	} `json:"tick"`
}

func (h *Huobi) BookTicker(ctx context.Context, symbol string) (types.Quote, error) {
	endpoint := h.restURL + "/market/detail/merged?symbol=" + url.QueryEscape(joinSymbol(symbol, "", true))
	var mr huobiMerged
	if err := getJSON(ctx, h.httpc, endpoint, &mr); err != nil {
		return types.Quote{}, err
	}
	if mr.Status != "ok" {
		return types.Quote{}, fmt.Errorf("huobi: status %s: %s", mr.Status, mr.ErrMsg)
	}
	var bid, ask float64
	if len(mr.Tick.Bid) > 0 {
		bid = mr.Tick.Bid[0]
	}
	if len(mr.Tick.Ask) > 0 {
		ask = mr.Tick.Ask[0]
	}
	return types.Quote{
		Exchange: h.Name(),
		Symbol:   symbol,
		Bid:      bid,
		Ask:      ask,
		Last:     mr.Tick.Close,
		Ts:       time.Now(),
	}, nil
}

func (h *Huobi) Ping(ctx context.Context) error {
	_, err := h.BookTicker(ctx, pingSymbol)
	return err
}
