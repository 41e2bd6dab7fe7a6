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

type OKX struct {
	restURL string
	httpc   *http.Client
	log     *zap.Logger
}

func NewOKX(restURL string, httpc *http.Client, log *zap.Logger) *OKX {
	if restURL == "" {
		restURL = "https://www.okx.com"
	}
	return &OKX{restURL: restURL, httpc: httpc, log: log}
}

func (o *OKX) Name() string { return "okx" }

type okxTicker struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		BidPx string `json:"bidPx"`
		AskPx string `json:"askPx"`
		Last  string `json:"last"`
	} `json:"data"`
}

func (o *OKX) BookTicker(ctx context.Context, symbol string) (types.Quote, error) {
	endpoint := o.restURL + "/api/v5/market/ticker?instId=" + url.QueryEscape(joinSymbol(symbol, "-", false))
	var tr okxTicker
	if err := getJSON(ctx, o.httpc, endpoint, &tr); err != nil {
		return types.Quote{}, err
	}
	if tr.Code != "0" || len(tr.Data) == 0 {
		return types.Quote{}, fmt.Errorf("okx: code %s: %s", tr.Code, tr.Msg)
	}
	bid, _ := strconv.ParseFloat(tr.Data[0].BidPx, 64)
	ask, _ := strconv.ParseFloat(tr.Data[0].AskPx, 64)
	last, _ := strconv.ParseFloat(tr.Data[0].Last, 64)
	return types.Quote{
		Exchange: o.Name(),
		Symbol:   symbol,
		Bid:      bid,
		Ask:      ask,
		Last:     last,
		Ts:       time.Now(),
	}, nil
}

func (o *OKX) Ping(ctx context.Context) error {
	_, err := o.BookTicker(ctx, pingSymbol)
	return err
}
