// Package cex holds the REST quote clients for the supported spot exchanges.
// Every client speaks the same Client interface so the rest of the system
// never cares which venue a quote came from.
package cex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/you/arb-scan/internal/config"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type Client interface {
	Name() string
	// BookTicker returns the current best bid/ask (and last trade price when
	// the venue reports one) for a symbol in "BASE/QUOTE" form.
	BookTicker(ctx context.Context, symbol string) (types.Quote, error)
	// Ping probes venue reachability with a lightweight public request.
	Ping(ctx context.Context) error
}

// New builds the set of enabled clients from explicit config. Unknown
// exchange names fail loudly here rather than during a scan.
func New(cfg *config.Config, log *zap.Logger) ([]Client, error) {
	names := make([]string, 0, len(cfg.Exchanges))
	for name := range cfg.Exchanges {
		names = append(names, name)
	}
	sort.Strings(names)

	httpc := &http.Client{Timeout: cfg.FetchTimeout()}
	clients := make([]Client, 0, len(names))
	for _, name := range names {
		ec := cfg.Exchanges[name]
		if !ec.Enabled {
			continue
		}
		switch name {
		case "binance":
			clients = append(clients, NewBinance(ec.RestURL, httpc, log))
		case "kucoin":
			clients = append(clients, NewKucoin(ec.RestURL, httpc, log))
		case "huobi":
			clients = append(clients, NewHuobi(ec.RestURL, httpc, log))
		case "okx":
			clients = append(clients, NewOKX(ec.RestURL, httpc, log))
		default:
			return nil, fmt.Errorf("cex: unknown exchange %q in config", name)
		}
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("cex: no exchanges enabled")
	}
	return clients, nil
}

// joinSymbol converts "BTC/USDT" to the venue's native form.
func joinSymbol(symbol, sep string, lower bool) string {
	s := strings.ReplaceAll(symbol, "/", sep)
	if lower {
		return strings.ToLower(s)
	}
	return strings.ToUpper(s)
}

func getJSON(ctx context.Context, httpc *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// pingSymbol is the pair every venue is expected to list.
const pingSymbol = "BTC/USDT"
