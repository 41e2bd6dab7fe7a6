package types

import "time"

// Quote is one exchange's best-bid/best-ask snapshot for one symbol at fetch
// time. Immutable once created; discarded after a single detection cycle.
type Quote struct {
	Exchange string
	Symbol   string
	Bid      float64
	Ask      float64
	Last     float64
	Ts       time.Time
}

// Valid reports whether the quote carries a usable two-sided book.
func (q Quote) Valid() bool {
	return q.Bid > 0 && q.Ask > 0
}

// QuoteSet maps exchange id -> quote, all for the same symbol. Only exchanges
// that returned a valid quote are present; failed fetches are simply absent.
type QuoteSet map[string]Quote

// Opportunity is a cross-exchange spread worth acting on: buy at the cheapest
// ask, sell at the richest bid. SellPrice > BuyPrice > 0 always holds for any
// emitted opportunity.
type Opportunity struct {
	Symbol        string    `json:"symbol"`
	BuyExchange   string    `json:"buy_exchange"`
	SellExchange  string    `json:"sell_exchange"`
	BuyPrice      float64   `json:"buy_price"`
	SellPrice     float64   `json:"sell_price"`
	ProfitPercent float64   `json:"profit_percent"`
	Ts            time.Time `json:"ts"`
}

// ExchangeStatus is the result of a reachability probe for one exchange.
type ExchangeStatus struct {
	Name string
	Up   bool
	Err  string
}
