package binancews

import (
	"fmt"
	"sync"
)

// BookCache holds the latest best bid/ask per symbol, written by the WS
// reader and read by anyone needing a fresh Binance book.
type BookCache struct {
	mu   sync.RWMutex
	bids map[string]float64
	asks map[string]float64
}

func NewBookCache() *BookCache {
	return &BookCache{
		bids: make(map[string]float64, 64),
		asks: make(map[string]float64, 64),
	}
}

func (bc *BookCache) Set(symbol string, bid, ask float64) {
	bc.mu.Lock()
	bc.bids[symbol] = bid
	bc.asks[symbol] = ask
	bc.mu.Unlock()
}

func (bc *BookCache) BestBidAsk(symbol string) (float64, float64, error) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	bid := bc.bids[symbol]
	ask := bc.asks[symbol]
	if bid == 0 || ask == 0 {
		return 0, 0, fmt.Errorf("empty book for %s", symbol)
	}
	return bid, ask, nil
}

func (bc *BookCache) Has(symbol string) bool {
	bc.mu.RLock()
	_, ok1 := bc.bids[symbol]
	_, ok2 := bc.asks[symbol]
	bc.mu.RUnlock()
	return ok1 && ok2
}
