package detector

import (
	"sort"
	"time"

	"github.com/you/arb-scan/internal/types"
)

// Detect finds the best cross-exchange spread in a set of quotes for one
// symbol: buy where the ask is cheapest, sell where the bid is richest. Any
// other exchange pairing is dominated, so two extremum scans suffice.
//
// The second return value is false when no opportunity exists: fewer than two
// quotes, a non-positive spread, a spread below the threshold, or both
// extremes landing on the same exchange. Ties are broken by lexicographic
// exchange id so the result is deterministic.
func Detect(quotes types.QuoteSet, symbol string, minProfitPercent float64) (types.Opportunity, bool) {
	if len(quotes) < 2 {
		return types.Opportunity{}, false
	}

	names := make([]string, 0, len(quotes))
	for name := range quotes {
		names = append(names, name)
	}
	sort.Strings(names)

	var buyEx, sellEx string
	var lowestAsk, highestBid float64
	for _, name := range names {
		q := quotes[name]
		if buyEx == "" || q.Ask < lowestAsk {
			buyEx, lowestAsk = name, q.Ask
		}
		if sellEx == "" || q.Bid > highestBid {
			sellEx, highestBid = name, q.Bid
		}
	}

	if lowestAsk <= 0 || highestBid <= lowestAsk {
		return types.Opportunity{}, false
	}
	// When both extremes land on one exchange, a tied extreme elsewhere still
	// makes a real cross-exchange pair; prefer that before giving up.
	if buyEx == sellEx {
		for _, name := range names {
			if name != buyEx && quotes[name].Bid == highestBid {
				sellEx = name
				break
			}
		}
	}
	if buyEx == sellEx {
		for _, name := range names {
			if name != sellEx && quotes[name].Ask == lowestAsk {
				buyEx = name
				break
			}
		}
	}
	// A single exchange's own bid/ask cannot be arbitraged.
	if buyEx == sellEx {
		return types.Opportunity{}, false
	}

	profit := (highestBid - lowestAsk) / lowestAsk * 100
	if profit <= minProfitPercent {
		return types.Opportunity{}, false
	}

	return types.Opportunity{
		Symbol:        symbol,
		BuyExchange:   buyEx,
		SellExchange:  sellEx,
		BuyPrice:      lowestAsk,
		SellPrice:     highestBid,
		ProfitPercent: profit,
		Ts:            time.Now(),
	}, true
}
