package bot

import (
	"fmt"
	"strings"

	"github.com/you/arb-scan/internal/types"
)

const helpText = `📖 Help Guide:

/scan - Find arbitrage for the default pair
/scan_all - Scan the configured trading pairs
/status - Check exchange connections

The bot checks prices across:
• Binance • KuCoin • Huobi • OKX`

func renderStart(firstName string) string {
	var b strings.Builder
	if firstName != "" {
		fmt.Fprintf(&b, "🤖 Hello %s!\n\n", firstName)
	}
	b.WriteString("Crypto Arbitrage Bot is ready!\n\n")
	b.WriteString("Available commands:\n")
	b.WriteString("/scan - Scan the default pair for arbitrage\n")
	b.WriteString("/scan_all - Scan multiple trading pairs\n")
	b.WriteString("/status - Check bot status\n")
	b.WriteString("/help - Show this help message")
	return b.String()
}

func renderOpportunity(opp types.Opportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 %s Arbitrage Opportunity:\n\n", opp.Symbol)
	fmt.Fprintf(&b, "Buy at: %s\n", opp.BuyExchange)
	fmt.Fprintf(&b, "Price: $%.2f\n", opp.BuyPrice)
	fmt.Fprintf(&b, "Sell at: %s\n", opp.SellExchange)
	fmt.Fprintf(&b, "Price: $%.2f\n", opp.SellPrice)
	fmt.Fprintf(&b, "Profit: %.3f%%", opp.ProfitPercent)
	return b.String()
}

func renderRanked(opps []types.Opportunity) string {
	var b strings.Builder
	b.WriteString("💰 Top Arbitrage Opportunities:\n\n")
	for i, opp := range opps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, opp.Symbol)
		fmt.Fprintf(&b, "   📥 Buy: %s ($%.4f)\n", opp.BuyExchange, opp.BuyPrice)
		fmt.Fprintf(&b, "   📤 Sell: %s ($%.4f)\n", opp.SellExchange, opp.SellPrice)
		fmt.Fprintf(&b, "   💰 Profit: %.3f%%\n\n", opp.ProfitPercent)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderStatus(statuses []types.ExchangeStatus) string {
	up := 0
	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		if st.Up {
			up++
			lines = append(lines, "✅ "+st.Name)
		} else {
			lines = append(lines, "❌ "+st.Name)
		}
	}

	overall := "❌ Issues"
	if up > 0 {
		overall = "✅ Running"
	}

	var b strings.Builder
	b.WriteString("🤖 Bot Status:\n")
	fmt.Fprintf(&b, "Exchanges: %d\n", len(statuses))
	fmt.Fprintf(&b, "Status: %s\n\n", overall)
	b.WriteString("Exchange Status:\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}
