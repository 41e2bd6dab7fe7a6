// Package bot is the Telegram command surface. It maps chat commands onto
// the scanner and renders structured results as text; all detection logic
// lives elsewhere.
package bot

import (
	"context"
	"strings"
	"time"

	"github.com/you/arb-scan/internal/config"
	"github.com/you/arb-scan/internal/scanner"
	"github.com/you/arb-scan/internal/types"
	"go.uber.org/zap"
)

type api interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type scanRunner interface {
	ScanSymbol(ctx context.Context, symbol string) (types.Opportunity, bool, error)
	Scan(ctx context.Context, symbols []string, maxResults int) scanner.Result
}

type statusProber interface {
	Status(ctx context.Context) []types.ExchangeStatus
}

// feed is the optional opportunity sink (redis). May be nil.
type feed interface {
	PublishOpportunity(ctx context.Context, opp types.Opportunity) error
	StoreLatest(ctx context.Context, opps []types.Opportunity) error
}

type Bot struct {
	cfg     *config.Config
	api     api
	scanner scanRunner
	prober  statusProber
	feed    feed
	log     *zap.Logger
}

func New(cfg *config.Config, tg api, sc scanRunner, prober statusProber, f feed, log *zap.Logger) *Bot {
	return &Bot{
		cfg:     cfg,
		api:     tg,
		scanner: sc,
		prober:  prober,
		feed:    f,
		log:     log,
	}
}

// Run long-polls Telegram until the context is cancelled. A failure handling
// one update never takes down the loop.
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for ctx.Err() == nil {
		updates, err := b.api.GetUpdates(ctx, offset, b.cfg.PollTimeout())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			if u.Message == nil || !strings.HasPrefix(u.Message.Text, "/") {
				continue
			}
			b.handleCommand(ctx, u)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, u Update) {
	chatID := u.Message.Chat.ID
	cmd := strings.Fields(u.Message.Text)[0]
	// strip the @BotName suffix of group commands
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		b.reply(ctx, chatID, renderStart(u.Message.From.FirstName))
	case "/help":
		b.reply(ctx, chatID, helpText)
	case "/scan":
		b.handleScan(ctx, chatID)
	case "/scan_all":
		b.handleScanAll(ctx, chatID)
	case "/status":
		b.reply(ctx, chatID, renderStatus(b.prober.Status(ctx)))
	default:
		b.reply(ctx, chatID, "Unknown command. Try /help.")
	}
}

func (b *Bot) handleScan(ctx context.Context, chatID int64) {
	symbol := b.cfg.DefaultSymbol
	b.reply(ctx, chatID, "🔍 Scanning "+symbol+" for arbitrage...")

	opp, ok, err := b.scanner.ScanSymbol(ctx, symbol)
	if err != nil {
		b.reply(ctx, chatID, "❌ No price data available for "+symbol+" right now.")
		return
	}
	if !ok {
		b.reply(ctx, chatID, "❌ No arbitrage opportunities found for "+symbol+".")
		return
	}
	b.publish(ctx, []types.Opportunity{opp})
	b.reply(ctx, chatID, renderOpportunity(opp))
}

func (b *Bot) handleScanAll(ctx context.Context, chatID int64) {
	b.reply(ctx, chatID, "🔍 Scanning multiple trading pairs...")

	res := b.scanner.Scan(ctx, b.cfg.Symbols, b.cfg.MaxResults)
	if res.NoData() {
		b.reply(ctx, chatID, "❌ No price data available from any exchange.")
		return
	}
	if len(res.Opportunities) == 0 {
		b.reply(ctx, chatID, "❌ No arbitrage opportunities found.")
		return
	}
	b.publish(ctx, res.Opportunities)
	b.reply(ctx, chatID, renderRanked(res.Opportunities))
}

func (b *Bot) publish(ctx context.Context, opps []types.Opportunity) {
	if b.feed == nil {
		return
	}
	for _, opp := range opps {
		if err := b.feed.PublishOpportunity(ctx, opp); err != nil {
			b.log.Warn("publish opportunity failed", zap.Error(err))
			break
		}
	}
	if err := b.feed.StoreLatest(ctx, opps); err != nil {
		b.log.Warn("store latest failed", zap.Error(err))
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.api.SendMessage(ctx, chatID, text); err != nil {
		b.log.Warn("sendMessage failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
