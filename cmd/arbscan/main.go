package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/you/arb-scan/internal/bot"
	"github.com/you/arb-scan/internal/config"
	"github.com/you/arb-scan/internal/connectors/cex"
	"github.com/you/arb-scan/internal/connectors/cex/binancews"
	"github.com/you/arb-scan/internal/connectors/redisfeed"
	"github.com/you/arb-scan/internal/marketdata"
	"github.com/you/arb-scan/internal/metrics"
	"github.com/you/arb-scan/internal/scanner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.StacktraceKey = "stacktrace"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	return cfg.Build()
}

func main() {
	cfgPath := flag.String("config", "./config.yaml", "path to config file")
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// .env is optional; real deployments set the token in the environment
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.Telegram.Token == "" {
		logger.Fatal("TELEGRAM_BOT_TOKEN not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Warn("received signal, shutting down...")
		cancel()
	}()

	metrics.Serve(ctx, cfg.Metrics.ListenAddr, nil, logger)

	clients, err := cex.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build exchange clients", zap.Error(err))
	}

	if cfg.BinanceWS.Enabled {
		book := binancews.NewBookCache()
		go binancews.Run(ctx, cfg.BinanceWS.URL, book, cfg.Symbols, logger)
		for i, c := range clients {
			if c.Name() == "binance" {
				clients[i] = binancews.NewClient(book, c)
			}
		}
	}

	fetcher := marketdata.NewFetcher(clients, cfg.FetchTimeout(), cfg.DefaultSymbol, logger)
	sc := scanner.New(fetcher, scanner.DelayPacer{Delay: cfg.ScanDelay()}, cfg.MinProfitPercent, logger)

	var feedPub *redisfeed.Publisher
	if cfg.Redis.Addr != "" {
		feedPub = redisfeed.NewPublisher(cfg)
		defer feedPub.Close()
	}

	tg := bot.NewTelegramAPI(cfg.Telegram.Token, cfg.Telegram.APIURL, cfg.PollTimeout())
	var b *bot.Bot
	if feedPub != nil {
		b = bot.New(cfg, tg, sc, fetcher, feedPub, logger)
	} else {
		b = bot.New(cfg, tg, sc, fetcher, nil, logger)
	}

	logger.Info("bot starting",
		zap.Strings("symbols", cfg.Symbols),
		zap.Float64("min_profit_percent", cfg.MinProfitPercent),
		zap.Int("exchanges", len(clients)),
	)
	b.Run(ctx)
	logger.Info("arb-scan finished")
}
