package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ExchangeCfg struct {
	Enabled bool   `yaml:"enabled"`
	RestURL string `yaml:"rest_url"`
}

type Config struct {
	Symbols          []string `yaml:"symbols"`
	DefaultSymbol    string   `yaml:"default_symbol"`
	MinProfitPercent float64  `yaml:"min_profit_percent"`
	MaxResults       int      `yaml:"max_results"`

	Exchanges map[string]ExchangeCfg `yaml:"exchanges"`

	Telegram struct {
		Token  string `yaml:"token"`
		APIURL string `yaml:"api_url"`
	} `yaml:"telegram"`

	Redis struct {
		Addr     string `yaml:"addr"`
		DB       int    `yaml:"db"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Stream   string `yaml:"stream"`
		LatestNS string `yaml:"latest_ns"`
	} `yaml:"redis"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"metrics"`

	BinanceWS struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"binance_ws"`

	Timings struct {
		ScanDelayMs    int `yaml:"scan_delay_ms"`
		FetchTimeoutMs int `yaml:"fetch_timeout_ms"`
		PollTimeoutSec int `yaml:"poll_timeout_sec"`
	} `yaml:"timings"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if len(c.Symbols) == 0 {
		c.Symbols = []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "DOT/USDT", "LINK/USDT"}
	}
	if c.DefaultSymbol == "" {
		c.DefaultSymbol = c.Symbols[0]
	}
	if c.MinProfitPercent == 0 {
		c.MinProfitPercent = 0.1
	}
	if c.MaxResults == 0 {
		c.MaxResults = 5
	}
	if c.Exchanges == nil {
		c.Exchanges = map[string]ExchangeCfg{
			"binance": {Enabled: true},
			"kucoin":  {Enabled: true},
			"huobi":   {Enabled: true},
			"okx":     {Enabled: true},
		}
	}
	if c.Timings.ScanDelayMs == 0 {
		c.Timings.ScanDelayMs = 100
	}
	if c.Timings.FetchTimeoutMs == 0 {
		c.Timings.FetchTimeoutMs = 6000
	}
	if c.Timings.PollTimeoutSec == 0 {
		c.Timings.PollTimeoutSec = 30
	}
	if c.Redis.Stream == "" {
		c.Redis.Stream = "opp:stream"
	}
	if c.Redis.LatestNS == "" {
		c.Redis.LatestNS = "opp:latest:"
	}
	if tok := os.Getenv("TELEGRAM_BOT_TOKEN"); tok != "" {
		c.Telegram.Token = tok
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.MinProfitPercent < 0 {
		return fmt.Errorf("config: min_profit_percent must be >= 0, got %v", c.MinProfitPercent)
	}
	if c.MaxResults < 1 {
		return fmt.Errorf("config: max_results must be >= 1, got %d", c.MaxResults)
	}
	enabled := 0
	for _, e := range c.Exchanges {
		if e.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		return fmt.Errorf("config: no exchanges enabled")
	}
	return nil
}

func (c *Config) ScanDelay() time.Duration {
	return time.Duration(c.Timings.ScanDelayMs) * time.Millisecond
}
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Timings.FetchTimeoutMs) * time.Millisecond
}
func (c *Config) PollTimeout() time.Duration {
	return time.Duration(c.Timings.PollTimeoutSec) * time.Second
}
