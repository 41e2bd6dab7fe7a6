package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT", "ADA/USDT", "DOT/USDT", "LINK/USDT"}, cfg.Symbols)
	assert.Equal(t, "BTC/USDT", cfg.DefaultSymbol)
	assert.Equal(t, 0.1, cfg.MinProfitPercent)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 100*time.Millisecond, cfg.ScanDelay())
	assert.Equal(t, 6*time.Second, cfg.FetchTimeout())
	assert.Len(t, cfg.Exchanges, 4)
	assert.True(t, cfg.Exchanges["binance"].Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
symbols: ["SOL/USDT"]
min_profit_percent: 0.5
max_results: 3
exchanges:
  binance:
    enabled: true
  okx:
    enabled: false
timings:
  scan_delay_ms: 250
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"SOL/USDT"}, cfg.Symbols)
	assert.Equal(t, "SOL/USDT", cfg.DefaultSymbol)
	assert.Equal(t, 0.5, cfg.MinProfitPercent)
	assert.Equal(t, 3, cfg.MaxResults)
	assert.Equal(t, 250*time.Millisecond, cfg.ScanDelay())
	assert.False(t, cfg.Exchanges["okx"].Enabled)
}

func TestLoad_TokenFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
}

func TestLoad_RejectsNoEnabledExchanges(t *testing.T) {
	_, err := Load(writeConfig(t, `
exchanges:
  binance:
    enabled: false
`))
	assert.Error(t, err)
}

func TestLoad_RejectsNegativeThreshold(t *testing.T) {
	_, err := Load(writeConfig(t, "min_profit_percent: -1"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
