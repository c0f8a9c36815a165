package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
environment: development
server:
  port: 8080
backend:
  type: kafka
quotes:
  api_key: test-key
  symbols: [AAPL, MSFT]
analysis:
  near_band_pct: 0.02
watchlist:
  symbols: [AAPL]
  schedule: "*/15 * * * *"
notify:
  enabled: true
  rate_per_min: 10
  preferences:
    kinds: [entry, choch]
    min_quality: 40
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend.Type != "kafka" {
		t.Errorf("backend = %q", cfg.Backend.Type)
	}
	if len(cfg.Quotes.Symbols) != 2 {
		t.Errorf("symbols = %v", cfg.Quotes.Symbols)
	}
	if cfg.Watchlist.Schedule != "*/15 * * * *" {
		t.Errorf("schedule = %q", cfg.Watchlist.Schedule)
	}
	if got := cfg.Notify.Preferences.MinQuality; got != 40 {
		t.Errorf("min_quality = %d", got)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	bad := `
environment: development
backend:
  type: postgres
quotes:
  api_key: k
  symbols: [AAPL]
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for backend type")
	}
}

func TestLoadRejectsNearBandOutOfRange(t *testing.T) {
	bad := `
environment: development
backend:
  type: kafka
quotes:
  api_key: k
  symbols: [AAPL]
analysis:
  near_band_pct: 0.9
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for near_band_pct")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("QUOTES_API_KEY", "env-key")
	t.Setenv("WATCHLIST", "TSLA,NVDA")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Quotes.APIKey != "env-key" {
		t.Errorf("api key not overridden: %q", cfg.Quotes.APIKey)
	}
	if len(cfg.Watchlist.Symbols) != 2 || cfg.Watchlist.Symbols[0] != "TSLA" {
		t.Errorf("watchlist = %v", cfg.Watchlist.Symbols)
	}
	if cfg.Notify.TelegramBot != "bot-token" {
		t.Errorf("telegram token not overridden")
	}
}
