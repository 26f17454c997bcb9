package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if c.Prices.MaxBars != 200 || c.Freshness.MaxAge != 15*time.Minute {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.AlphaVantage.APIKey != "" {
		t.Fatalf("default config must not carry an API key")
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
instruments: [TSLA]
prices:
  interval_minutes: 1
  poll_interval: 1m
  max_bars: 50
  fetch_timeout: 30s
freshness:
  max_age: 5m
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Instruments) != 1 || c.Instruments[0] != "TSLA" {
		t.Fatalf("instruments not overlaid: %v", c.Instruments)
	}
	if c.Prices.MaxBars != 50 || c.Freshness.MaxAge != 5*time.Minute {
		t.Fatalf("prices not overlaid: %+v", c.Prices)
	}
	// Untouched sections keep their defaults.
	if c.Server.Port != 8080 {
		t.Fatalf("server defaults lost: %+v", c.Server)
	}
}

func TestValidateFetchTimeoutBelowPollInterval(t *testing.T) {
	c := Default()
	c.Prices.FetchTimeout = c.Prices.PollInterval
	if err := c.Validate(); err == nil {
		t.Fatalf("fetch timeout >= poll interval must fail validation")
	}
}

func TestValidateFusionMode(t *testing.T) {
	c := Default()
	c.Fusion.Mode = "both"
	if err := c.Validate(); err == nil {
		t.Fatalf("bad fusion mode must fail validation")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "k123")
	t.Setenv("SYMBOLS", "IBM,NVDA")
	t.Setenv("PORT", "9999")
	t.Setenv("PRICE_SERVICE_URL", "http://prices.test")

	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.AlphaVantage.APIKey != "k123" {
		t.Fatalf("api key override lost")
	}
	if len(c.Instruments) != 2 || c.Instruments[1] != "NVDA" {
		t.Fatalf("symbols override lost: %v", c.Instruments)
	}
	if c.Server.Port != 9999 {
		t.Fatalf("port override lost: %d", c.Server.Port)
	}
	if c.Fusion.PriceURL != "http://prices.test" {
		t.Fatalf("price url override lost: %s", c.Fusion.PriceURL)
	}
}
