package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPServer.Port)
	assert.Equal(t, "https://nationalbank.kz/rss/get_rates.cfm", cfg.Feed.URL)
	assert.Equal(t, 10*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, "KZT", cfg.Feed.BaseCurrency)
	assert.Equal(t, []string{"RUB", "EUR", "USD", "BYN", "CAD", "CNY", "JPY", "KGS", "AUD"}, cfg.Feed.Currencies)
	assert.Equal(t, 31, cfg.Feed.MaxPeriod)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FEED_URL", "http://localhost:1234/rss/get_rates.cfm")
	t.Setenv("FEED_TIMEOUT", "3s")
	t.Setenv("OVERVIEW_CURRENCIES", "usd, eur")
	t.Setenv("BASE_CURRENCY", "kzt")
	t.Setenv("MAX_PERIOD", "14")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPServer.Port)
	assert.Equal(t, "http://localhost:1234/rss/get_rates.cfm", cfg.Feed.URL)
	assert.Equal(t, 3*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.Feed.Currencies)
	assert.Equal(t, "KZT", cfg.Feed.BaseCurrency)
	assert.Equal(t, 14, cfg.Feed.MaxPeriod)
}

func TestLoadRejectsNonPositivePeriod(t *testing.T) {
	t.Setenv("MAX_PERIOD", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestFeedLocation(t *testing.T) {
	cfg := &Config{Feed: Feed{Location: "UTC"}}
	loc, err := cfg.FeedLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Feed.Location = "Nowhere/Invalid"
	_, err = cfg.FeedLocation()
	assert.Error(t, err)
}
