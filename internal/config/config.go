package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPServer HTTPServer
	Feed       Feed
	Log        Log
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Feed struct {
	URL          string        `env:"FEED_URL" env-default:"https://nationalbank.kz/rss/get_rates.cfm"`
	Timeout      time.Duration `env:"FEED_TIMEOUT" env-default:"10s"`
	Location     string        `env:"FEED_LOCATION" env-default:"Asia/Almaty"`
	BaseCurrency string        `env:"BASE_CURRENCY" env-default:"KZT"`
	Currencies   []string      `env:"OVERVIEW_CURRENCIES" env-separator:"," env-default:"RUB,EUR,USD,BYN,CAD,CNY,JPY,KGS,AUD"`
	MaxPeriod    int           `env:"MAX_PERIOD" env-default:"31"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

// Load reads an optional .env file and then the process environment
func Load() (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	for i, code := range cfg.Feed.Currencies {
		cfg.Feed.Currencies[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	cfg.Feed.BaseCurrency = strings.ToUpper(cfg.Feed.BaseCurrency)

	if cfg.Feed.MaxPeriod < 1 {
		return nil, fmt.Errorf("MAX_PERIOD must be positive, got %d", cfg.Feed.MaxPeriod)
	}

	return cfg, nil
}

// FeedLocation resolves the time zone used to compute feed dates
func (c *Config) FeedLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Feed.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid FEED_LOCATION %q: %w", c.Feed.Location, err)
	}
	return loc, nil
}
