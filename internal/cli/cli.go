// Package cli wires configuration, logging and services behind the nbkrates command
package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/damon-houk/nbk-rate-viewer/internal/application/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/config"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/api"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/db"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
)

// app holds everything a subcommand needs once configuration is loaded
type app struct {
	cfg        *config.Config
	log        logger.Logger
	rates      *service.RateService
	conversion *service.ConversionService
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(config.Load).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree; load supplies the configuration
func NewRootCommand(load func() (*config.Config, error)) *cobra.Command {
	var logLevel string
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "nbkrates",
		Short:         "National Bank of Kazakhstan exchange rate viewer",
		Version:       "v1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			return a.init(cfg, cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(
		serveCommand(a),
		rateCommand(a),
		overviewCommand(a),
		convertCommand(a),
	)

	return rootCmd
}

func (a *app) init(cfg *config.Config, cmd *cobra.Command) error {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	loc, err := cfg.FeedLocation()
	if err != nil {
		return err
	}

	// Logs go to stderr so command output stays machine readable
	log := logger.NewJSONLogger(cmd.ErrOrStderr(), level)
	logger.SetDefaultLogger(log)

	client := api.NewNBKClient(cfg.Feed.URL, &http.Client{Timeout: cfg.Feed.Timeout}, log)
	repo := db.NewFeedExchangeRateRepository(client, log)

	rates := service.NewRateService(repo, log)
	rates.SetClock(func() time.Time { return time.Now().In(loc) })
	rates.SetOverviewCurrencies(cfg.Feed.Currencies)

	a.cfg = cfg
	a.log = log
	a.rates = rates
	a.conversion = service.NewConversionService(rates, cfg.Feed.BaseCurrency, log)

	log.Debug("Configuration loaded", map[string]interface{}{
		"feed_url":      cfg.Feed.URL,
		"feed_location": cfg.Feed.Location,
		"base_currency": cfg.Feed.BaseCurrency,
		"currencies":    cfg.Feed.Currencies,
	})

	return nil
}
