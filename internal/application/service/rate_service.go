// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	"github.com/damon-houk/nbk-rate-viewer/internal/domain/repository"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/middleware"
)

const (
	// DefaultPeriod is the number of days shown when no period is requested
	DefaultPeriod = 7
	// CryptoCurrency is the only currency the crypto page shows
	CryptoCurrency = "USD"

	weekDays = 7
)

// DefaultOverviewCurrencies are the currencies on the landing page
var DefaultOverviewCurrencies = []string{"RUB", "EUR", "USD", "BYN", "CAD", "CNY", "JPY", "KGS", "AUD"}

// Overview is the landing page aggregation
type Overview struct {
	// Dates of the 7-day window, oldest first
	Dates      []string
	Currencies []string
	// Rates per currency, most recent first
	Rates       map[string][]float64
	WeekChanges map[string]float64
}

// RateService fetches rates from the feed and aggregates them over dates and currencies
type RateService struct {
	repo       repository.ExchangeRateRepository
	logger     logger.Logger
	now        func() time.Time
	currencies []string
}

// NewRateService creates a new rate service
func NewRateService(repo repository.ExchangeRateRepository, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		repo:       repo,
		logger:     log,
		now:        time.Now,
		currencies: DefaultOverviewCurrencies,
	}
}

// SetClock replaces the clock used to compute feed dates
func (s *RateService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetOverviewCurrencies replaces the landing page currency list
func (s *RateService) SetOverviewCurrencies(codes []string) {
	if len(codes) > 0 {
		s.currencies = append([]string(nil), codes...)
	}
}

// OverviewCurrencies returns the landing page currency list
func (s *RateService) OverviewCurrencies() []string {
	return append([]string(nil), s.currencies...)
}

// Today returns the current feed date
func (s *RateService) Today() string {
	return entity.FormatFeedDate(s.now())
}

// FetchRate returns the rate of currencyCode on date (dd.MM.yyyy), or 0 when the feed does not list it
func (s *RateService) FetchRate(ctx context.Context, date, currencyCode string) (float64, error) {
	rate, err := s.repo.FindRate(ctx, entity.RateQuery{Date: date, CurrencyCode: currencyCode})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rate for %s on %s: %w", currencyCode, date, err)
	}
	return rate.Rate, nil
}

// FetchRatesForPeriod fetches the last days rates concurrently, most recent first
func (s *RateService) FetchRatesForPeriod(ctx context.Context, currencyCode string, days int) ([]float64, error) {
	dates, err := s.datesBack(days)
	if err != nil {
		return nil, err
	}
	return s.fetchConcurrently(ctx, currencyCode, dates)
}

// FetchRatesForWeek fetches the last seven days one after another, most recent first
func (s *RateService) FetchRatesForWeek(ctx context.Context, currencyCode string) ([]float64, error) {
	dates, err := s.datesBack(weekDays)
	if err != nil {
		return nil, err
	}
	return s.fetchSequentially(ctx, currencyCode, dates)
}

// CurrencySeries returns the rate on specificDate when given, otherwise the
// last period days in chronological order
func (s *RateService) CurrencySeries(ctx context.Context, currencyCode, specificDate string, period int) (*entity.RateSeries, error) {
	requestID := middleware.GetRequestID(ctx)

	if specificDate != "" {
		rate, err := s.FetchRate(ctx, specificDate, currencyCode)
		if err != nil {
			return nil, err
		}

		return &entity.RateSeries{
			Currency: currencyCode,
			Dates:    []string{specificDate},
			Rates:    []float64{rate},
		}, nil
	}

	pinned := s.pinned()

	dates, err := pinned.datesBack(period)
	if err != nil {
		return nil, err
	}

	rates, err := pinned.FetchRatesForPeriod(ctx, currencyCode, period)
	if err != nil {
		return nil, err
	}

	series := &entity.RateSeries{
		Currency: currencyCode,
		Dates:    dates,
		Rates:    rates,
	}
	series.Reverse()

	s.logger.Debug("Currency series assembled", map[string]interface{}{
		"request_id": requestID,
		"currency":   currencyCode,
		"period":     period,
	})

	return series, nil
}

// CryptoSeries is CurrencySeries fixed to USD over the default period
func (s *RateService) CryptoSeries(ctx context.Context, specificDate string) (*entity.RateSeries, error) {
	return s.CurrencySeries(ctx, CryptoCurrency, specificDate, DefaultPeriod)
}

// Overview fetches a week of rates for every landing page currency and the
// change over that week
func (s *RateService) Overview(ctx context.Context) (*Overview, error) {
	requestID := middleware.GetRequestID(ctx)

	pinned := s.pinned()

	dates, err := pinned.datesBack(weekDays)
	if err != nil {
		return nil, err
	}

	currencies := s.OverviewCurrencies()
	results := make([][]float64, len(currencies))

	g, gctx := errgroup.WithContext(ctx)
	for i, code := range currencies {
		g.Go(func() error {
			rates, err := pinned.FetchRatesForWeek(gctx, code)
			if err != nil {
				return err
			}
			results[i] = rates
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to build overview", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	overview := &Overview{
		Dates:       make([]string, len(dates)),
		Currencies:  currencies,
		Rates:       make(map[string][]float64, len(currencies)),
		WeekChanges: make(map[string]float64, len(currencies)),
	}

	for i, date := range dates {
		overview.Dates[len(dates)-1-i] = date
	}

	for i, code := range currencies {
		overview.Rates[code] = results[i]
		overview.WeekChanges[code] = entity.WeekChange(results[i])
	}

	s.logger.Info("Overview assembled", map[string]interface{}{
		"request_id": requestID,
		"currencies": len(currencies),
	})

	return overview, nil
}

// pinned returns a copy of s whose clock is frozen at the current instant,
// so an aggregate's dates and its fetches share one window
func (s *RateService) pinned() *RateService {
	now := s.now()
	c := *s
	c.now = func() time.Time { return now }
	return &c
}

// datesBack returns feed dates from today back to days-1 days ago
func (s *RateService) datesBack(days int) ([]string, error) {
	if days < 0 {
		return nil, fmt.Errorf("days must not be negative, got %d", days)
	}

	today := s.now()
	dates := make([]string, days)
	for i := range dates {
		dates[i] = entity.FormatFeedDate(today.AddDate(0, 0, -i))
	}
	return dates, nil
}

func (s *RateService) fetchConcurrently(ctx context.Context, currencyCode string, dates []string) ([]float64, error) {
	rates := make([]float64, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	for i, date := range dates {
		g.Go(func() error {
			rate, err := s.FetchRate(gctx, date, currencyCode)
			if err != nil {
				return err
			}
			rates[i] = rate
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *RateService) fetchSequentially(ctx context.Context, currencyCode string, dates []string) ([]float64, error) {
	rates := make([]float64, 0, len(dates))
	for _, date := range dates {
		rate, err := s.FetchRate(ctx, date, currencyCode)
		if err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
