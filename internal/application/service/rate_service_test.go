// internal/application/service/rate_service_test.go
package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/mocks"
)

var testToday = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestRateService(repo *mocks.MockExchangeRateRepository) *RateService {
	s := NewRateService(repo, logger.NewJSONLogger(nil, logger.ErrorLevel))
	s.SetClock(func() time.Time { return testToday })
	return s
}

// expectRates registers one feed lookup per rate, starting today and going back a day each
func expectRates(repo *mocks.MockExchangeRateRepository, code string, rates ...float64) {
	for i, rate := range rates {
		query := entity.NewRateQuery(testToday.AddDate(0, 0, -i), code)
		repo.On("FindRate", mock.Anything, query).
			Return(&entity.ExchangeRate{Currency: code, Date: query.Date, Rate: rate}, nil).Once()
	}
}

func TestFetchRate(t *testing.T) {
	repo := new(mocks.MockExchangeRateRepository)
	s := newTestRateService(repo)
	ctx := context.Background()

	t.Run("Known currency", func(t *testing.T) {
		repo.On("FindRate", ctx, entity.RateQuery{Date: "15.01.2024", CurrencyCode: "USD"}).
			Return(&entity.ExchangeRate{Currency: "USD", Date: "15.01.2024", Rate: 453.18}, nil).Once()

		rate, err := s.FetchRate(ctx, "15.01.2024", "USD")
		assert.NoError(t, err)
		assert.Equal(t, 453.18, rate)
		repo.AssertExpectations(t)
	})

	t.Run("Absent currency", func(t *testing.T) {
		repo.On("FindRate", ctx, entity.RateQuery{Date: "15.01.2024", CurrencyCode: "ZZZ"}).
			Return(&entity.ExchangeRate{Currency: "ZZZ", Date: "15.01.2024"}, nil).Once()

		rate, err := s.FetchRate(ctx, "15.01.2024", "ZZZ")
		assert.NoError(t, err)
		assert.Equal(t, 0.0, rate)
		repo.AssertExpectations(t)
	})

	t.Run("Feed failure", func(t *testing.T) {
		repo.On("FindRate", ctx, entity.RateQuery{Date: "15.01.2024", CurrencyCode: "EUR"}).
			Return(nil, domainservice.ErrFeedUnavailable).Once()

		_, err := s.FetchRate(ctx, "15.01.2024", "EUR")
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domainservice.ErrFeedUnavailable))
		repo.AssertExpectations(t)
	})
}

func TestFetchRatesForPeriod(t *testing.T) {
	ctx := context.Background()

	t.Run("Most recent first", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		expectRates(repo, "EUR", 496.37, 495.1, 494.8, 497.0, 498.2)

		rates, err := s.FetchRatesForPeriod(ctx, "EUR", 5)
		require.NoError(t, err)
		assert.Len(t, rates, 5)
		assert.Equal(t, []float64{496.37, 495.1, 494.8, 497.0, 498.2}, rates)
		repo.AssertExpectations(t)
	})

	t.Run("Zero days", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)

		rates, err := s.FetchRatesForPeriod(ctx, "EUR", 0)
		assert.NoError(t, err)
		assert.Empty(t, rates)
		repo.AssertNotCalled(t, "FindRate", mock.Anything, mock.Anything)
	})

	t.Run("Negative days", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)

		_, err := s.FetchRatesForPeriod(ctx, "EUR", -1)
		assert.Error(t, err)
	})

	t.Run("One failing day fails the period", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		expectRates(repo, "EUR", 496.37)
		repo.On("FindRate", mock.Anything, entity.RateQuery{Date: "14.01.2024", CurrencyCode: "EUR"}).
			Return(nil, domainservice.ErrFeedUnavailable).Maybe()

		_, err := s.FetchRatesForPeriod(ctx, "EUR", 2)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domainservice.ErrFeedUnavailable))
	})
}

func TestFetchRatesForWeek(t *testing.T) {
	repo := new(mocks.MockExchangeRateRepository)
	s := newTestRateService(repo)
	expectRates(repo, "USD", 7, 6, 5, 4, 3, 2, 1)

	rates, err := s.FetchRatesForWeek(context.Background(), "USD")
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 6, 5, 4, 3, 2, 1}, rates)
	repo.AssertExpectations(t)
}

func TestCurrencySeries(t *testing.T) {
	ctx := context.Background()

	t.Run("Specific date", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		repo.On("FindRate", ctx, entity.RateQuery{Date: "01.12.2023", CurrencyCode: "RUB"}).
			Return(&entity.ExchangeRate{Currency: "RUB", Date: "01.12.2023", Rate: 5.13}, nil).Once()

		series, err := s.CurrencySeries(ctx, "RUB", "01.12.2023", DefaultPeriod)
		require.NoError(t, err)
		assert.Equal(t, &entity.RateSeries{
			Currency: "RUB",
			Dates:    []string{"01.12.2023"},
			Rates:    []float64{5.13},
		}, series)
		repo.AssertExpectations(t)
	})

	t.Run("Period is chronological", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		expectRates(repo, "RUB", 5.3, 5.2, 5.1)

		series, err := s.CurrencySeries(ctx, "RUB", "", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"13.01.2024", "14.01.2024", "15.01.2024"}, series.Dates)
		assert.Equal(t, []float64{5.1, 5.2, 5.3}, series.Rates)
		repo.AssertExpectations(t)
	})

	t.Run("Crypto page is USD", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		expectRates(repo, "USD", 7, 6, 5, 4, 3, 2, 1)

		series, err := s.CryptoSeries(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "USD", series.Currency)
		assert.Len(t, series.Dates, DefaultPeriod)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, series.Rates)
		repo.AssertExpectations(t)
	})
}

func TestOverview(t *testing.T) {
	repo := new(mocks.MockExchangeRateRepository)
	s := newTestRateService(repo)
	s.SetOverviewCurrencies([]string{"USD", "EUR", "JPY"})

	expectRates(repo, "USD", 453.0, 452.0, 451.0, 450.0, 449.0, 448.0, 447.5)
	expectRates(repo, "EUR", 496.0, 497.0, 498.0, 499.0, 500.0, 501.0, 502.0)
	// JPY is not published: the whole series is the zero sentinel
	for i := 0; i < 7; i++ {
		query := entity.NewRateQuery(testToday.AddDate(0, 0, -i), "JPY")
		repo.On("FindRate", mock.Anything, query).
			Return(&entity.ExchangeRate{Currency: "JPY", Date: query.Date}, nil).Once()
	}

	overview, err := s.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"09.01.2024", "10.01.2024", "11.01.2024", "12.01.2024",
		"13.01.2024", "14.01.2024", "15.01.2024",
	}, overview.Dates)
	assert.Equal(t, []string{"USD", "EUR", "JPY"}, overview.Currencies)

	assert.Equal(t, []float64{453.0, 452.0, 451.0, 450.0, 449.0, 448.0, 447.5}, overview.Rates["USD"])
	assert.InDelta(t, 5.5, overview.WeekChanges["USD"], 1e-9)
	assert.InDelta(t, -6.0, overview.WeekChanges["EUR"], 1e-9)
	assert.Equal(t, 0.0, overview.WeekChanges["JPY"])

	repo.AssertExpectations(t)
}

func TestOverviewFailure(t *testing.T) {
	repo := new(mocks.MockExchangeRateRepository)
	s := newTestRateService(repo)
	s.SetOverviewCurrencies([]string{"USD"})

	repo.On("FindRate", mock.Anything, mock.Anything).Return(nil, domainservice.ErrMalformedFeed).Once()

	overview, err := s.Overview(context.Background())
	assert.Nil(t, overview)
	assert.True(t, errors.Is(err, domainservice.ErrMalformedFeed))
}

func TestOverviewCurrenciesDefaults(t *testing.T) {
	s := NewRateService(new(mocks.MockExchangeRateRepository), nil)
	assert.Equal(t, DefaultOverviewCurrencies, s.OverviewCurrencies())

	s.SetOverviewCurrencies(nil)
	assert.Len(t, s.OverviewCurrencies(), 9)
}

// advancingClock reports testToday once and a day later on every following call
func advancingClock() func() time.Time {
	calls := 0
	return func() time.Time {
		calls++
		if calls == 1 {
			return testToday
		}
		return testToday.AddDate(0, 0, 1)
	}
}

func TestAggregatesUseOneDateWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("Currency series", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		s.SetClock(advancingClock())
		expectRates(repo, "USD", 453.18, 452.0)

		series, err := s.CurrencySeries(ctx, "USD", "", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"14.01.2024", "15.01.2024"}, series.Dates)
		assert.Equal(t, []float64{452.0, 453.18}, series.Rates)
		repo.AssertExpectations(t)
	})

	t.Run("Overview", func(t *testing.T) {
		repo := new(mocks.MockExchangeRateRepository)
		s := newTestRateService(repo)
		s.SetClock(advancingClock())
		s.SetOverviewCurrencies([]string{"EUR"})
		expectRates(repo, "EUR", 7, 6, 5, 4, 3, 2, 1)

		overview, err := s.Overview(ctx)
		require.NoError(t, err)
		assert.Equal(t, "15.01.2024", overview.Dates[6])
		assert.Equal(t, []float64{7, 6, 5, 4, 3, 2, 1}, overview.Rates["EUR"])
		repo.AssertExpectations(t)
	})
}
