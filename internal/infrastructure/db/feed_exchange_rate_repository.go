// Package db internal/infrastructure/db/feed_exchange_rate_repository.go
package db

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	"github.com/damon-houk/nbk-rate-viewer/internal/domain/repository"
	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
)

// FeedExchangeRateRepository implements the ExchangeRateRepository interface on top of the rate feed
type FeedExchangeRateRepository struct {
	feed   domainservice.RateFeed
	logger logger.Logger
}

// NewFeedExchangeRateRepository creates a new repository for exchange rates
func NewFeedExchangeRateRepository(feed domainservice.RateFeed, log logger.Logger) repository.ExchangeRateRepository {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &FeedExchangeRateRepository{
		feed:   feed,
		logger: log,
	}
}

// FindRate finds the rate for a currency on the query date.
// Each call issues exactly one feed request.
func (r *FeedExchangeRateRepository) FindRate(ctx context.Context, query entity.RateQuery) (*entity.ExchangeRate, error) {
	start := time.Now()

	snapshot, err := r.feed.FetchRates(ctx, query.Date)
	if err != nil {
		r.logger.Error("Failed to retrieve rate feed", map[string]interface{}{
			"currency": query.CurrencyCode,
			"date":     query.Date,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("failed to retrieve exchange rate: %w", err)
	}

	rate := &entity.ExchangeRate{
		Currency: query.CurrencyCode,
		Date:     query.Date,
	}

	item, ok := snapshot.Find(query.CurrencyCode)
	if !ok {
		r.logger.Warn("Currency not present in rate feed", map[string]interface{}{
			"currency": query.CurrencyCode,
			"date":     query.Date,
			"items":    len(snapshot.Items),
		})
		return rate, nil
	}

	value, err := strconv.ParseFloat(item.Description, 64)
	if err == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
		err = fmt.Errorf("rate is not a finite number")
	}
	if err != nil {
		r.logger.Error("Failed to parse feed rate", map[string]interface{}{
			"currency":    query.CurrencyCode,
			"date":        query.Date,
			"description": item.Description,
		})
		return nil, fmt.Errorf("failed to parse rate %q for %s: %w", item.Description, query.CurrencyCode,
			domainservice.ErrMalformedFeed)
	}
	rate.Rate = value

	r.logger.Debug("Exchange rate found", map[string]interface{}{
		"currency":     query.CurrencyCode,
		"date":         query.Date,
		"rate":         rate.Rate,
		"time_to_find": time.Since(start).String(),
	})

	return rate, nil
}
