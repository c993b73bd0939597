// Package repository internal/domain/repository/exchange_rate_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
)

// ExchangeRateRepository defines the interface for exchange rate access
type ExchangeRateRepository interface {
	// FindRate finds the rate for a currency on a feed date.
	// A currency missing from the feed yields a zero rate and no error.
	FindRate(ctx context.Context, query entity.RateQuery) (*entity.ExchangeRate, error)
}
