// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/middleware"
)

const (
	// DefaultBaseCurrency is the pivot currency every feed rate is quoted against
	DefaultBaseCurrency = "KZT"

	// divisionPrecision is the number of decimal places kept when dividing by rateTo
	divisionPrecision = 40
)

// ErrRateUnavailable is returned when the feed has no rate for a currency
// needed by a conversion. Only a missing target rate would break the
// arithmetic; a missing source rate is refused as well so that an
// unpublished currency never converts to a silent 0.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ConversionService converts amounts between currencies through the base currency
type ConversionService struct {
	rates  *RateService
	base   string
	logger logger.Logger
}

// NewConversionService creates a new conversion service
func NewConversionService(rates *RateService, baseCurrency string, log logger.Logger) *ConversionService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	if baseCurrency == "" {
		baseCurrency = DefaultBaseCurrency
	}

	return &ConversionService{
		rates:  rates,
		base:   baseCurrency,
		logger: log,
	}
}

// BaseCurrency returns the pivot currency
func (s *ConversionService) BaseCurrency() string {
	return s.base
}

// Convert converts amount from one currency to another using today's rates
func (s *ConversionService) Convert(ctx context.Context, amount float64, from, to string) (*entity.Conversion, error) {
	requestID := middleware.GetRequestID(ctx)

	conversion := &entity.Conversion{
		Amount: amount,
		From:   from,
		To:     to,
		Date:   s.rates.Today(),
	}

	if err := conversion.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("Converting amount", map[string]interface{}{
		"request_id": requestID,
		"amount":     amount,
		"from":       from,
		"to":         to,
		"date":       conversion.Date,
	})

	rateFrom, err := s.rateFor(ctx, conversion.Date, from)
	if err != nil {
		return nil, err
	}
	conversion.RateFrom = rateFrom

	value := decimal.NewFromFloat(amount)
	fromRate := decimal.NewFromFloat(rateFrom)

	var converted decimal.Decimal
	if to == s.base {
		conversion.RateTo = 1
		converted = value.Mul(fromRate)
	} else {
		rateTo, err := s.rateFor(ctx, conversion.Date, to)
		if err != nil {
			return nil, err
		}
		conversion.RateTo = rateTo
		converted = value.DivRound(decimal.NewFromFloat(rateTo), divisionPrecision).Mul(fromRate)
	}

	conversion.ConvertedAmount, _ = converted.Float64()

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"from":             from,
		"to":               to,
		"rate_from":        conversion.RateFrom,
		"rate_to":          conversion.RateTo,
		"converted_amount": conversion.ConvertedAmount,
	})

	return conversion, nil
}

// rateFor resolves a currency against the base currency, which is always 1
func (s *ConversionService) rateFor(ctx context.Context, date, currency string) (float64, error) {
	if currency == s.base {
		return 1, nil
	}

	rate, err := s.rates.FetchRate(ctx, date, currency)
	if err != nil {
		s.logger.Error("Failed to get exchange rate", map[string]interface{}{
			"request_id": middleware.GetRequestID(ctx),
			"currency":   currency,
			"date":       date,
			"error":      err.Error(),
		})
		return 0, fmt.Errorf("failed to get exchange rate: %w", err)
	}

	if rate == 0 {
		return 0, fmt.Errorf("%w: no %s rate published for %s", ErrRateUnavailable, currency, date)
	}

	return rate, nil
}
