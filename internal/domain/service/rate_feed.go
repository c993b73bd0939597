package service

import (
	"context"
	"errors"

	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
)

// RateFeed defines the interface for reading the national bank rate feed
type RateFeed interface {
	// FetchRates retrieves every published rate for a dd.MM.yyyy date
	FetchRates(ctx context.Context, date string) (*entity.RateSnapshot, error)
}

var (
	// ErrFeedUnavailable is returned when the feed cannot be reached or answers with a failure status
	ErrFeedUnavailable = errors.New("rate feed unavailable")
	// ErrMalformedFeed is returned when the feed body cannot be parsed
	ErrMalformedFeed = errors.New("malformed rate feed")
)
