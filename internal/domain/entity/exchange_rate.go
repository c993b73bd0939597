package entity

import (
	"time"
)

// FeedDateLayout is the day.month.year layout the NBK feed expects in fdate
const FeedDateLayout = "02.01.2006"

// FormatFeedDate formats t the way the feed expects it
func FormatFeedDate(t time.Time) string {
	return t.Format(FeedDateLayout)
}

// ParseFeedDate parses a dd.MM.yyyy date
func ParseFeedDate(s string) (time.Time, error) {
	return time.Parse(FeedDateLayout, s)
}

// RateQuery identifies a single rate lookup
type RateQuery struct {
	Date         string
	CurrencyCode string
}

// NewRateQuery builds a query for the given day and currency code
func NewRateQuery(date time.Time, currencyCode string) RateQuery {
	return RateQuery{
		Date:         FormatFeedDate(date),
		CurrencyCode: currencyCode,
	}
}

// ExchangeRate represents a currency rate against KZT on a specific date.
// Rate is 0 when the feed has no entry for the currency.
type ExchangeRate struct {
	Currency string  `json:"currency"`
	Date     string  `json:"date"`
	Rate     float64 `json:"rate"`
}

// RateSeries is an ordered sequence of rates aligned with Dates
type RateSeries struct {
	Currency string    `json:"currency"`
	Dates    []string  `json:"dates"`
	Rates    []float64 `json:"rates"`
}

// Reverse flips both dates and rates in place
func (s *RateSeries) Reverse() {
	for i, j := 0, len(s.Dates)-1; i < j; i, j = i+1, j-1 {
		s.Dates[i], s.Dates[j] = s.Dates[j], s.Dates[i]
	}
	for i, j := 0, len(s.Rates)-1; i < j; i, j = i+1, j-1 {
		s.Rates[i], s.Rates[j] = s.Rates[j], s.Rates[i]
	}
}

// WeekChange returns first-minus-last of a series, 0 for an empty one
func WeekChange(rates []float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	return rates[0] - rates[len(rates)-1]
}
