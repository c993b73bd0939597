package entity

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConversion is returned when conversion input fails validation
var ErrInvalidConversion = errors.New("invalid conversion request")

// Conversion represents an amount converted between two currencies through KZT
type Conversion struct {
	Amount          float64 `json:"amount"`
	From            string  `json:"from"`
	To              string  `json:"to"`
	Date            string  `json:"date"`
	RateFrom        float64 `json:"rate_from"`
	RateTo          float64 `json:"rate_to"`
	ConvertedAmount float64 `json:"converted_amount"`
}

// Validate ensures the conversion input meets all requirements
func (c *Conversion) Validate() error {
	if math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0) {
		return fmt.Errorf("%w: amount must be a finite number", ErrInvalidConversion)
	}

	if c.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidConversion)
	}

	if !IsCurrencyCode(c.From) {
		return fmt.Errorf("%w: source currency must be a 3-letter code", ErrInvalidConversion)
	}

	if !IsCurrencyCode(c.To) {
		return fmt.Errorf("%w: target currency must be a 3-letter code", ErrInvalidConversion)
	}

	return nil
}

// IsCurrencyCode reports whether code looks like an ISO 4217 code
func IsCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
