package handler

// CurrencyResponse represents the response for the currency and crypto pages
type CurrencyResponse struct {
	Currency string    `json:"currency"`
	Dates    []string  `json:"dates"`
	Rates    []float64 `json:"rates"`
}

// IndexResponse represents the response for the landing page
type IndexResponse struct {
	Dates       []string             `json:"dates"`
	Currencies  []string             `json:"currencies"`
	Rates       map[string][]float64 `json:"rates"`
	WeekChanges map[string]float64   `json:"week_changes"`
}

// ConverterFormResponse lists what the converter accepts
type ConverterFormResponse struct {
	BaseCurrency string   `json:"base_currency"`
	Currencies   []string `json:"currencies"`
}

// ConversionResponse represents the response for a conversion
type ConversionResponse struct {
	Amount          float64 `json:"amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	Date            string  `json:"date"`
	RateFrom        float64 `json:"rate_from"`
	RateTo          float64 `json:"rate_to"`
	ConvertedAmount float64 `json:"converted_amount"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
