// Package handler internal/infrastructure/handler/rates_handler.go
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/damon-houk/nbk-rate-viewer/internal/application/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/middleware"
)

// DefaultMaxPeriod caps the period query parameter
const DefaultMaxPeriod = 31

// RatesHandler handles HTTP requests for rate pages
type RatesHandler struct {
	service   *service.RateService
	maxPeriod int
	logger    logger.Logger
}

// NewRatesHandler creates a new rates handler
func NewRatesHandler(service *service.RateService, maxPeriod int, log logger.Logger) *RatesHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if maxPeriod < 1 {
		maxPeriod = DefaultMaxPeriod
	}

	return &RatesHandler{
		service:   service,
		maxPeriod: maxPeriod,
		logger:    log,
	}
}

// RegisterRoutes registers the handler's routes with the router
func (h *RatesHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/home/index", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/currency/{id}", h.Currency).Methods(http.MethodGet)
	router.HandleFunc("/home/currency/{id}", h.Currency).Methods(http.MethodGet)
	router.HandleFunc("/crypto", h.Crypto).Methods(http.MethodGet)
	router.HandleFunc("/home/crypto", h.Crypto).Methods(http.MethodGet)
}

// Index handles the landing page with a week of rates for every tracked currency
func (h *RatesHandler) Index(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling index request", map[string]interface{}{
		"request_id": requestID,
	})

	overview, err := h.service.Overview(r.Context())
	if err != nil {
		sendServiceError(w, h.logger, err, requestID, nil)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, IndexResponse{
		Dates:       overview.Dates,
		Currencies:  overview.Currencies,
		Rates:       overview.Rates,
		WeekChanges: overview.WeekChanges,
	}, requestID)
}

// Currency handles the rate history of a single currency
func (h *RatesHandler) Currency(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	code := strings.ToUpper(mux.Vars(r)["id"])
	if !entity.IsCurrencyCode(code) {
		h.logger.Warn("Invalid currency code", map[string]interface{}{
			"request_id": requestID,
			"currency":   code,
		})
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Currency code should be 3 letters (e.g., USD, EUR, RUB)", http.StatusBadRequest, requestID)
		return
	}

	specificDate, ok := h.specificDate(w, r, requestID)
	if !ok {
		return
	}

	period := service.DefaultPeriod
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > h.maxPeriod {
			h.logger.Warn("Invalid period", map[string]interface{}{
				"request_id": requestID,
				"period":     raw,
			})
			sendErrorResponse(w, h.logger, "Invalid period",
				fmt.Sprintf("Period must be a whole number of days between 1 and %d", h.maxPeriod),
				http.StatusBadRequest, requestID)
			return
		}
		period = parsed
	}

	h.logger.Info("Handling currency request", map[string]interface{}{
		"request_id":    requestID,
		"currency":      code,
		"specific_date": specificDate,
		"period":        period,
	})

	series, err := h.service.CurrencySeries(r.Context(), code, specificDate, period)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID, map[string]interface{}{"currency": code})
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toCurrencyResponse(series), requestID)
}

// Crypto handles the crypto page, which tracks USD
func (h *RatesHandler) Crypto(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	specificDate, ok := h.specificDate(w, r, requestID)
	if !ok {
		return
	}

	h.logger.Info("Handling crypto request", map[string]interface{}{
		"request_id":    requestID,
		"specific_date": specificDate,
	})

	series, err := h.service.CryptoSeries(r.Context(), specificDate)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID, nil)
		return
	}

	sendJSON(w, h.logger, http.StatusOK, toCurrencyResponse(series), requestID)
}

// specificDate reads the optional specificDate query parameter and writes a
// 400 response when it is not a dd.MM.yyyy date
func (h *RatesHandler) specificDate(w http.ResponseWriter, r *http.Request, requestID string) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("specificDate"))
	if raw == "" {
		return "", true
	}

	date, err := entity.ParseFeedDate(raw)
	if err != nil {
		h.logger.Warn("Invalid specific date", map[string]interface{}{
			"request_id":    requestID,
			"specific_date": raw,
			"error":         err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid date format",
			"Date must be in dd.MM.yyyy format (e.g., 15.01.2024)", http.StatusBadRequest, requestID)
		return "", false
	}

	return entity.FormatFeedDate(date), true
}

func toCurrencyResponse(series *entity.RateSeries) CurrencyResponse {
	return CurrencyResponse{
		Currency: series.Currency,
		Dates:    series.Dates,
		Rates:    series.Rates,
	}
}
