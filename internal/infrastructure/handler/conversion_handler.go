// internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/damon-houk/nbk-rate-viewer/internal/application/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/middleware"
)

// ConversionHandler handles HTTP requests for the currency converter
type ConversionHandler struct {
	service    *service.ConversionService
	currencies []string
	logger     logger.Logger
}

// NewConversionHandler creates a new conversion handler offering the base
// currency plus currencies
func NewConversionHandler(service *service.ConversionService, currencies []string, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	offered := []string{service.BaseCurrency()}
	for _, code := range currencies {
		if code != service.BaseCurrency() {
			offered = append(offered, code)
		}
	}

	return &ConversionHandler{
		service:    service,
		currencies: offered,
		logger:     log,
	}
}

// RegisterRoutes registers the handler's routes with the router
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	for _, path := range []string{"/converter", "/home/converter"} {
		router.HandleFunc(path, h.Form).Methods(http.MethodGet)
		router.HandleFunc(path, h.Convert).Methods(http.MethodPost)
	}
}

// Form lists the currencies the converter accepts
func (h *ConversionHandler) Form(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Debug("Handling converter form request", map[string]interface{}{
		"request_id": requestID,
	})

	sendJSON(w, h.logger, http.StatusOK, ConverterFormResponse{
		BaseCurrency: h.service.BaseCurrency(),
		Currencies:   h.currencies,
	}, requestID)
}

// Convert handles a conversion submitted as form fields or query parameters
func (h *ConversionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseForm(); err != nil {
		h.logger.Warn("Failed to parse form", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	rawAmount := strings.TrimSpace(r.FormValue("amount"))
	from := strings.ToUpper(strings.TrimSpace(r.FormValue("fromCurrency")))
	to := strings.ToUpper(strings.TrimSpace(r.FormValue("toCurrency")))

	if rawAmount == "" || from == "" || to == "" {
		h.logger.Warn("Missing converter fields", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
			"from":       from,
			"to":         to,
		})
		sendErrorResponse(w, h.logger, "Missing required fields",
			"amount, fromCurrency and toCurrency are required", http.StatusBadRequest, requestID)
		return
	}

	amount, err := strconv.ParseFloat(rawAmount, 64)
	if err != nil {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     rawAmount,
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"Amount must be a number (e.g., 1000 or 12.50)", http.StatusBadRequest, requestID)
		return
	}

	h.logger.Info("Handling conversion request", map[string]interface{}{
		"request_id": requestID,
		"amount":     amount,
		"from":       from,
		"to":         to,
	})

	conversion, err := h.service.Convert(r.Context(), amount, from, to)
	if err != nil {
		sendServiceError(w, h.logger, err, requestID, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return
	}

	sendJSON(w, h.logger, http.StatusOK, ConversionResponse{
		Amount:          conversion.Amount,
		FromCurrency:    conversion.From,
		ToCurrency:      conversion.To,
		Date:            conversion.Date,
		RateFrom:        conversion.RateFrom,
		RateTo:          conversion.RateTo,
		ConvertedAmount: conversion.ConvertedAmount,
	}, requestID)
}
