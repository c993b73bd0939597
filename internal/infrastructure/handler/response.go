package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/damon-houk/nbk-rate-viewer/internal/application/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/domain/entity"
	domainservice "github.com/damon-houk/nbk-rate-viewer/internal/domain/service"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
)

// sendJSON writes data as a JSON response. The body is encoded before the
// status is written so an encoding failure still yields an error response.
func sendJSON(w http.ResponseWriter, log logger.Logger, statusCode int, data interface{}, requestID string) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		body, _ = json.Marshal(ErrorResponse{
			Error:       "Internal server error",
			Status:      http.StatusInternalServerError,
			Description: "The response could not be encoded",
			RequestID:   requestID,
		})
		statusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if _, err := w.Write(append(body, '\n')); err != nil {
		log.Error("Failed to write response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	sendJSON(w, log, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}, requestID)
}

// sendServiceError maps a service error onto an HTTP error response
func sendServiceError(w http.ResponseWriter, log logger.Logger, err error, requestID string, fields map[string]interface{}) {
	log = log.WithFields(fields).WithField("request_id", requestID)
	logFields := map[string]interface{}{
		"error": err.Error(),
	}

	switch {
	case errors.Is(err, entity.ErrInvalidConversion):
		log.Warn("Invalid conversion request", logFields)
		sendErrorResponse(w, log, "Invalid conversion request", err.Error(), http.StatusBadRequest, requestID)
	case errors.Is(err, service.ErrRateUnavailable):
		log.Warn("Exchange rate unavailable", logFields)
		sendErrorResponse(w, log, "Exchange rate unavailable",
			"The national bank has not published a rate for the requested currency today",
			http.StatusUnprocessableEntity, requestID)
	case errors.Is(err, domainservice.ErrFeedUnavailable), errors.Is(err, domainservice.ErrMalformedFeed):
		log.Error("Rate feed error", logFields)
		sendErrorResponse(w, log, "Rate feed unavailable",
			"Unable to retrieve rates from the national bank. Please try again later.",
			http.StatusBadGateway, requestID)
	default:
		log.Error("Unexpected error", logFields)
		sendErrorResponse(w, log, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}
