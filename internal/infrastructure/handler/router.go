package handler

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/logger"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/metrics"
	"github.com/damon-houk/nbk-rate-viewer/internal/infrastructure/middleware"
)

// NewRouter wires the middleware chain, the page handlers and /metrics
func NewRouter(rates *RatesHandler, conversion *ConversionHandler, log logger.Logger) *mux.Router {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	router.Use(
		chimw.RealIP,
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware,
		chimw.Recoverer,
	)

	rates.RegisterRoutes(router)
	conversion.RegisterRoutes(router)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return router
}
