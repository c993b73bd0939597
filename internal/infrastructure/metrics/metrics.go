// Package metrics holds the Prometheus collectors exposed on /metrics
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nbk"

// Feed request outcomes
const (
	OutcomeOK          = "ok"
	OutcomeStatusError = "status_error"
	OutcomeTransport   = "transport_error"
	OutcomeDecodeError = "decode_error"
)

var (
	// FeedRequests counts calls to the rate feed by outcome
	FeedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_requests_total",
		Help:      "Rate feed requests by outcome.",
	}, []string{"outcome"})

	// FeedDuration observes rate feed round trips
	FeedDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "feed_request_duration_seconds",
		Help:      "Rate feed request latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTPDuration observes inbound requests by route template
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Inbound HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry = prometheus.NewRegistry()
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		FeedRequests,
		FeedDuration,
		HTTPDuration,
	)
}

// Registry returns the registry all collectors are attached to
func Registry() *prometheus.Registry {
	return registry
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
