// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LLMCallsTotal tracks calls to the language-model provider by operation.
	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "Total calls to the LLM provider",
		},
		[]string{"operation", "status"},
	)

	// ConversationsSaved tracks conversation save operations.
	ConversationsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversations_saved_total",
			Help: "Total conversation save operations",
		},
		[]string{"kind"},
	)
)

// RecordRequest records one completed HTTP request.
func RecordRequest(method, path, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, path, status).Inc()
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSec)
}

// RecordLLMCall records one provider round trip.
func RecordLLMCall(operation, status string) {
	LLMCallsTotal.WithLabelValues(operation, status).Inc()
}
