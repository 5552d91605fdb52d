package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymobRequestsTotal tracks outbound calls to the Paymob payout API.
	PaymobRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paymob_api_requests_total",
			Help: "Total number of Paymob payout API requests made (by endpoint, method, and HTTP status).",
		},
		[]string{"endpoint", "method", "status"},
	)

	// PaymobRequestDuration measures the duration of outbound Paymob calls.
	PaymobRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paymob_api_request_duration_seconds",
			Help:    "Duration of Paymob payout API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms → ~16s
		},
		[]string{"endpoint", "method"},
	)

	// TokenCacheAccess counts bearer token cache lookups.
	TokenCacheAccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paymob_token_cache_access_total",
			Help: "Number of token cache hits, misses, and store errors.",
		},
		[]string{"result"}, // hit | miss | error
	)

	// ErrorsTotal tracks classified failures.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payout_errors_total",
			Help: "Count of payout errors by component and kind.",
		},
		[]string{"component", "reason"},
	)
)

// ObserveDuration records elapsed time since start into a HistogramVec or SummaryVec.
func ObserveDuration(v any, start time.Time, labels ...string) {
	duration := time.Since(start).Seconds()
	switch metric := v.(type) {
	case *prometheus.HistogramVec:
		metric.WithLabelValues(labels...).Observe(duration)
	case *prometheus.SummaryVec:
		metric.WithLabelValues(labels...).Observe(duration)
	}
}

func IncPaymobRequest(endpoint, method, status string) {
	PaymobRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

func IncTokenCache(result string) {
	TokenCacheAccess.WithLabelValues(result).Inc()
}

func IncError(component, reason string) {
	ErrorsTotal.WithLabelValues(component, reason).Inc()
}
