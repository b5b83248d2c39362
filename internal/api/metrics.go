package api

import (
	"time"

	"devflow/internal/httperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devflow_backend_requests_total",
		Help: "Backend API calls by resource, operation and outcome.",
	}, []string{"resource", "operation", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devflow_backend_request_duration_seconds",
		Help:    "Backend API call latency.",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"resource", "operation"})
)

func observe(resource, operation, result string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(resource, operation, result).Inc()
	requestDuration.WithLabelValues(resource, operation).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case httperr.IsTimeout(err):
		return "timeout"
	}
	switch status := httperr.StatusOf(err); {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	}
	return "error"
}
