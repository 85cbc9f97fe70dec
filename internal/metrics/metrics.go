// Package metrics provides the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes recorded by the article service
const (
	ResultSuccess    = "success"
	ResultBadRequest = "bad_request"
	ResultNotFound   = "not_found"
	ResultError      = "error"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Business metrics
var (
	// ArticleOperationsTotal counts article service calls by operation and outcome
	ArticleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_operations_total",
			Help: "Total number of article operations by outcome",
		},
		[]string{"operation", "result"},
	)
)

// RecordArticleOperation increments the outcome counter for one service call
func RecordArticleOperation(operation, result string) {
	ArticleOperationsTotal.WithLabelValues(operation, result).Inc()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
