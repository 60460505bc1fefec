// Package metrics defines the Prometheus collectors used by the directory
// service and exposes an HTTP handler for scraping.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes used as the result_type label.
const (
	ResultMatched = "matched"
	ResultZero    = "zero_result"
	ResultAll     = "all"
	ResultError   = "error"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchesTotal        *prometheus.CounterVec
	SearchResultsCount   prometheus.Histogram
	SourceLoadDuration   *prometheus.HistogramVec
	SourceLoadErrors     *prometheus.CounterVec
	RecordsLoaded        prometheus.Gauge
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
}

// New creates all collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advocate_searches_total",
				Help: "Advocate searches by result type (matched, zero_result, all, error).",
			},
			[]string{"result_type"},
		),
		SearchResultsCount: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advocate_search_results",
				Help:    "Number of advocates returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		),
		SourceLoadDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "advocate_source_load_seconds",
				Help:    "Time to load the full advocate set from the record source.",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
			[]string{"source"},
		),
		SourceLoadErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advocate_source_load_errors_total",
				Help: "Failed loads of the advocate set by source.",
			},
			[]string{"source"},
		),
		RecordsLoaded: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "advocate_records_loaded",
				Help: "Number of advocates returned by the most recent load.",
			},
		),
		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "advocate_cache_hits_total",
				Help: "Record set loads served from redis.",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "advocate_cache_misses_total",
				Help: "Record set loads that fell through to the source.",
			},
		),
	}
}

// Handler returns the scrape handler for gatherer. Collection errors are
// logged and the remaining metrics are still served.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelError),
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}
