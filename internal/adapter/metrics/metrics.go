package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "matterlog"

// Metrics holds all Prometheus metrics for the viewer.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SearchesTotal   *prometheus.CounterVec
	SearchFiles     prometheus.Counter
	SearchLines     prometheus.Counter
	SearchResults   prometheus.Histogram
	SearchDuration  prometheus.Histogram
	RateLimited     prometheus.Counter
	LimiterBackend  prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "searches_total",
			Help:      "Total number of searches by outcome.",
		}, []string{"status"}), // status: ok, empty_query, not_found, error, canceled
		SearchFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "files_scanned_total",
			Help:      "Total number of transcript files read by searches.",
		}),
		SearchLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "lines_scanned_total",
			Help:      "Total number of transcript lines tested by searches.",
		}),
		SearchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of results returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "duration_seconds",
			Help:      "Time spent scanning a chatroom's history.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Total number of requests rejected by the search rate limiter.",
		}),
		LimiterBackend: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "redis_active_gauge",
			Help:      "Indicates if the shared Redis limiter is in use (1) or the in-process fallback (0).",
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.SearchesTotal,
		m.SearchFiles,
		m.SearchLines,
		m.SearchResults,
		m.SearchDuration,
		m.RateLimited,
		m.LimiterBackend,
	)
	return m
}
