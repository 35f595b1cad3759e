package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search core Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "searches_total",
			Help:      "Total number of search requests by outcome",
		},
		[]string{"outcome"}, // "ok", "too_short", "disabled", "upstream", "cancelled", "error"
	)

	ScopeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shopsearch",
			Name:      "search_scope_duration_seconds",
			Help:      "Per-scope catalog lookup duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"scope"},
	)

	ScopeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shopsearch",
			Name:      "search_scope_failures_total",
			Help:      "Per-scope catalog lookup failures",
		},
		[]string{"scope", "reason"}, // reason: "timeout" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search core metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(ScopeDuration)
	prometheus.MustRegister(ScopeFailuresTotal)
	searchMetricsRegistered = true
}
