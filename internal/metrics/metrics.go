// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Redirects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shortenv_redirects_total",
		Help: "Redirect responses by status.",
	}, []string{"status"})
	ClicksAttributed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortenv_clicks_attributed_total",
		Help: "Newly attributed unique clicks.",
	})
	ClicksRepeated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortenv_clicks_repeated_total",
		Help: "Visits already counted for their (code, ip) pair.",
	})
	NotifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortenv_notify_failures_total",
		Help: "Click notifications that could not be delivered.",
	})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortenv_resolve_cache_hits_total",
		Help: "Resolve cache hits.",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shortenv_resolve_cache_misses_total",
		Help: "Resolve cache misses.",
	})
)

func init() {
	prometheus.MustRegister(
		Redirects,
		ClicksAttributed,
		ClicksRepeated,
		NotifyFailures,
		CacheHits,
		CacheMisses,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
