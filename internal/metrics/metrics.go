// Package metrics holds Prometheus instruments shared across Chorus.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EngineQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_queries_total",
			Help: "Engine queries executed, by table and operation.",
		},
		[]string{"table", "op"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "API request latency, by route and status class.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "class"},
	)

	FailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_failures_total",
			Help: "Classified failures returned to clients.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		EngineQueries,
		RequestDuration,
		FailuresTotal,
	)
}
