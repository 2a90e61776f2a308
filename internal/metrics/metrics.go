package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Analyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ts_analyses_total",
			Help: "Analyses by outcome",
		},
		[]string{"outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ts_upstream_request_seconds",
			Help:    "Latency of collaborator intel requests",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"source", "outcome"},
	)

	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ts_history_size",
			Help: "Records currently held in the recent-lookup history",
		},
	)

	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ts_analyses_in_flight",
			Help: "Analyses currently running",
		},
	)

	DistinctIPs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ts_distinct_ips",
			Help: "Approximate number of distinct addresses analyzed",
		},
	)
)

func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
