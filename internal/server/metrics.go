package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the analyze endpoint. Registered on a per-server registry so
// tests can build servers side by side.
type Metrics struct {
	// requests counts analyze calls by outcome: ok or an error kind
	requests *prometheus.CounterVec

	// duration measures the full load-and-analyze time
	duration prometheus.Histogram

	// events counts events loaded across successful requests
	events prometheus.Counter

	// continuous counts retained continuous-viewing members
	continuous prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_analyze_requests_total",
			Help: "Total number of analyze requests by outcome",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeline_analyze_duration_seconds",
			Help:    "Analyze request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		events: f.NewCounter(prometheus.CounterOpts{
			Name: "timeline_events_analyzed_total",
			Help: "Total number of events loaded by successful analyze requests",
		}),
		continuous: f.NewCounter(prometheus.CounterOpts{
			Name: "timeline_continuous_members_total",
			Help: "Total number of periodic events retained in continuous viewing runs",
		}),
	}
}
