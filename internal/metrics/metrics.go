package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupRequestsTotal counts lookup API requests served, by kind
	// (title, keyword) and status (ok, not_found, error).
	LookupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkeditor_lookup_requests_total",
		Help: "Lookup API requests served.",
	}, []string{"kind", "status"})

	LookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkeditor_lookup_duration_seconds",
		Help:    "Time spent answering a lookup API request.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	}, []string{"kind"})

	// ResolutionsTotal counts metadata resolutions completed by editor
	// commands, by kind and outcome (applied, stale, failed).
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkeditor_resolutions_total",
		Help: "Metadata resolutions completed by link commands.",
	}, []string{"kind", "outcome"})

	// ExecutesTotal counts link command executions by mode
	// (update, insert, noop, selection, failed).
	ExecutesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkeditor_executes_total",
		Help: "Link command executions.",
	}, []string{"mode"})

	LinksTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkeditor_links_total",
		Help: "Total number of links in the database.",
	})

	KeywordsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linkeditor_keywords_total",
		Help: "Total number of keywords in the database.",
	})
)
