package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IDsAdded counts identifiers that entered a working set, by source (text|file).
	IDsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocurator_pubmed_ids_added_total",
			Help: "Total number of PubMed IDs added to working sets",
		},
		[]string{"source"},
	)

	// BatchesRejected counts rejected batches by source and reason (empty_input|invalid_token).
	BatchesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocurator_batches_rejected_total",
			Help: "Total number of identifier batches rejected during parsing",
		},
		[]string{"source", "reason"},
	)

	// Submissions counts working set submissions by result (success|empty|error).
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocurator_submissions_total",
			Help: "Total number of working set submissions",
		},
		[]string{"result"},
	)

	// ActiveSessions tracks sessions currently holding a working set.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocurator_active_sessions",
			Help: "Number of live curation sessions",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocurator_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
