// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_processed_total",
			Help: "Total number of inbound messages analyzed, by intent",
		},
		[]string{"intent"},
	)

	InventoryQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_inventory_queries_total",
			Help: "Total number of inventory store queries, by stage",
		},
		[]string{"stage"},
	)

	InventoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "bot_inventory_query_duration_seconds",
			Help: "Duration of inventory store queries in seconds",
		},
		[]string{"stage"},
	)

	CascadeDepth = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_relaxation_cascade_depth",
			Help:    "Number of relaxation stages executed per match invocation",
			Buckets: []float64{0, 1, 2},
		},
		[]string{"outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)
)
