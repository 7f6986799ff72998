// Package metrics exposes Prometheus instrumentation for the core
// operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmscribe_operations_total",
			Help: "Completed operations by kind and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmscribe_operation_duration_seconds",
			Help:    "Operation latency by kind.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	entitiesExtracted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pharmscribe_entities_per_report",
			Help:    "Entities extracted per completed analysis.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

// Operation names.
const (
	OpAnalyze    = "analyze"
	OpSynthesize = "synthesize"
	OpChat       = "chat"
)

// Observe records one completed operation.
func Observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveEntities records the entity count of a completed analysis.
func ObserveEntities(count int) {
	entitiesExtracted.Observe(float64(count))
}
