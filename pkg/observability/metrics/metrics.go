package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ClassificationLatency tracks end-to-end field classification latency.
	ClassificationLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "field_classification_latency_seconds",
			Help:    "The duration of a single field classification in seconds",
			Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		},
	)

	// ClassificationCount tracks classifications by winning arbitration tier
	// and resolved category.
	ClassificationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_classification_total",
			Help: "The total number of field classifications",
		},
		[]string{"tier", "category"},
	)

	// TrainingCount tracks online training steps by outcome.
	TrainingCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_training_total",
			Help: "The total number of online training steps",
		},
		[]string{"status"},
	)

	// SnapshotLoadCount tracks model snapshot loads by outcome.
	SnapshotLoadCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "field_model_snapshot_load_total",
			Help: "The total number of model snapshot load attempts",
		},
		[]string{"status"},
	)
)

// RecordClassification records one arbitrated decision.
func RecordClassification(tier, category string, elapsed time.Duration) {
	ClassificationLatency.Observe(elapsed.Seconds())
	ClassificationCount.WithLabelValues(tier, category).Inc()
}

// RecordTraining records the outcome of one training step.
func RecordTraining(status string) {
	TrainingCount.WithLabelValues(status).Inc()
}

// RecordSnapshotLoad records a snapshot load attempt.
func RecordSnapshotLoad(status string) {
	SnapshotLoadCount.WithLabelValues(status).Inc()
}
