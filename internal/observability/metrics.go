package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the examiner recommendation
// service, organized by subsystem: queries, corpus scanning, identifier
// explosion, roster joining, and dataset loading. All metrics are registered
// via promauto with the default Prometheus registry.
type Metrics struct {
	// QueriesStarted counts recommendation queries accepted for processing.
	QueriesStarted prometheus.Counter

	// QueriesCompleted counts queries that produced a result.
	QueriesCompleted prometheus.Counter

	// QueriesFailed counts queries that ended in an error.
	QueriesFailed prometheus.Counter

	// QueryDuration observes end-to-end query duration in seconds.
	QueryDuration prometheus.Histogram

	// RecordsScanned counts corpus records scored across all queries. This
	// is the externally observable scan progress counter.
	RecordsScanned prometheus.Counter

	// UndefinedScores counts per-field similarity computations that
	// produced no signal, labeled by field (abstract, author_keywords,
	// index_keywords).
	UndefinedScores *prometheus.CounterVec

	// IdentifiersExploded counts author identifier tokens successfully
	// parsed during explosion.
	IdentifiersExploded prometheus.Counter

	// IdentifiersDropped counts identifier tokens discarded as unparseable.
	IdentifiersDropped prometheus.Counter

	// RowsJoined counts recommendation rows surviving the roster join.
	RowsJoined prometheus.Counter

	// JoinedPerQuery observes the distribution of joined row counts per query.
	JoinedPerQuery prometheus.Histogram

	// DatasetReloads counts dataset snapshot loads, labeled by outcome
	// (success, failure).
	DatasetReloads *prometheus.CounterVec

	// DatasetRecords reports the size of the current snapshot, labeled by
	// table (corpus, roster).
	DatasetRecords *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		QueriesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_started_total",
			Help:      "Total number of recommendation queries started",
		}),
		QueriesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_completed_total",
			Help:      "Total number of recommendation queries completed successfully",
		}),
		QueriesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_failed_total",
			Help:      "Total number of recommendation queries that failed",
		}),
		QueryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Duration of recommendation queries in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		RecordsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_scanned_total",
			Help:      "Total number of corpus records scored",
		}),
		UndefinedScores: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "undefined_scores_total",
			Help:      "Total number of similarity computations with no signal, by field",
		}, []string{"field"}),
		IdentifiersExploded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_exploded_total",
			Help:      "Total number of author identifier tokens parsed",
		}),
		IdentifiersDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_dropped_total",
			Help:      "Total number of unparseable author identifier tokens dropped",
		}),
		RowsJoined: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_joined_total",
			Help:      "Total number of recommendation rows produced by the roster join",
		}),
		JoinedPerQuery: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "joined_rows_per_query",
			Help:      "Number of joined recommendation rows per query",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		}),
		DatasetReloads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_reloads_total",
			Help:      "Total number of dataset snapshot loads by outcome",
		}, []string{"outcome"}),
		DatasetRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the current dataset snapshot by table",
		}, []string{"table"}),
	}
}
