// Package observability provides Prometheus metrics for scoring runs.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wallet-credit-score/internal/domain"
)

// DefaultNamespace is used when no namespace is configured.
const DefaultNamespace = "wallet_credit_score"

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// scoreBuckets splits [0, 1000] into ten equal bands.
var scoreBuckets = prometheus.LinearBuckets(100, 100, 10)

// Metrics holds all Prometheus metrics of one scoring run.
// Every instance owns its registry, so runs never share collectors.
type Metrics struct {
	registry *prometheus.Registry

	// Input metrics
	RecordsLoaded  prometheus.Counter
	RecordsSkipped *prometheus.CounterVec
	SourceLoad     *prometheus.HistogramVec

	// Scoring metrics
	WalletsScored     prometheus.Counter
	BotPenalized      prometheus.Counter
	ScoreDistribution prometheus.Histogram

	// Pipeline metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RecordsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "records_loaded_total",
			Help:      "Total number of transaction records loaded",
		}),
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "records_skipped_total",
			Help:      "Total number of records skipped by reason",
		}, []string{"reason"}),
		SourceLoad: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "input",
			Name:      "source_load_seconds",
			Help:      "Time spent reading records from the source",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),

		WalletsScored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "wallets_scored_total",
			Help:      "Total number of wallets scored",
		}),
		BotPenalized: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "bot_penalized_total",
			Help:      "Total number of wallets that received the cadence penalty",
		}),
		ScoreDistribution: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "score",
			Help:      "Distribution of public wallet scores",
			Buckets:   scoreBuckets,
		}),

		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of scoring runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Scoring run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}),

		LastSuccessfulRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful scoring run",
		}),
	}
}

// Registry returns the run's registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordLoad records records read from a source and how long it took.
func (m *Metrics) RecordLoad(source string, records int, elapsed time.Duration) {
	m.RecordsLoaded.Add(float64(records))
	m.SourceLoad.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordSkipped adds n skipped records for reason.
func (m *Metrics) RecordSkipped(reason string, n int) {
	m.RecordsSkipped.WithLabelValues(reason).Add(float64(n))
}

// RecordScores observes every public score.
func (m *Metrics) RecordScores(results []domain.ScoreResult) {
	for _, r := range results {
		m.WalletsScored.Inc()
		m.ScoreDistribution.Observe(float64(r.Score))
		if r.Breakdown.BotPenalized() {
			m.BotPenalized.Inc()
		}
	}
}

// RecordRun records a finished run. finishedAt feeds the health gauge on success.
func (m *Metrics) RecordRun(status string, elapsed time.Duration, finishedAt time.Time) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(elapsed.Seconds())
	if status == StatusSuccess {
		m.LastSuccessfulRun.Set(float64(finishedAt.Unix()))
	}
}

// WriteTextfile writes the registry in text exposition format for the
// node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
