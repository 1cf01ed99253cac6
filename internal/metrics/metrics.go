// Package metrics exposes Prometheus instruments for the sentiment pipeline.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sentiment"

// Metrics holds the pipeline's Prometheus collectors
type Metrics struct {
	AnalysesTotal      *prometheus.CounterVec
	FallbacksTotal     *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	TranslationsTotal  *prometheus.CounterVec
	BatchItemsTotal    *prometheus.CounterVec
	TasksTotal         *prometheus.CounterVec
	QueueWaitSeconds   prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by analysis mode.",
		}, []string{"mode"}),
		FallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Model branches that fell back to lexicon-derived output.",
		}, []string{"branch", "reason"}),
		RemoteCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of remote model calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
		}, []string{"branch", "outcome"}),
		TranslationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation attempts by outcome.",
		}, []string{"outcome"}),
		BatchItemsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Batch items by outcome.",
		}, []string{"outcome"}),
		TasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Queued analysis tasks by outcome.",
		}, []string{"type", "outcome"}),
		QueueWaitSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "queue_wait_seconds",
			Help:      "Time tasks spent waiting in the queue.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	reg.MustRegister(
		m.AnalysesTotal,
		m.FallbacksTotal,
		m.RemoteCallDuration,
		m.TranslationsTotal,
		m.BatchItemsTotal,
		m.TasksTotal,
		m.QueueWaitSeconds,
	)
	return m
}

// RecordAnalysis counts a completed analysis
func (m *Metrics) RecordAnalysis(mode string) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(mode).Inc()
}

// RecordFallback counts a branch that degraded to its fallback
func (m *Metrics) RecordFallback(branch, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(branch, reason).Inc()
}

// ObserveRemoteCall records the duration of a model call
func (m *Metrics) ObserveRemoteCall(branch, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.RemoteCallDuration.WithLabelValues(branch, outcome).Observe(d.Seconds())
}

// RecordTranslation counts a translation attempt
func (m *Metrics) RecordTranslation(outcome string) {
	if m == nil {
		return
	}
	m.TranslationsTotal.WithLabelValues(outcome).Inc()
}

// RecordBatchItem counts a processed batch item
func (m *Metrics) RecordBatchItem(outcome string) {
	if m == nil {
		return
	}
	m.BatchItemsTotal.WithLabelValues(outcome).Inc()
}

// RecordTask counts a processed queue task
func (m *Metrics) RecordTask(taskType, outcome string) {
	if m == nil {
		return
	}
	m.TasksTotal.WithLabelValues(taskType, outcome).Inc()
}

// ObserveQueueWait records how long a task waited before processing
func (m *Metrics) ObserveQueueWait(d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.QueueWaitSeconds.Observe(d.Seconds())
}
