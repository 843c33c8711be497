// Package metrics provides Prometheus metrics for name loading and sampling.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors for the onomastikon components.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Record store
	recordsLoaded *prometheus.CounterVec
	loadErrors    *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec

	// Sampler
	draws           *prometheus.CounterVec
	absentDraws     *prometheus.CounterVec
	zeroWeightDraws *prometheus.CounterVec
	namesGenerated  *prometheus.CounterVec

	// Bootstrap
	filesCopied prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "onomastikon",
		subsystem:        "names",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_loaded_total",
		Help:      "Total number of name records loaded into tables",
	}, []string{"table"})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_errors_total",
		Help:      "Total number of failed table loads by failure kind",
	}, []string{"table", "kind"})

	m.loadDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_duration_milliseconds",
		Help:      "Time spent reading and decoding a name table",
		Buckets:   m.histogramBuckets,
	}, []string{"table"})

	m.draws = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "draws_total",
		Help:      "Total number of random draws against a table",
	}, []string{"table", "weighted"})

	m.absentDraws = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "absent_draws_total",
		Help:      "Draws that found no record for the requested gender",
	}, []string{"table"})

	m.zeroWeightDraws = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "zero_weight_draws_total",
		Help:      "Weighted draws rejected because every candidate had zero occurrences",
	}, []string{"table"})

	m.namesGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "names_generated_total",
		Help:      "Total number of names returned to callers by kind",
	}, []string{"kind"})

	m.filesCopied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "bootstrap",
		Name:      "files_copied_total",
		Help:      "Data files copied into the user data directory",
	})
}

// RecordRecordsLoaded adds n loaded records for table.
func (m *Manager) RecordRecordsLoaded(table string, n int) {
	if !m.enabled {
		return
	}
	m.recordsLoaded.WithLabelValues(table).Add(float64(n))
}

// RecordLoadError increments the load error counter for table and kind.
func (m *Manager) RecordLoadError(table, kind string) {
	if !m.enabled {
		return
	}
	m.loadErrors.WithLabelValues(table, kind).Inc()
}

// RecordLoadDuration observes a load duration in milliseconds.
func (m *Manager) RecordLoadDuration(table string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.loadDuration.WithLabelValues(table).Observe(durationMs)
}

// RecordDraw increments the draw counter for table.
func (m *Manager) RecordDraw(table string, weighted bool) {
	if !m.enabled {
		return
	}
	m.draws.WithLabelValues(table, strconv.FormatBool(weighted)).Inc()
}

// RecordAbsentDraw increments the absent draw counter for table.
func (m *Manager) RecordAbsentDraw(table string) {
	if !m.enabled {
		return
	}
	m.absentDraws.WithLabelValues(table).Inc()
}

// RecordZeroWeightDraw increments the zero-weight draw counter for table.
func (m *Manager) RecordZeroWeightDraw(table string) {
	if !m.enabled {
		return
	}
	m.zeroWeightDraws.WithLabelValues(table).Inc()
}

// RecordNameGenerated increments the generated names counter for kind.
func (m *Manager) RecordNameGenerated(kind string) {
	if !m.enabled {
		return
	}
	m.namesGenerated.WithLabelValues(kind).Inc()
}

// RecordFileCopied increments the bootstrap copy counter.
func (m *Manager) RecordFileCopied() {
	if !m.enabled {
		return
	}
	m.filesCopied.Inc()
}

// Default returns the global manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
