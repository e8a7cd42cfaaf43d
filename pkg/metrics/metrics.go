// Package metrics provides Prometheus metrics for the merge pipeline.
//
// The tool is a batch process with no network surface, so nothing is
// scraped; WriteTo dumps the registry in text exposition format at the end
// of a run for anyone who wants the counters.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace string
	subsystem string
	enabled   bool
	registry  *prometheus.Registry

	responsesProcessed *prometheus.CounterVec // by stage: self, peer
	responsesMerged    *prometheus.CounterVec
	responsesSkipped   *prometheus.CounterVec
	schemaErrors       prometheus.Counter
	promptsShown       prometheus.Counter

	stageDuration *prometheus.HistogramVec

	rosterSize       prometheus.Gauge
	subjectsWithPeer prometheus.Gauge
}

// Global metrics manager instance on a custom registry, so default Go
// runtime collectors stay out of the dump.
var globalManager = NewManager() //nolint:gochecknoglobals // singleton metrics manager

// Get returns the global metrics manager.
func Get() *Manager { return globalManager }

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(m *Manager) {
		if subsystem != "" {
			m.subsystem = subsystem
		}
	}
}

// WithEnabled enables or disables metric recording.
func WithEnabled(enabled bool) Option {
	return func(m *Manager) { m.enabled = enabled }
}

// NewManager creates a metrics manager with its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "peerweave",
		subsystem: "pipeline",
		enabled:   true,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.responsesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "responses_processed_total",
		Help:      "Survey responses examined, by stage",
	}, []string{"stage"})

	m.responsesMerged = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "responses_merged_total",
		Help:      "Responses resolved and written into the roster, by stage",
	}, []string{"stage"})

	m.responsesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "responses_skipped_total",
		Help:      "Responses intentionally skipped after failed resolution, by stage",
	}, []string{"stage"})

	m.schemaErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schema_errors_total",
		Help:      "Responses dropped because a required schema column was missing",
	})

	m.promptsShown = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_prompts_total",
		Help:      "Interactive identity prompts shown to the operator",
	})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Wall time of each pipeline stage",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	m.rosterSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_size",
		Help:      "Number of roster records in the run",
	})

	m.subjectsWithPeer = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "subjects_with_peer_responses",
		Help:      "Roster records that received at least one peer evaluation",
	})
}

// RecordProcessed counts one examined response for a stage.
func (m *Manager) RecordProcessed(stage string) {
	if m.enabled {
		m.responsesProcessed.WithLabelValues(stage).Inc()
	}
}

// RecordMerged counts one merged response for a stage.
func (m *Manager) RecordMerged(stage string) {
	if m.enabled {
		m.responsesMerged.WithLabelValues(stage).Inc()
	}
}

// RecordSkipped counts one intentionally skipped response for a stage.
func (m *Manager) RecordSkipped(stage string) {
	if m.enabled {
		m.responsesSkipped.WithLabelValues(stage).Inc()
	}
}

// RecordSchemaError counts one response dropped on a schema lookup failure.
func (m *Manager) RecordSchemaError() {
	if m.enabled {
		m.schemaErrors.Inc()
	}
}

// RecordPrompt counts one interactive identity prompt.
func (m *Manager) RecordPrompt() {
	if m.enabled {
		m.promptsShown.Inc()
	}
}

// RecordStageDuration observes the wall time of one pipeline stage.
func (m *Manager) RecordStageDuration(stage string, d time.Duration) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// SetRosterSize records the roster size for the run.
func (m *Manager) SetRosterSize(n int) {
	if m.enabled {
		m.rosterSize.Set(float64(n))
	}
}

// SetSubjectsWithPeerResponses records how many subjects got peer feedback.
func (m *Manager) SetSubjectsWithPeerResponses(n int) {
	if m.enabled {
		m.subjectsWithPeer.Set(float64(n))
	}
}

// WriteTo dumps all metrics in Prometheus text exposition format.
func (m *Manager) WriteTo(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatherFailed, err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
		}
	}
	return nil
}
