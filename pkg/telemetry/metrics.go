package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the Aviary preprocessing pipeline.
type Metrics struct {
	config MetricsConfig

	// Preprocessing metrics
	missionsPreprocessed *prometheus.CounterVec
	preprocessDuration   *prometheus.HistogramVec
	phasesClassified     *prometheus.CounterVec
	directivesEmitted    *prometheus.CounterVec
	warningsSurfaced     prometheus.Counter

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	// Policy metrics
	policyViolations *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		missionsPreprocessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "missions_preprocessed_total",
				Help:      "Total number of mission preprocessing passes by outcome.",
			},
			[]string{"status", "eom"},
		),

		preprocessDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "preprocess_duration_seconds",
				Help:      "Duration of the full preprocessing pipeline.",
				Buckets:   buckets,
			},
			[]string{"eom"},
		),

		phasesClassified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "phases_classified_total",
				Help:      "Total number of phases classified, by group and analytic tag.",
			},
			[]string{"group", "analytic"},
		),

		directivesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directives_emitted_total",
				Help:      "Total number of continuity directives emitted, by kind.",
			},
			[]string{"kind"},
		),

		warningsSurfaced: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warnings_surfaced_total",
				Help:      "Total number of non-fatal warnings surfaced to the user.",
			},
		),

		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of preprocessing errors by class.",
			},
			[]string{"class"},
		),

		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of preprocessing errors by code.",
			},
			[]string{"code"},
		),

		policyViolations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_violations_total",
				Help:      "Total number of mission policy violations by policy and severity.",
			},
			[]string{"policy", "severity"},
		),
	}

	collectors := []prometheus.Collector{
		m.missionsPreprocessed,
		m.preprocessDuration,
		m.phasesClassified,
		m.directivesEmitted,
		m.warningsSurfaced,
		m.errorsByClass,
		m.errorsByCode,
		m.policyViolations,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// RecordPreprocess records the outcome and duration of one preprocessing pass.
func (m *Metrics) RecordPreprocess(status, eom string, duration time.Duration) {
	if m.registry == nil {
		return
	}
	m.missionsPreprocessed.WithLabelValues(status, eom).Inc()
	m.preprocessDuration.WithLabelValues(eom).Observe(duration.Seconds())
}

// RecordPhase records one classified phase.
func (m *Metrics) RecordPhase(group string, analytic bool) {
	if m.registry == nil {
		return
	}
	m.phasesClassified.WithLabelValues(group, fmt.Sprintf("%t", analytic)).Inc()
}

// RecordDirective records one emitted continuity directive.
func (m *Metrics) RecordDirective(kind string) {
	if m.registry == nil {
		return
	}
	m.directivesEmitted.WithLabelValues(kind).Inc()
}

// RecordWarning records one surfaced warning.
func (m *Metrics) RecordWarning() {
	if m.registry == nil {
		return
	}
	m.warningsSurfaced.Inc()
}

// RecordError records one classified error.
func (m *Metrics) RecordError(class, code string) {
	if m.registry == nil {
		return
	}
	m.errorsByClass.WithLabelValues(class).Inc()
	m.errorsByCode.WithLabelValues(code).Inc()
}

// RecordPolicyViolation records one policy violation.
func (m *Metrics) RecordPolicyViolation(policy, severity string) {
	if m.registry == nil {
		return
	}
	m.policyViolations.WithLabelValues(policy, severity).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartServer starts the metrics HTTP server. It returns immediately; the
// server runs until the process exits.
func (m *Metrics) StartServer() error {
	if m.registry == nil {
		return nil
	}

	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	go func() {
		// Serve errors are not recoverable here; the endpoint is best-effort.
		_ = http.ListenAndServe(m.config.ListenAddress, mux)
	}()

	return nil
}
