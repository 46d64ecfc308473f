package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// IconMetrics records PWA icon pipeline activity.
type IconMetrics struct {
	artifacts *prometheus.CounterVec
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewIconMetrics registers the icon pipeline metrics on the provided registerer.
func NewIconMetrics(reg prometheus.Registerer) *IconMetrics {
	if reg == nil {
		return &IconMetrics{}
	}
	artifacts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pwa_icon_artifacts_total",
		Help: "PWA icon artifacts attempted, by purpose, format and outcome.",
	}, []string{"purpose", "format", "outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pwa_icon_runs_total",
		Help: "PWA icon pipeline runs, by result.",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pwa_icon_run_duration_seconds",
		Help:    "Duration of PWA icon pipeline runs in seconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	reg.MustRegister(artifacts, runs, duration)
	return &IconMetrics{
		artifacts: artifacts,
		runs:      runs,
		duration:  duration,
	}
}

// ObserveArtifact counts one attempted artifact.
func (m *IconMetrics) ObserveArtifact(purpose, format string, err error) {
	if m == nil || m.artifacts == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.artifacts.WithLabelValues(normalizeLabel(purpose), normalizeLabel(format), outcome).Inc()
}

// ObserveRun records the duration and result of a completed run. result is
// one of "complete", "partial" or "cancelled".
func (m *IconMetrics) ObserveRun(result string, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(result)).Inc()
	m.duration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
