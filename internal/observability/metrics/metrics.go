package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IntakeMetrics exposes counters/histograms for the submission pipeline.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	relayDuration    *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "submissions_total",
			Help:      "Submit attempts by outcome (success, validation, submission, in-flight)",
		}, []string{"outcome"}),
		relayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "relay_duration_seconds",
			Help:      "Latency of relay deliveries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.relayDuration)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) ObserveRelay(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.relayDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
