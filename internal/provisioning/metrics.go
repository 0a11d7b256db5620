package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ocs_chaos"

// Metrics are the run metrics. A nil *Metrics records nothing.
type Metrics struct {
	phaseDuration *prometheus.HistogramVec
	phaseTotal    *prometheus.CounterVec
	pollAttempts  *prometheus.CounterVec
	clusters      *prometheus.CounterVec
	cleanups      *prometheus.CounterVec
	runState      prometheus.Gauge
}

// NewMetrics creates the run metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "phase_duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~4.5h
			},
			[]string{"phase"},
		),
		phaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "phases_total",
				Help:      "Total number of provisioning phases by result",
			},
			[]string{"phase", "result"},
		),
		pollAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "poll_attempts_total",
				Help:      "Total number of readiness checks by check",
			},
			[]string{"check"},
		),
		clusters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "clusters_requested_total",
				Help:      "Total number of clusters requested by role",
			},
			[]string{"role"},
		),
		cleanups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "cleanup",
				Name:      "clusters_total",
				Help:      "Total number of stored clusters processed by cleanup, by result",
			},
			[]string{"result"},
		),
		runState: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "provisioning",
				Name:      "run_state",
				Help:      "Last milestone reached by the run",
			},
		),
	}

	reg.MustRegister(m.phaseDuration, m.phaseTotal, m.pollAttempts, m.clusters, m.cleanups, m.runState)
	return m
}

func (m *Metrics) phaseDone(phase string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	m.phaseTotal.WithLabelValues(phase, result).Inc()
}

func (m *Metrics) pollAttempt(check string) {
	if m == nil {
		return
	}
	m.pollAttempts.WithLabelValues(check).Inc()
}

// ClusterRequested counts a cluster creation request.
func (m *Metrics) ClusterRequested(role Role) {
	if m == nil {
		return
	}
	m.clusters.WithLabelValues(string(role)).Inc()
}

// CleanupResult counts a stored cluster handled by cleanup.
func (m *Metrics) CleanupResult(result string) {
	if m == nil {
		return
	}
	m.cleanups.WithLabelValues(result).Inc()
}

func (m *Metrics) setRunState(s RunState) {
	if m == nil {
		return
	}
	m.runState.Set(float64(s))
}
