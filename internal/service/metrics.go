package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"hydraapi/internal/hydra"
)

const (
	outcomeCompleted = "completed"
	outcomeFailed    = "failed"
	outcomeTimeout   = "timeout"
	outcomeRejected  = "rejected"
)

// invalidService labels runs whose service hydra does not support, so
// arbitrary request values cannot create new series.
const invalidService = "invalid"

func serviceLabel(service string) string {
	if hydra.IsSupported(service) {
		return service
	}
	return invalidService
}

// Metrics holds the hydra run collectors exported on /metrics.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	credentials *prometheus.CounterVec
}

// NewMetrics creates the run collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydra_runs_total",
				Help: "Total number of hydra runs by outcome.",
			},
			[]string{"service", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hydra_run_duration_seconds",
				Help:    "Wall time of hydra processes.",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
			[]string{"service"},
		),
		credentials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hydra_credentials_found_total",
				Help: "Total number of credentials discovered by hydra.",
			},
			[]string{"service"},
		),
	}

	for _, c := range []prometheus.Collector{m.runs, m.duration, m.credentials} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(service, outcome string, seconds float64, found int) {
	if m == nil {
		return
	}
	service = serviceLabel(service)
	m.runs.WithLabelValues(service, outcome).Inc()
	if outcome == outcomeRejected {
		return
	}
	m.duration.WithLabelValues(service).Observe(seconds)
	if found > 0 {
		m.credentials.WithLabelValues(service).Add(float64(found))
	}
}
