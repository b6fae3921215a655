package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	powChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pow_validator",
		Name:      "checks_total",
		Help:      "Count of proof-of-work checks by verdict.",
	}, []string{"network", "reason"})
	powCheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pow_validator",
		Name:      "check_duration_seconds",
		Help:      "Duration of proof-of-work checks, gHash included.",
		Buckets:   prometheus.ExponentialBuckets(.001, 2, 14),
	}, []string{"network"})
)

// PowValidator tracks proof-of-work verdicts.
type PowValidator struct {
	network string
}

// NewPowValidator constructs a PowValidator collector.
func NewPowValidator(network string) *PowValidator {
	return &PowValidator{network: orUnknown(network)}
}

// ObserveCheck records one verdict and how long it took.
func (m PowValidator) ObserveCheck(reason string, started time.Time) {
	powChecksTotal.WithLabelValues(m.network, reason).Inc()
	powCheckDuration.WithLabelValues(m.network).Observe(time.Since(started).Seconds())
}
