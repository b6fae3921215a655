package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verifierFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "fetch_total",
		Help:      "Count of header fetch rounds.",
	}, []string{"network", "status"})

	verifierFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of a header fetch round, proof checks included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	verifierFetchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "fetch_size",
		Help:      "Number of headers fetched per round.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"network"})

	verifierVerdictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "verdicts_total",
		Help:      "Count of connected headers by verdict.",
	}, []string{"network", "reason"})

	verifierReorgDepth = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "reorg_depth",
		Help:      "Number of blocks disconnected by a reorganization.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"network"})

	verifierTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "header_verifier",
		Name:      "tip_height",
		Help:      "Height of the verified chain tip.",
	}, []string{"network"})
)

// HeaderVerifier tracks metrics for the header verifier loop.
type HeaderVerifier struct {
	network string
}

// NewHeaderVerifier constructs a HeaderVerifier collector.
func NewHeaderVerifier(network string) *HeaderVerifier {
	return &HeaderVerifier{network: orUnknown(network)}
}

// ObserveFetch records a fetch round outcome, size and duration.
func (m HeaderVerifier) ObserveFetch(err error, headers int, started time.Time) {
	s := status(err)
	verifierFetchTotal.WithLabelValues(m.network, s).Inc()
	verifierFetchDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	verifierFetchSize.WithLabelValues(m.network).Observe(float64(headers))
}

// ObserveVerdict counts a connected header under its verdict label.
func (m HeaderVerifier) ObserveVerdict(reason string) {
	verifierVerdictsTotal.WithLabelValues(m.network, reason).Inc()
}

// ObserveReorg records how many blocks a reorganization disconnected.
func (m HeaderVerifier) ObserveReorg(depth int32) {
	verifierReorgDepth.WithLabelValues(m.network).Observe(float64(depth))
}

// SetTip publishes the verified tip height.
func (m HeaderVerifier) SetTip(height int32) {
	verifierTipHeight.WithLabelValues(m.network).Set(float64(height))
}
