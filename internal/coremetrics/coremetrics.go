// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package coremetrics wraps github.com/prometheus/client_golang the
// way the teacher's metrics/metrics.go does: a thin Metrics{Registry}
// holder plus, here, a typed Recorder exposing the counters and
// gauges a consensuscore.Core host needs to observe acceptance rate,
// Theta/alpha drift, and nullifier-store growth.
package coremetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/animicaorg/consensus/policy"
)

// Metrics holds the registerer every collector in this package
// attaches to, mirroring the teacher's Metrics{Registry} shape.
type Metrics struct {
	Registry prometheus.Registerer
}

// NewMetrics wraps an existing registerer (prometheus.NewRegistry(),
// or prometheus.DefaultRegisterer in a host that wants one process-
// wide registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{Registry: reg}
}

// Register attaches an arbitrary collector, matching the teacher's
// one-line delegation.
func (m *Metrics) Register(collector prometheus.Collector) error {
	return m.Registry.Register(collector)
}

// Recorder is the set of collectors a consensuscore.Core host updates
// on every submit_block call and every epoch rollover.
type Recorder struct {
	blocksAccepted  prometheus.Counter
	blocksShare     prometheus.Counter
	blocksRejected  *prometheus.CounterVec
	theta           prometheus.Gauge
	alpha           *prometheus.GaugeVec
	nullifierStore  prometheus.Gauge
	reorgDepth      prometheus.Histogram
	verifyLatencyMs prometheus.Histogram
}

// NewRecorder builds and registers every collector on m. It returns
// an error if any collector name collides with one already registered
// on m.Registry.
func NewRecorder(m *Metrics) (*Recorder, error) {
	r := &Recorder{
		blocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "animica_blocks_accepted_total",
			Help: "Blocks that reached BlockAccepted via submit_block.",
		}),
		blocksShare: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "animica_blocks_share_total",
			Help: "Blocks that reached ShareReceipt via submit_block.",
		}),
		blocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "animica_blocks_rejected_total",
			Help: "Blocks that reached Rejected via submit_block, by reason.",
		}, []string{"reason"}),
		theta: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "animica_theta_micronats",
			Help: "Current per-epoch acceptance threshold Theta, in micronats.",
		}),
		alpha: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "animica_alpha_micronats",
			Help: "Current fairness weight alpha per proof type, in micronats.",
		}, []string{"proof_type"}),
		nullifierStore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "animica_nullifier_store_size",
			Help: "Entries currently held in the nullifier store's active window.",
		}),
		reorgDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "animica_reorg_depth",
			Help:    "Depth of accepted reorgs, in heights displaced.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		verifyLatencyMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "animica_verify_proof_latency_ms",
			Help:    "verify_proof wall-clock latency in milliseconds.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	collectors := []prometheus.Collector{
		r.blocksAccepted, r.blocksShare, r.blocksRejected,
		r.theta, r.alpha, r.nullifierStore, r.reorgDepth, r.verifyLatencyMs,
	}
	for _, c := range collectors {
		if err := m.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveAccepted records a BlockAccepted outcome and, when reorgDepth
// is non-zero, the reorg it caused.
func (r *Recorder) ObserveAccepted(reorgDepth uint64) {
	r.blocksAccepted.Inc()
	if reorgDepth > 0 {
		r.reorgDepth.Observe(float64(reorgDepth))
	}
}

// ObserveShare records a ShareReceipt outcome.
func (r *Recorder) ObserveShare() {
	r.blocksShare.Inc()
}

// ObserveRejected records a Rejected outcome tagged by its reason's
// error string, e.g. err.Error() truncated by the caller if needed.
func (r *Recorder) ObserveRejected(reason string) {
	r.blocksRejected.WithLabelValues(reason).Inc()
}

// SetTheta publishes the current acceptance threshold.
func (r *Recorder) SetTheta(theta int64) {
	r.theta.Set(float64(theta))
}

// SetAlpha publishes the current fairness weight for one proof type.
func (r *Recorder) SetAlpha(t policy.ProofType, alpha int64) {
	r.alpha.WithLabelValues(t.String()).Set(float64(alpha))
}

// SetNullifierStoreSize publishes the active nullifier window's size.
func (r *Recorder) SetNullifierStoreSize(n int) {
	r.nullifierStore.Set(float64(n))
}

// ObserveVerifyLatency records one verify_proof call's wall-clock
// latency.
func (r *Recorder) ObserveVerifyLatency(ms float64) {
	r.verifyLatencyMs.Observe(ms)
}
