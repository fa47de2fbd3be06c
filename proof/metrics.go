// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// Metrics is what a verifier produces: one of the five concrete
// *Metrics structs below. Scorer checks Type() against the proof's
// declared type, then dispatches with a type switch over these five
// structs; a value of any other type reaches that switch's error
// case. The interface has only the exported Type() method, so the
// compiler does not restrict it to these five. See spec.md §9's
// "re-architect dynamic dispatch" guidance.
type Metrics interface {
	Type() policy.ProofType
}

// HashMetrics is the result of verifying a HashShare proof: d_ratio is
// achieved_work / share_target_work, always >= 1.0.
type HashMetrics struct {
	DRatio fixedpoint.Fixed
}

func (HashMetrics) Type() policy.ProofType { return policy.ProofTypeHash }

// AIMetrics is the result of verifying an AI inference-job attestation.
type AIMetrics struct {
	AIUnits      fixedpoint.Fixed
	QoS          fixedpoint.Fixed
	TrapsRatio   fixedpoint.Fixed
	Redundancy   uint32
}

func (AIMetrics) Type() policy.ProofType { return policy.ProofTypeAI }

// QPUMetrics is the result of verifying a QPU job receipt.
type QPUMetrics struct {
	QPUUnits   fixedpoint.Fixed
	QoS        fixedpoint.Fixed
	TrapsRatio fixedpoint.Fixed
	Redundancy uint32
}

func (QPUMetrics) Type() policy.ProofType { return policy.ProofTypeQPU }

// StorageMetrics is the result of verifying a storage heartbeat /
// proof-of-retrievability submission.
type StorageMetrics struct {
	SealedBytes     fixedpoint.Fixed
	UptimeQoS       fixedpoint.Fixed
	RetrievalBonus  fixedpoint.Fixed
}

func (StorageMetrics) Type() policy.ProofType { return policy.ProofTypeStor }

// VDFMetrics is the result of verifying a sequential-function (VDF)
// proof: t_seconds is the wall-clock duration the proof attests to.
type VDFMetrics struct {
	TSeconds fixedpoint.Fixed
}

func (VDFMetrics) Type() policy.ProofType { return policy.ProofTypeVDF }
