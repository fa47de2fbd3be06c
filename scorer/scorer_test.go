// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package scorer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/proof"
)

func testPolicy() *policy.Policy {
	p := policy.Testnet()
	// VDF's psi_raw = beta_vdf * t_seconds is exact (no transcendental
	// functions involved), which keeps these tests' expected values
	// hand-computable rather than dependent on the tabulated Ln/Exp
	// approximation's exact rounding.
	p.Beta[policy.ProofTypeVDF] = fixedpoint.One
	p.GammaProof[policy.ProofTypeVDF] = 3 * fixedpoint.Scale
	p.GammaType[policy.ProofTypeVDF] = 5 * fixedpoint.Scale
	p.GammaTotal = 8 * fixedpoint.Scale
	p.TauEscort = fixedpoint.Scale * 3 / 4
	p.QEscort = 2
	for _, t := range policy.AllProofTypes {
		if _, ok := p.GammaProof[t]; !ok {
			p.GammaProof[t] = fixedpoint.Scale
		}
	}
	return p
}

func unityAlpha() map[policy.ProofType]fixedpoint.Fixed {
	a := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	for _, t := range policy.AllProofTypes {
		a[t] = fixedpoint.One
	}
	return a
}

func TestApplyCapsPerProofThenPerTypeThenGlobal(t *testing.T) {
	p := testPolicy()
	alpha := unityAlpha()

	proofs := []ScoredProof{
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{1}, Metrics: proof.VDFMetrics{TSeconds: 10 * fixedpoint.Scale}}, // capped to 3 (per-proof)
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{2}, Metrics: proof.VDFMetrics{TSeconds: 10 * fixedpoint.Scale}}, // capped to 2 (per-type remaining 5-3)
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{3}, Metrics: proof.VDFMetrics{TSeconds: 10 * fixedpoint.Scale}}, // per-type exhausted, contributes 0
	}

	res, err := Apply(p, alpha, proofs)
	require.NoError(t, err)
	require.Equal(t, 5*fixedpoint.Scale, res.Psi)
	require.Equal(t, 3*fixedpoint.Scale, res.Breakdown[0].Taken)
	require.Equal(t, 2*fixedpoint.Scale, res.Breakdown[1].Taken)
	require.Equal(t, fixedpoint.Zero, res.Breakdown[2].Taken)
}

func TestApplyIsOrderIndependentOfInputOrdering(t *testing.T) {
	p := testPolicy()
	alpha := unityAlpha()

	a := ScoredProof{Type: policy.ProofTypeVDF, Nullifier: [32]byte{1}, Metrics: proof.VDFMetrics{TSeconds: 4 * fixedpoint.Scale}}
	b := ScoredProof{Type: policy.ProofTypeVDF, Nullifier: [32]byte{2}, Metrics: proof.VDFMetrics{TSeconds: 4 * fixedpoint.Scale}}

	r1, err := Apply(p, alpha, []ScoredProof{a, b})
	require.NoError(t, err)
	r2, err := Apply(p, alpha, []ScoredProof{b, a})
	require.NoError(t, err)
	require.Equal(t, r1.Psi, r2.Psi)
	require.Equal(t, r1.Breakdown, r2.Breakdown)
}

func TestApplyMonotonicUnderSupersetOfProofs(t *testing.T) {
	p := testPolicy()
	alpha := unityAlpha()

	p1 := []ScoredProof{{Type: policy.ProofTypeVDF, Nullifier: [32]byte{1}, Metrics: proof.VDFMetrics{TSeconds: fixedpoint.Scale}}}
	p2 := append(append([]ScoredProof{}, p1...), ScoredProof{Type: policy.ProofTypeVDF, Nullifier: [32]byte{2}, Metrics: proof.VDFMetrics{TSeconds: fixedpoint.Scale}})

	r1, err := Apply(p, alpha, p1)
	require.NoError(t, err)
	r2, err := Apply(p, alpha, p2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, r2.Psi, r1.Psi)
	require.LessOrEqual(t, r2.Psi, p.GammaTotal)
}

func TestApplyEscortViolation(t *testing.T) {
	p := testPolicy()
	alpha := unityAlpha()
	p.QEscort = 3 // only one type will contribute below
	// Escort threshold tau*gamma_total = 0.5*8 = 4; the two VDF proofs
	// reach Psi = 5 (the VDF type cap), which exceeds it.
	p.TauEscort = fixedpoint.Scale / 2

	proofs := []ScoredProof{
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{1}, Metrics: proof.VDFMetrics{TSeconds: 3 * fixedpoint.Scale}},
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{2}, Metrics: proof.VDFMetrics{TSeconds: 3 * fixedpoint.Scale}},
	}
	_, err := Apply(p, alpha, proofs)
	require.ErrorIs(t, err, ErrEscortViolation)
}

func TestApplyNoEscortViolationWhenDiverseEnough(t *testing.T) {
	p := testPolicy()
	alpha := unityAlpha()
	p.QEscort = 2

	proofs := []ScoredProof{
		{Type: policy.ProofTypeVDF, Nullifier: [32]byte{1}, Metrics: proof.VDFMetrics{TSeconds: 3 * fixedpoint.Scale}},
		{Type: policy.ProofTypeHash, Nullifier: [32]byte{2}, Metrics: proof.HashMetrics{DRatio: 2 * fixedpoint.Scale}}, // 10*ln(2)=6.93, capped to 4
	}
	// Psi = 3 + 4 = 7 exceeds tau*gamma_total = 6, but two types
	// contribute, which meets QEscort = 2.
	res, err := Apply(p, alpha, proofs)
	require.NoError(t, err)
	require.Equal(t, 7*fixedpoint.Scale, res.Psi)
}

func TestPsiRawAIUsesKnotsAndRedundancy(t *testing.T) {
	p := testPolicy()
	m := proof.AIMetrics{
		AIUnits:    100 * fixedpoint.Scale,
		QoS:        fixedpoint.One,
		TrapsRatio: p.TrapsTarget,
		Redundancy: 1,
	}
	v, err := psiRawAI(p, m)
	require.NoError(t, err)
	require.GreaterOrEqual(t, v, fixedpoint.Zero)
}

func TestPsiRawHashZeroAtMinimumRatio(t *testing.T) {
	p := testPolicy()
	v, err := psiRawHash(p, proof.HashMetrics{DRatio: fixedpoint.One})
	require.NoError(t, err)
	require.Equal(t, fixedpoint.Zero, v)
}

func TestRedundancyFactorZeroAtZero(t *testing.T) {
	p := testPolicy()
	v, err := redundancyFactor(p, 0)
	require.NoError(t, err)
	require.Equal(t, fixedpoint.Zero, v)
}
