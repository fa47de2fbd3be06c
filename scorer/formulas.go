// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package scorer

import (
	"fmt"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/proof"
)

// psiRaw dispatches to the per-type pre-cap mapping (spec.md §4.3).
// Metrics.Type() must agree with t; mismatches are a caller bug, not
// an adversarial-input error, so they panic rather than returning
// Malformed-style errors the rest of this package never produces.
func psiRaw(p *policy.Policy, t policy.ProofType, m proof.Metrics) (fixedpoint.Fixed, error) {
	if m.Type() != t {
		panic(fmt.Sprintf("scorer: metrics type %s does not match proof type %s", m.Type(), t))
	}
	switch v := m.(type) {
	case proof.HashMetrics:
		return psiRawHash(p, v)
	case proof.AIMetrics:
		return psiRawAI(p, v)
	case proof.QPUMetrics:
		return psiRawQPU(p, v)
	case proof.StorageMetrics:
		return psiRawStorage(p, v)
	case proof.VDFMetrics:
		return psiRawVDF(p, v)
	default:
		return 0, fmt.Errorf("scorer: unrecognized metrics type %T", m)
	}
}

func psiRawHash(p *policy.Policy, m proof.HashMetrics) (fixedpoint.Fixed, error) {
	ln, err := fixedpoint.Ln(m.DRatio)
	if err != nil {
		return 0, err
	}
	return fixedpoint.Mul(p.BetaOf(policy.ProofTypeHash), ln), nil
}

func psiRawAI(p *policy.Policy, m proof.AIMetrics) (fixedpoint.Fixed, error) {
	g := policy.EvalKnots(p.QoSKnots, m.TrapsRatio)
	r, err := redundancyFactor(p, m.Redundancy)
	if err != nil {
		return 0, err
	}
	v := fixedpoint.Mul(m.AIUnits, m.QoS)
	v = fixedpoint.Mul(v, g)
	v = fixedpoint.Mul(v, r)
	return fixedpoint.Mul(p.BetaOf(policy.ProofTypeAI), v), nil
}

func psiRawQPU(p *policy.Policy, m proof.QPUMetrics) (fixedpoint.Fixed, error) {
	g := policy.EvalKnots(p.QoSKnots, m.TrapsRatio)
	v := fixedpoint.Mul(m.QPUUnits, m.QoS)
	v = fixedpoint.Mul(v, g)
	return fixedpoint.Mul(p.BetaOf(policy.ProofTypeQPU), v), nil
}

func psiRawStorage(p *policy.Policy, m proof.StorageMetrics) (fixedpoint.Fixed, error) {
	powVal, err := fixedpoint.Pow(m.SealedBytes, p.StorageSigma.Num, p.StorageSigma.Den)
	if err != nil {
		return 0, err
	}
	bonus := fixedpoint.One + fixedpoint.Mul(p.StorageDelta, m.RetrievalBonus)
	v := fixedpoint.Mul(powVal, m.UptimeQoS)
	v = fixedpoint.Mul(v, bonus)
	return fixedpoint.Mul(p.BetaOf(policy.ProofTypeStor), v), nil
}

func psiRawVDF(p *policy.Policy, m proof.VDFMetrics) (fixedpoint.Fixed, error) {
	return fixedpoint.Mul(p.BetaOf(policy.ProofTypeVDF), m.TSeconds), nil
}

// redundancyFactor computes r(k) = min(k, r_max)^rho via the tabulated
// power curve. r(0) is defined as 0 without calling Pow, since Pow
// relies on Ln(0) which is undefined; a proof with zero redundancy
// contributes no credit regardless of rho.
func redundancyFactor(p *policy.Policy, k uint32) (fixedpoint.Fixed, error) {
	if k == 0 {
		return 0, nil
	}
	capped := k
	if capped > p.RedundancyMax {
		capped = p.RedundancyMax
	}
	base := fixedpoint.FromInt(int64(capped))
	return fixedpoint.Pow(base, p.RedundancyExponent.Num, p.RedundancyExponent.Den)
}
