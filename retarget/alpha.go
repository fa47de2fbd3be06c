// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package retarget

import (
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// UpdateAlpha applies the multiplicative AlphaTuner rule per type:
// alpha_T <- clamp(alpha_T * exp(rho*(pi*_T - pi_T)), alpha_min,
// alpha_max). observed is the fraction of accepted psi each type
// contributed over the epoch (callers aggregate this from Scorer
// breakdowns); callers owe every type in policy.AllProofTypes an
// entry in both alphaPrev and observed.
func UpdateAlpha(p *policy.Policy, alphaPrev map[policy.ProofType]fixedpoint.Fixed, observed map[policy.ProofType]fixedpoint.Fixed) map[policy.ProofType]fixedpoint.Fixed {
	next := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	for _, t := range policy.AllProofTypes {
		target := p.AlphaTargetOf(t)
		diff := fixedpoint.Mul(p.Rho, target-observed[t])
		factor := fixedpoint.Exp(diff)
		updated := fixedpoint.Mul(alphaPrev[t], factor)
		next[t] = fixedpoint.Clamp(updated, p.AlphaBounds.Min, p.AlphaBounds.Max)
	}
	return next
}

// ObservedFractions turns per-type accumulated psi (summed across the
// epoch's accepted blocks) into the pi_T fractions UpdateAlpha needs.
// If the epoch produced zero total psi, every fraction is zero rather
// than dividing by zero.
func ObservedFractions(psiByType map[policy.ProofType]fixedpoint.Fixed) map[policy.ProofType]fixedpoint.Fixed {
	var total fixedpoint.Fixed
	for _, t := range policy.AllProofTypes {
		total += psiByType[t]
	}
	out := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	if total == 0 {
		return out
	}
	for _, t := range policy.AllProofTypes {
		out[t] = fixedpoint.Div(psiByType[t], total)
	}
	return out
}
