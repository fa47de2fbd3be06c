// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scorer implements the Scorer component: mapping verified
// ProofMetrics to psi_raw per spec.md §4.3, applying the fairness
// adjustment and the ordered per-proof/per-type/global caps, and
// enforcing the diversity ("escort") rule. Grounded on the teacher's
// confidence/threshold.go running-counter-with-caps shape.
package scorer

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/proof"
)

// ErrEscortViolation is returned when Psi exceeds tau_escort*gamma_total
// but fewer than q_escort distinct types contributed to it.
var ErrEscortViolation = errors.New("scorer: psi exceeds escort threshold with too few distinct contributing types")

// ScoredProof is one verified proof ready for accumulation: the type
// and nullifier drive the deterministic iteration order, Metrics
// drives the psi_raw mapping.
type ScoredProof struct {
	Type      policy.ProofType
	Nullifier [32]byte
	Metrics   proof.Metrics
}

// Contribution is one line of the score breakdown: what a single
// proof actually contributed after every cap was applied.
type Contribution struct {
	Type      policy.ProofType
	Nullifier [32]byte
	PsiRaw    fixedpoint.Fixed
	PsiAdj    fixedpoint.Fixed
	Taken     fixedpoint.Fixed
}

// Result is the Scorer's output: the accumulated Psi and a
// deterministic, ordered breakdown a verifier can replay.
type Result struct {
	Psi        fixedpoint.Fixed
	Breakdown  []Contribution
}

// Apply accumulates proofs into Psi under the ordered caps and escort
// rule. alpha is the current per-type fairness multiplier (as
// published by the AlphaTuner at the last epoch boundary).
func Apply(p *policy.Policy, alpha map[policy.ProofType]fixedpoint.Fixed, proofs []ScoredProof) (Result, error) {
	ordered := make([]ScoredProof, len(proofs))
	copy(ordered, proofs)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Type != ordered[j].Type {
			return ordered[i].Type < ordered[j].Type
		}
		return bytes.Compare(ordered[i].Nullifier[:], ordered[j].Nullifier[:]) < 0
	})

	sumType := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	contributing := make(map[policy.ProofType]bool, len(policy.AllProofTypes))
	var sumTotal fixedpoint.Fixed
	breakdown := make([]Contribution, 0, len(ordered))

	for _, sp := range ordered {
		raw, err := psiRaw(p, sp.Type, sp.Metrics)
		if err != nil {
			return Result{}, fmt.Errorf("scorer: psi_raw(%s): %w", sp.Type, err)
		}
		a := alpha[sp.Type]
		if a == 0 {
			a = fixedpoint.One
		}
		adj := fixedpoint.Mul(a, raw)

		perProofCap := fixedpoint.Min(adj, p.GammaProofOf(sp.Type))

		remainingType := p.GammaTypeOf(sp.Type) - sumType[sp.Type]
		remainingType = fixedpoint.Max(remainingType, 0)
		take := fixedpoint.Min(perProofCap, remainingType)

		remainingGlobal := p.GammaTotal - sumTotal
		remainingGlobal = fixedpoint.Max(remainingGlobal, 0)
		take = fixedpoint.Min(take, remainingGlobal)

		if take < 0 {
			take = 0
		}

		sumType[sp.Type] += take
		sumTotal += take
		if take > 0 {
			contributing[sp.Type] = true
		}

		breakdown = append(breakdown, Contribution{
			Type:      sp.Type,
			Nullifier: sp.Nullifier,
			PsiRaw:    raw,
			PsiAdj:    adj,
			Taken:     take,
		})
	}

	escortThreshold := fixedpoint.Mul(p.TauEscort, p.GammaTotal)
	if sumTotal > escortThreshold && len(contributing) < int(p.QEscort) {
		return Result{}, ErrEscortViolation
	}

	return Result{Psi: sumTotal, Breakdown: breakdown}, nil
}
