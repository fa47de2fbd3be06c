// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"

	"github.com/animicaorg/consensus/policy"
)

// Registry dispatches verification of an Envelope by its Type, per spec.md §4.2's
// ProofRegistry component. It holds no mutable state; every check is
// a pure function of (policy, header context, envelope).
type Registry struct{}

// NewRegistry constructs a Registry. It takes no arguments today;
// kept as a constructor (rather than a bare struct literal) so future
// per-instance verifier plugins have somewhere to attach.
func NewRegistry() *Registry {
	return &Registry{}
}

// Verify recomputes the envelope's evidence against ctx and p. On
// success it returns the typed Metrics and the recomputed nullifier,
// which callers must cross-check against env.Nullifier themselves if
// they have already admitted the envelope from an untrusted source
// (VerifyEnvelope below does this).
func (r *Registry) Verify(p *policy.Policy, ctx HeaderContext, env Envelope) (Metrics, [32]byte, error) {
	switch env.Type {
	case policy.ProofTypeHash:
		m, n, err := VerifyHashShare(p, ctx, env.BodyCBOR)
		return m, n, err
	case policy.ProofTypeAI:
		m, n, err := VerifyAI(p, ctx, env.BodyCBOR)
		return m, n, err
	case policy.ProofTypeQPU:
		m, n, err := VerifyQPU(p, ctx, env.BodyCBOR)
		return m, n, err
	case policy.ProofTypeStor:
		m, n, err := VerifyStorage(p, ctx, env.BodyCBOR)
		return m, n, err
	case policy.ProofTypeVDF:
		m, n, err := VerifyVDF(p, ctx, env.BodyCBOR)
		return m, n, err
	default:
		return nil, [32]byte{}, fmt.Errorf("%w: type %d", ErrUnknownAlgorithm, env.Type)
	}
}

// VerifyEnvelope is Verify plus the envelope's own claimed-nullifier
// check: the caller never has to remember to do this separately.
func (r *Registry) VerifyEnvelope(p *policy.Policy, ctx HeaderContext, env Envelope) (Metrics, [32]byte, error) {
	m, nullifier, err := r.Verify(p, ctx, env)
	if err != nil {
		return nil, [32]byte{}, err
	}
	if nullifier != env.Nullifier {
		return nil, [32]byte{}, ErrNullifierMismatch
	}
	return m, nullifier, nil
}
