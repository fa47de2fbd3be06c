// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/policy"
)

// DeriveNullifier computes the canonical nullifier for a proof of type
// t: SHA3-256("ANM-NULLIFIER-" || type_tag || "-V1" || 0x00 ||
// identity || binding). identity is the submitter/share-specific
// bytes that make this particular proof unique (e.g. an extranonce or
// job-receipt ID); binding ties it to the header it was minted
// against so it cannot be replayed elsewhere.
func DeriveNullifier(t policy.ProofType, identity, binding []byte) [32]byte {
	tag := codec.NullifierTag(t.String())
	body := make([]byte, 0, len(identity)+len(binding))
	body = append(body, identity...)
	body = append(body, binding...)
	return codec.H(tag, body)
}

// headerBinding returns the binding bytes every proof type commits
// to: mix_seed || policy_root, so a proof cannot be replayed against a
// sibling header at the same height.
func headerBinding(ctx HeaderContext) []byte {
	b := make([]byte, 0, 64)
	b = append(b, ctx.MixSeed[:]...)
	b = append(b, ctx.PolicyRoot[:]...)
	return b
}
