// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package proof implements the ProofRegistry component: per-type
// verification of submitted evidence into ProofMetrics, and the
// nullifier derivation shared by every proof type. See spec.md §4.2
// and §9's "re-architect dynamic dispatch" guidance — each proof type
// is a concrete struct rather than an untyped claim, and the scorer's
// type switch over those structs returns an error for any other type.
package proof

import "github.com/animicaorg/consensus/policy"

// Envelope is the wire-level submission: an opaque, type-tagged body
// plus the nullifier the submitter claims it derives to. The registry
// never trusts the claimed nullifier; Verify always recomputes it.
type Envelope struct {
	Type      policy.ProofType `cbor:"1,keyasint" json:"type"`
	BodyCBOR  []byte           `cbor:"2,keyasint" json:"body"`
	Nullifier [32]byte         `cbor:"3,keyasint" json:"nullifier"`
}

// HeaderContext carries the header fields a verifier binds its
// recomputation to, so a proof minted for one header can never be
// replayed against another (spec.md §4.2's binding requirement).
type HeaderContext struct {
	ParentHash     [32]byte
	MixSeed        [32]byte
	Height         uint64
	PolicyRoot     policy.Root
	NonceDomainTag string
	Timestamp      uint64
}
