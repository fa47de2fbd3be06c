// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package header defines the canonical block header: the minimal,
// fixed-field, ascending-integer-keyed CBOR map every node must
// encode and hash byte-identically. See spec.md §3 and §4.1.
package header

import (
	"fmt"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/policy"
)

// Hash is a 32-byte block/header identifier.
type Hash [32]byte

// Address is a 20-byte account identifier (the coinbase recipient).
// Transaction execution itself is out of scope for this core; the
// core only carries the address opaquely.
type Address [20]byte

// Header is the canonical PoIES header. Field order below is the
// canonical ascending CBOR map key order; do not reorder without
// bumping codec.Version. Nonce is field 15: spec.md §4.4 requires the
// nonce to participate in the u-draw ("header with its nonce field
// included") but spec.md §3's nine-field list never places it
// explicitly — SPEC_FULL.md §3 resolves this by appending Nonce after
// the nine canonical fields, purely additive.
type Header struct {
	ParentHash Hash `cbor:"1,keyasint" json:"parentHash"`
	Height     uint64 `cbor:"2,keyasint" json:"height"`
	MixSeed    Hash   `cbor:"3,keyasint" json:"mixSeed"`

	StateRoot    Hash `cbor:"4,keyasint" json:"stateRoot"`
	TxsRoot      Hash `cbor:"5,keyasint" json:"txsRoot"`
	ProofsRoot   Hash `cbor:"6,keyasint" json:"proofsRoot"`
	DARoot       Hash `cbor:"7,keyasint" json:"daRoot"`
	ReceiptsRoot Hash `cbor:"8,keyasint" json:"receiptsRoot"`

	Theta uint64 `cbor:"9,keyasint" json:"theta"`

	PolicyRoot    policy.Root `cbor:"10,keyasint" json:"policyRoot"`
	AlgPolicyRoot policy.Root `cbor:"11,keyasint" json:"algPolicyRoot"`

	NonceDomainTag string `cbor:"12,keyasint" json:"nonceDomainTag"`

	Coinbase Address `cbor:"13,keyasint" json:"coinbase"`

	Timestamp uint64 `cbor:"14,keyasint" json:"timestamp"`

	Nonce []byte `cbor:"15,keyasint" json:"nonce"`
}

// MaxNonceLen bounds the additive Nonce field so a header can never
// grow past policy.HeaderSizeCap through nonce padding alone.
const MaxNonceLen = 32

// Encode returns h's canonical CBOR encoding.
func (h *Header) Encode() ([]byte, error) {
	return codec.Marshal(codec.CurrentVersion, h)
}

// Decode parses canonical CBOR bytes into a new Header.
func Decode(data []byte) (*Header, error) {
	var h Header
	if _, err := codec.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Hash returns the domain-tagged header hash H("ANM-HEADER-V1", cbor(h)).
func (h *Header) Hash() (Hash, error) {
	raw, err := h.Encode()
	if err != nil {
		return Hash{}, fmt.Errorf("header: hash: %w", err)
	}
	return Hash(codec.H(codec.TagHeader, raw)), nil
}

// ValidateShape checks the structural invariants spec.md §4.4's
// validation gate requires before any hashing/scoring: fixed ASCII
// nonce-domain tag, bounded nonce length, and an encoded size under
// the policy's header size cap. It does not check chain linkage
// (parent/height/policy-root agreement with chain state); that is the
// caller's responsibility (consensuscore.Core.ValidateHeader).
func (h *Header) ValidateShape(p *policy.Policy) error {
	if h.NonceDomainTag != p.NonceDomainTag {
		return fmt.Errorf("header: nonce domain tag %q does not match policy %q", h.NonceDomainTag, p.NonceDomainTag)
	}
	if len(h.Nonce) > MaxNonceLen {
		return fmt.Errorf("header: nonce length %d exceeds max %d", len(h.Nonce), MaxNonceLen)
	}
	raw, err := h.Encode()
	if err != nil {
		return fmt.Errorf("header: encode: %w", err)
	}
	if uint32(len(raw)) > p.HeaderSizeCap {
		return fmt.Errorf("header: encoded size %d exceeds policy cap %d", len(raw), p.HeaderSizeCap)
	}
	return nil
}
