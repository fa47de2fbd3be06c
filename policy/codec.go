// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"fmt"

	"github.com/animicaorg/consensus/codec"
	"golang.org/x/crypto/sha3"
)

// Root is a 32-byte commitment: the SHA3-256 of a policy's canonical
// CBOR encoding. Headers carry a Root; every node must load the exact
// Policy whose canonical bytes hash to it.
type Root [32]byte

// ComputeRoot returns the canonical Root for p, independent of Load.
func ComputeRoot(p *Policy) (Root, []byte, error) {
	raw, err := codec.Marshal(codec.CurrentVersion, p)
	if err != nil {
		return Root{}, nil, fmt.Errorf("policy: encode: %w", err)
	}
	return Root(sha3.Sum256(raw)), raw, nil
}

// Load decodes a canonical CBOR policy blob, verifies its SHA3-256
// equals the claimed root, validates its parameters, and returns the
// policy. Unknown fields in the blob cause decoding to fail (per
// spec.md §6 "Unknown fields cause load to fail"), enforced by the
// codec package's canonical-decode rejection of unrecognized map
// entries.
func Load(blob []byte, claimedRoot Root) (*Policy, error) {
	var p Policy
	if _, err := codec.Unmarshal(blob, &p); err != nil {
		return nil, fmt.Errorf("policy: decode: %w", err)
	}

	gotRoot := Root(sha3.Sum256(blob))
	if gotRoot != claimedRoot {
		return nil, fmt.Errorf("policy: root mismatch: blob hashes to %x, claimed %x", gotRoot, claimedRoot)
	}

	if err := p.Valid(); err != nil {
		return nil, fmt.Errorf("policy: invalid: %w", err)
	}
	return &p, nil
}
