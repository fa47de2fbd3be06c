// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "golang.org/x/crypto/sha3"

// Fixed ASCII domain tags. None contains a NUL byte; H appends one
// explicitly as the tag/body separator.
const (
	TagHeader      = "ANM-HEADER-V1"
	TagTxSign      = "ANM-TX-SIGN-V1"
	TagReceipt     = "ANM-RECEIPT-V1"
	TagNonce       = "ANM-NONCE-V1"
	TagMerkleEmpty = "ANM-MERKLE-EMPTY"
)

// H computes the domain-tagged hash H(tag, body) = SHA3-256(tag ||
// 0x00 || body). tag must be ASCII and must not itself contain a NUL
// byte; callers pass one of the Tag* constants above.
func H(tag string, body []byte) [32]byte {
	buf := make([]byte, 0, len(tag)+1+len(body))
	buf = append(buf, tag...)
	buf = append(buf, 0x00)
	buf = append(buf, body...)
	return sha3.Sum256(buf)
}

// merklePrefix distinguishes an internal Merkle node hash from any
// domain-tagged leaf hash, so the two hash spaces can never collide.
const merklePrefix = 0x01

// CombineMerkle computes the Merkle internal-node combiner H(a,b) =
// SHA3-256(0x01 || a || b).
func CombineMerkle(a, b [32]byte) [32]byte {
	buf := make([]byte, 0, 1+32+32)
	buf = append(buf, merklePrefix)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return sha3.Sum256(buf)
}

// EmptyMerkleRoot is the canonical root of an empty Merkle tree.
func EmptyMerkleRoot() [32]byte {
	return H(TagMerkleEmpty, nil)
}

// MerkleRoot computes the root of leaves using CombineMerkle,
// duplicating the last hash whenever the current level has an odd
// count, per spec.md §4.1. Returns EmptyMerkleRoot for zero leaves.
func MerkleRoot(leaves [][32]byte) [32]byte {
	if len(leaves) == 0 {
		return EmptyMerkleRoot()
	}
	level := make([][32]byte, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, len(level)/2)
		for i := range next {
			next[i] = CombineMerkle(level[2*i], level[2*i+1])
		}
		level = next
	}
	return level[0]
}

// NullifierTag returns the domain tag for a proof type's nullifier
// derivation, per spec.md §4.2: "ANM-NULLIFIER-<T>-V1".
func NullifierTag(typeTag string) string {
	return "ANM-NULLIFIER-" + typeTag + "-V1"
}
