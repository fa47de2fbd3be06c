// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package predicate implements the AcceptancePredicate component: the
// u-draw, score S = H(u) + Psi, and the accept/share/reject decision.
// See spec.md §4.4.
package predicate

import (
	"fmt"
	"math/big"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// headerBits is the digest width in bits: SHA3-256 produces a 256-bit
// unsigned integer N, and u = (N+1)/2^256.
const headerBits = 256

// ComputeHu derives H(u) = -ln(u) for a header view. u can be as small
// as ~2^-256 (an extremely lucky hash), far below what a Fixed's int64
// range could represent directly (Scale=1e6 gives only ~6 decimal
// digits of precision around 1.0) — so H(u) is computed directly from
// the 256-bit digest via math/big, never by materializing u itself as
// a Fixed. headerViewCBOR must be the canonical encoding of the header
// including its nonce field, per spec.md §4.4.
func ComputeHu(chainID policy.ChainID, headerViewCBOR []byte) (fixedpoint.Fixed, error) {
	body := make([]byte, 0, 4+len(headerViewCBOR))
	body = append(body, byte(chainID>>24), byte(chainID>>16), byte(chainID>>8), byte(chainID))
	body = append(body, headerViewCBOR...)
	digest := codec.H(codec.TagNonce, body)

	n := new(big.Int).SetBytes(digest[:])
	x := n.Add(n, big.NewInt(1)) // x = N+1, in [1, 2^256]

	lnX, err := bigLn(x)
	if err != nil {
		return 0, fmt.Errorf("predicate: u-draw: %w", err)
	}
	total := fixedpoint.Fixed(headerBits) * fixedpoint.Ln2
	return total - lnX, nil
}

// bigLn computes ln(x) for an arbitrarily large positive integer x.
// It first multiplies x by Scale, so the value handed to the table is
// the Fixed representation of x itself (fixedpoint.Ln(v) is
// ln(v/Scale)), then normalizes it into the same [Scale, 2*Scale)
// octave fixedpoint.Ln uses, via big.Int shifts, and delegates the
// table lookup to fixedpoint.Ln on the now-int64-sized mantissa. This
// mirrors fixedpoint.Ln's own range-reduction loop, just operating on
// a big.Int input instead of an int64 one.
func bigLn(x *big.Int) (fixedpoint.Fixed, error) {
	if x.Sign() <= 0 {
		return 0, fmt.Errorf("bigLn domain error: x must be > 0")
	}

	m := new(big.Int).Mul(x, big.NewInt(int64(fixedpoint.Scale)))
	upper := big.NewInt(2 * int64(fixedpoint.Scale))
	lower := big.NewInt(int64(fixedpoint.Scale))
	k := int64(0)
	for m.Cmp(upper) >= 0 {
		m.Rsh(m, 1)
		k++
	}
	for m.Cmp(lower) < 0 {
		m.Lsh(m, 1)
		k--
	}

	mantissaLn, err := fixedpoint.Ln(fixedpoint.Fixed(m.Int64()))
	if err != nil {
		return 0, err
	}
	return fixedpoint.Fixed(k)*fixedpoint.Ln2 + mantissaLn, nil
}
