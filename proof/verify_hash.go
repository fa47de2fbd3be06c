// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"
	"math/big"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// HashShareBody is the CBOR body of a HashShare proof: the only
// submitter-chosen input is ExtraNonce, every other quantity the
// verifier needs is recomputed from the header context and policy.
type HashShareBody struct {
	ExtraNonce []byte `cbor:"1,keyasint" json:"extraNonce"`
}

const maxExtraNonceLen = 32

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// VerifyHashShare checks a HashShare envelope against ctx and p,
// returning the achieved d_ratio on success. d_ratio = achieved_work /
// share_target_work, where achieved_work = 2^256/(digest+1) and
// share_target_work = HashWorkUnit * HashShareMinRatio. A d_ratio of
// exactly 1.0 (Scale) is the minimum accepted share; ln_fp(1.0) = 0
// contributes no score, consistent with spec.md §4.5's psi_raw shape.
func VerifyHashShare(p *policy.Policy, ctx HeaderContext, body []byte) (HashMetrics, [32]byte, error) {
	var b HashShareBody
	if _, err := codec.Unmarshal(body, &b); err != nil {
		return HashMetrics{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if len(b.ExtraNonce) == 0 || len(b.ExtraNonce) > maxExtraNonceLen {
		return HashMetrics{}, [32]byte{}, fmt.Errorf("%w: extraNonce length %d out of range", ErrMalformedBody, len(b.ExtraNonce))
	}

	digest := recomputeHashShareDigest(ctx, b.ExtraNonce)
	D := new(big.Int).SetBytes(digest[:])

	achievedWork := new(big.Int).Div(two256, new(big.Int).Add(D, big.NewInt(1)))

	unit := new(big.Int).SetBytes(p.HashWorkUnit[:])
	if unit.Sign() == 0 {
		unit = big.NewInt(1)
	}
	minRatio := big.NewInt(int64(p.HashShareMinRatio))
	shareTargetWork := new(big.Int).Mul(unit, minRatio)
	shareTargetWork.Div(shareTargetWork, big.NewInt(int64(fixedpoint.Scale)))
	if shareTargetWork.Sign() == 0 {
		shareTargetWork = big.NewInt(1)
	}

	if achievedWork.Cmp(shareTargetWork) < 0 {
		return HashMetrics{}, [32]byte{}, ErrBelowShareTarget
	}

	ratio := new(big.Int).Mul(achievedWork, big.NewInt(int64(fixedpoint.Scale)))
	ratio.Div(ratio, shareTargetWork)
	dRatio, err := bigToFixed(ratio)
	if err != nil {
		return HashMetrics{}, [32]byte{}, err
	}

	nullifier := DeriveNullifier(policy.ProofTypeHash, b.ExtraNonce, headerBinding(ctx))
	return HashMetrics{DRatio: dRatio}, nullifier, nil
}

func recomputeHashShareDigest(ctx HeaderContext, extraNonce []byte) [32]byte {
	body := make([]byte, 0, 32+32+8+32+len(ctx.NonceDomainTag)+len(extraNonce))
	body = append(body, ctx.ParentHash[:]...)
	body = append(body, ctx.MixSeed[:]...)
	body = appendUint64(body, ctx.Height)
	body = append(body, ctx.PolicyRoot[:]...)
	body = append(body, []byte(ctx.NonceDomainTag)...)
	body = append(body, extraNonce...)
	return codec.H("ANM-HASHSHARE-V1", body)
}

func appendUint64(dst []byte, v uint64) []byte {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return append(dst, buf[:]...)
}

// bigToFixed converts a non-negative big.Int (already scaled by
// fixedpoint.Scale) into a Fixed, erroring instead of silently
// truncating if it doesn't fit an int64.
func bigToFixed(v *big.Int) (fixedpoint.Fixed, error) {
	if !v.IsInt64() {
		return 0, fmt.Errorf("proof: d_ratio overflows int64; policy caps must bound this below the scoring range")
	}
	return fixedpoint.Fixed(v.Int64()), nil
}
