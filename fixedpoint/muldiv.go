// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import "math/big"

// mulDivRound computes round(a*b/d) using exact arbitrary-precision
// arithmetic, with ties-to-even rounding, and returns the result as an
// int64. Every consensus quantity is policy-bounded far below the
// range where the final result could overflow int64; this function
// only avoids overflow in the *intermediate* product a*b, which for
// two in-range Fixed values can comfortably exceed 64 bits.
func mulDivRound(a, b, d int64) int64 {
	num := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	den := big.NewInt(d)

	// Work with a non-negative denominator; fold its sign into num.
	if den.Sign() < 0 {
		den.Neg(den)
		num.Neg(num)
	}

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() == 0 {
		return mustInt64(q)
	}

	twiceR := new(big.Int).Lsh(new(big.Int).Abs(r), 1)
	cmp := twiceR.Cmp(den)

	roundAway := cmp > 0
	if cmp == 0 {
		// Ties-to-even: round away from zero only if q is odd.
		roundAway = q.Bit(0) == 1
	}
	if roundAway {
		if num.Sign() < 0 {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return mustInt64(q)
}

func mustInt64(v *big.Int) int64 {
	if !v.IsInt64() {
		panic("fixedpoint: result overflows int64; policy caps must bound all consensus quantities below this range")
	}
	return v.Int64()
}
