// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package retarget implements the Retargeter and AlphaTuner
// components: the once-per-epoch updates to Theta (the acceptance
// threshold) and each proof type's fairness multiplier alpha. Both
// are pure functions of the finalized epoch's observations and the
// previous value, so every node recomputes identical results. See
// spec.md §4.6.
package retarget

import (
	"fmt"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// LambdaEMA computes the epoch's inter-arrival-rate EMA from a
// sequence of block timestamps (length epoch_len+1: one more than the
// number of inter-arrival gaps it covers), clamping each gap to
// [delta_min_arrival, delta_max_arrival] before inverting it into a
// rate. "EMA ... across the epoch" is read literally here as the
// epoch-local mean of clamped instantaneous rates; no additional
// cross-epoch smoothing constant is specified by the policy, so none
// is invented.
func LambdaEMA(p *policy.Policy, timestamps []uint64) (fixedpoint.Fixed, error) {
	if len(timestamps) < 2 {
		return 0, fmt.Errorf("retarget: need at least 2 timestamps to form an inter-arrival gap, got %d", len(timestamps))
	}

	var sum fixedpoint.Fixed
	n := int64(len(timestamps) - 1)
	for i := 1; i < len(timestamps); i++ {
		if timestamps[i] < timestamps[i-1] {
			return 0, fmt.Errorf("retarget: timestamps must be non-decreasing")
		}
		dt := timestamps[i] - timestamps[i-1]
		if dt < p.DeltaMinArrival {
			dt = p.DeltaMinArrival
		}
		if dt > p.DeltaMaxArrival {
			dt = p.DeltaMaxArrival
		}
		rate := fixedpoint.Div(fixedpoint.One, fixedpoint.FromInt(int64(dt)))
		sum += rate
	}
	return fixedpoint.Fixed(int64(sum) / n), nil
}

// UpdateTheta applies the log-space retarget rule: theta_{t+1} =
// clamp(theta_t + kappa*(ln(lambda_ema) - ln(lambda_target)),
// theta_t - delta_minus, theta_t + delta_plus).
func UpdateTheta(p *policy.Policy, thetaPrev, lambdaEMA fixedpoint.Fixed) (fixedpoint.Fixed, error) {
	lnLambda, err := fixedpoint.Ln(lambdaEMA)
	if err != nil {
		return 0, fmt.Errorf("retarget: ln(lambda_ema): %w", err)
	}
	lnTarget, err := fixedpoint.Ln(p.LambdaTarget)
	if err != nil {
		return 0, fmt.Errorf("retarget: ln(lambda_target): %w", err)
	}
	delta := fixedpoint.Mul(p.Kappa, lnLambda-lnTarget)
	raw := thetaPrev + delta
	lo := thetaPrev - p.DeltaMinus
	hi := thetaPrev + p.DeltaPlus
	return fixedpoint.Clamp(raw, lo, hi), nil
}
