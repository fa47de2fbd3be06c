// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package retarget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

func TestLambdaEMAAtTarget(t *testing.T) {
	p := policy.Testnet()
	// Inter-arrival of exactly 1/lambda_target seconds should produce
	// lambda_ema == lambda_target (up to fixed-point rounding).
	dt := uint64(fixedpoint.Div(fixedpoint.One, p.LambdaTarget)) / uint64(fixedpoint.Scale)
	if dt < p.DeltaMinArrival {
		dt = p.DeltaMinArrival
	}
	timestamps := []uint64{0, dt, 2 * dt, 3 * dt}

	ema, err := LambdaEMA(p, timestamps)
	require.NoError(t, err)
	require.Greater(t, ema, fixedpoint.Zero)
	require.InDelta(t, int64(p.LambdaTarget), int64(ema), 1)
}

func TestLambdaEMARejectsTooFewTimestamps(t *testing.T) {
	p := policy.Testnet()
	_, err := LambdaEMA(p, []uint64{5})
	require.Error(t, err)
}

func TestLambdaEMARejectsDecreasingTimestamps(t *testing.T) {
	p := policy.Testnet()
	_, err := LambdaEMA(p, []uint64{10, 5})
	require.Error(t, err)
}

func TestUpdateThetaClampsToDeltaBounds(t *testing.T) {
	p := policy.Testnet()
	// With kappa = 1, a 1000x rate deviation moves theta by ln(1000) ~ 6.9,
	// beyond delta_plus and delta_minus (2 each), so the clamp engages.
	p.Kappa = fixedpoint.One
	thetaPrev := 20 * fixedpoint.Scale

	// A lambda_ema far above target should push theta up, clamped to
	// theta_prev + delta_plus.
	next, err := UpdateTheta(p, thetaPrev, p.LambdaTarget*1000)
	require.NoError(t, err)
	require.LessOrEqual(t, next, thetaPrev+p.DeltaPlus)

	// Far below target should push theta down, clamped symmetrically.
	next, err = UpdateTheta(p, thetaPrev, p.LambdaTarget/1000)
	require.NoError(t, err)
	require.GreaterOrEqual(t, next, thetaPrev-p.DeltaMinus)
}

func TestUpdateThetaIsNoOpAtTarget(t *testing.T) {
	p := policy.Testnet()
	thetaPrev := fixedpoint.Fixed(20 * fixedpoint.Scale)
	next, err := UpdateTheta(p, thetaPrev, p.LambdaTarget)
	require.NoError(t, err)
	require.Equal(t, thetaPrev, next)
}

func TestUpdateAlphaPullsTowardTarget(t *testing.T) {
	p := policy.Testnet()
	alphaPrev := map[policy.ProofType]fixedpoint.Fixed{}
	for _, t := range policy.AllProofTypes {
		alphaPrev[t] = fixedpoint.One
	}

	// Hash under-contributed relative to its target: alpha_hash should
	// increase (or stay within bounds at worst).
	observed := map[policy.ProofType]fixedpoint.Fixed{
		policy.ProofTypeHash: 0,
		policy.ProofTypeAI:   fixedpoint.Scale / 4,
		policy.ProofTypeQPU:  fixedpoint.Scale / 4,
		policy.ProofTypeStor: fixedpoint.Scale / 4,
		policy.ProofTypeVDF:  fixedpoint.Scale / 4,
	}
	next := UpdateAlpha(p, alphaPrev, observed)
	require.GreaterOrEqual(t, next[policy.ProofTypeHash], alphaPrev[policy.ProofTypeHash])
	for _, t := range policy.AllProofTypes {
		require.GreaterOrEqual(t, next[t], p.AlphaBounds.Min)
		require.LessOrEqual(t, next[t], p.AlphaBounds.Max)
	}
}

func TestObservedFractionsSumToOne(t *testing.T) {
	psi := map[policy.ProofType]fixedpoint.Fixed{
		policy.ProofTypeHash: 2 * fixedpoint.Scale,
		policy.ProofTypeAI:   2 * fixedpoint.Scale,
	}
	fr := ObservedFractions(psi)
	var sum fixedpoint.Fixed
	for _, t := range policy.AllProofTypes {
		sum += fr[t]
	}
	require.InDelta(t, int64(fixedpoint.One), int64(sum), 2)
}

func TestObservedFractionsZeroWhenNoPsi(t *testing.T) {
	fr := ObservedFractions(map[policy.ProofType]fixedpoint.Fixed{})
	for _, t := range policy.AllProofTypes {
		require.Equal(t, fixedpoint.Zero, fr[t])
	}
}
