// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package predicate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
)

func TestComputeHuIsDeterministic(t *testing.T) {
	p := policy.Testnet()
	h := &header.Header{NonceDomainTag: p.NonceDomainTag, Nonce: []byte{1, 2, 3}}
	raw, err := h.Encode()
	require.NoError(t, err)

	a, err := ComputeHu(p.ChainID, raw)
	require.NoError(t, err)
	b, err := ComputeHu(p.ChainID, raw)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestComputeHuVariesWithNonce(t *testing.T) {
	p := policy.Testnet()
	h1 := &header.Header{NonceDomainTag: p.NonceDomainTag, Nonce: []byte{1}}
	h2 := &header.Header{NonceDomainTag: p.NonceDomainTag, Nonce: []byte{2}}
	raw1, err := h1.Encode()
	require.NoError(t, err)
	raw2, err := h2.Encode()
	require.NoError(t, err)

	a, err := ComputeHu(p.ChainID, raw1)
	require.NoError(t, err)
	b, err := ComputeHu(p.ChainID, raw2)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestComputeHuIsPositiveAndBounded(t *testing.T) {
	p := policy.Testnet()
	h := &header.Header{NonceDomainTag: p.NonceDomainTag, Nonce: []byte{0xab, 0xcd}}
	raw, err := h.Encode()
	require.NoError(t, err)

	hu, err := ComputeHu(p.ChainID, raw)
	require.NoError(t, err)
	require.Greater(t, hu, fixedpoint.Zero)
	// H(u) = -ln(u), u in (0,1], so H(u) is bounded by 256*ln2 (~177.4
	// in whole nats once divided by Scale) at the extreme.
	require.LessOrEqual(t, hu, fixedpoint.Fixed(256)*fixedpoint.Ln2)
}

func TestDecideBlockAccepted(t *testing.T) {
	theta := 20 * fixedpoint.Scale
	d := Decide(fixedpoint.Fixed(theta), fixedpoint.Scale*4/5, 15*fixedpoint.Scale, 6*fixedpoint.Scale)
	require.Equal(t, KindBlockAccepted, d.Kind)
	require.Equal(t, 21*fixedpoint.Scale, d.S)
}

func TestDecideShareReceipt(t *testing.T) {
	theta := fixedpoint.Fixed(20 * fixedpoint.Scale)
	ratio := fixedpoint.Scale * 4 / 5 // 0.8
	d := Decide(theta, ratio, 10*fixedpoint.Scale, 6*fixedpoint.Scale)
	require.Equal(t, KindShareReceipt, d.Kind)
}

func TestDecideRejectedBelowThreshold(t *testing.T) {
	theta := fixedpoint.Fixed(20 * fixedpoint.Scale)
	ratio := fixedpoint.Scale * 4 / 5
	d := Decide(theta, ratio, 1*fixedpoint.Scale, 1*fixedpoint.Scale)
	require.Equal(t, KindRejected, d.Kind)
	require.ErrorIs(t, d.Reason, ErrBelowThreshold)
}

func TestValidateGateAcceptsWellFormedChild(t *testing.T) {
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)

	parent := &header.Header{
		Height:         10,
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      1000,
		PolicyRoot:     root,
	}
	parentHash, err := parent.Hash()
	require.NoError(t, err)

	child := &header.Header{
		ParentHash:     parentHash,
		Height:         11,
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      1010,
		PolicyRoot:     root,
	}

	require.NoError(t, ValidateGate(p, root, child, parent, 1020))
}

func TestValidateGateRejectsWrongPolicyRoot(t *testing.T) {
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)

	h := &header.Header{NonceDomainTag: p.NonceDomainTag, PolicyRoot: policy.Root{0xff}}
	err = ValidateGate(p, root, h, nil, 0)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestValidateGateRejectsHeightMismatch(t *testing.T) {
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)

	parent := &header.Header{Height: 10, NonceDomainTag: p.NonceDomainTag, PolicyRoot: root}
	parentHash, err := parent.Hash()
	require.NoError(t, err)

	child := &header.Header{ParentHash: parentHash, Height: 50, NonceDomainTag: p.NonceDomainTag, PolicyRoot: root}
	err = ValidateGate(p, root, child, parent, 0)
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestValidateGateRejectsFutureTimestamp(t *testing.T) {
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)

	h := &header.Header{NonceDomainTag: p.NonceDomainTag, PolicyRoot: root, Timestamp: 100000}
	err = ValidateGate(p, root, h, nil, 10)
	require.ErrorIs(t, err, ErrMalformedHeader)
}
