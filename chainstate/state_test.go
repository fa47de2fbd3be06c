// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package chainstate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/nullifier"
	"github.com/animicaorg/consensus/policy"
)

func testPolicy() *policy.Policy {
	p := policy.Testnet()
	p.EpochLen = 2
	return p
}

func childHeader(p *policy.Policy, parent *header.Header, parentHash header.Hash, theta fixedpoint.Fixed, ts uint64, tag byte) *header.Header {
	return &header.Header{
		ParentHash:     parentHash,
		Height:         parent.Height + 1,
		MixSeed:        header.Hash{tag},
		Theta:          uint64(theta),
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      ts,
		Nonce:          []byte{tag},
	}
}

func genesisHeader(p *policy.Policy) *header.Header {
	return &header.Header{
		ParentHash:     header.Hash{},
		Height:         0,
		MixSeed:        header.Hash{0xAA},
		Theta:          uint64(p.ThetaTarget),
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      1_700_000_000,
	}
}

func TestNewSeedsGenesisAsTip(t *testing.T) {
	p := testPolicy()
	g := genesisHeader(p)
	s, err := New(p, g, p.ThetaTarget)
	require.NoError(t, err)

	gh, err := g.Hash()
	require.NoError(t, err)
	tip, hdr, weight := s.Tip()
	require.Equal(t, gh, tip)
	require.Equal(t, g, hdr)
	require.Equal(t, p.ThetaTarget, weight)
	require.Equal(t, fixedpoint.Fixed(g.Theta), s.Theta())
}

func TestRecordAcceptedExtendsTipAndIndexesNullifiers(t *testing.T) {
	p := testPolicy()
	g := genesisHeader(p)
	s, err := New(p, g, p.ThetaTarget)
	require.NoError(t, err)
	gh, _ := g.Hash()

	child := childHeader(p, g, gh, p.ThetaTarget, g.Timestamp+15, 1)
	var n [32]byte
	n[0] = 0x01

	tc, err := s.RecordAccepted(child, [][32]byte{n}, nil, p.ThetaTarget)
	require.NoError(t, err)
	require.NotNil(t, tc)

	childHash, _ := child.Hash()
	tip, _, _ := s.Tip()
	require.Equal(t, childHash, tip)

	require.ErrorIs(t, s.CheckNullifiers([][32]byte{n}), nullifier.ErrNullifierReuse)
}

func TestRecordAcceptedRejectsUnknownParent(t *testing.T) {
	p := testPolicy()
	g := genesisHeader(p)
	s, err := New(p, g, p.ThetaTarget)
	require.NoError(t, err)

	orphan := childHeader(p, g, header.Hash{0xFF}, p.ThetaTarget, g.Timestamp+15, 1)
	_, err = s.RecordAccepted(orphan, nil, nil, p.ThetaTarget)
	require.Error(t, err)
}

func TestEpochRolloverUpdatesThetaAndAlpha(t *testing.T) {
	p := testPolicy() // EpochLen = 2
	g := genesisHeader(p)
	s, err := New(p, g, p.ThetaTarget)
	require.NoError(t, err)

	thetaBefore := s.Theta()

	cur, curHash := g, func() header.Hash { h, _ := g.Hash(); return h }()
	ts := g.Timestamp
	// Arrivals far faster than lambda_target should pull theta upward
	// once the epoch boundary (epoch_len=2 accepted blocks) is crossed.
	for i := byte(1); i <= 3; i++ {
		ts += 1 // one second per block: at the DeltaMinArrival floor of 1, far faster than the 15s target
		child := childHeader(p, cur, curHash, thetaBefore, ts, i)
		psi := map[policy.ProofType]fixedpoint.Fixed{policy.ProofTypeHash: fixedpoint.One}
		_, err := s.RecordAccepted(child, nil, psi, thetaBefore)
		require.NoError(t, err)
		cur = child
		curHash, _ = child.Hash()
	}

	require.NotEqual(t, thetaBefore, s.Theta())
}
