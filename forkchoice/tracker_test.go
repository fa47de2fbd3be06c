// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package forkchoice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
)

func h(b byte) header.Hash {
	var out header.Hash
	out[0] = b
	return out
}

func TestInsertExtendsTipOnHeavierChain(t *testing.T) {
	tr := NewTracker(100)
	genesis := h(0)
	tr.AddGenesis(genesis, fixedpoint.One)

	a := h(1)
	tc, err := tr.Insert(a, genesis, 1, fixedpoint.One)
	require.NoError(t, err)
	require.NotNil(t, tc)
	require.Equal(t, genesis, tc.OldTip)
	require.Equal(t, a, tc.NewTip)
	require.Equal(t, a, tr.Tip())

	cw, ok := tr.Get(a)
	require.True(t, ok)
	require.Equal(t, 2*fixedpoint.Scale, cw.CumulativeWeight)
}

func TestInsertDoesNotMoveTipOnLighterChain(t *testing.T) {
	tr := NewTracker(100)
	genesis := h(0)
	tr.AddGenesis(genesis, fixedpoint.One)

	a := h(1)
	_, err := tr.Insert(a, genesis, 1, 2*fixedpoint.Scale)
	require.NoError(t, err)
	require.Equal(t, a, tr.Tip())

	b := h(2)
	tc, err := tr.Insert(b, genesis, 1, fixedpoint.One)
	require.NoError(t, err)
	require.Nil(t, tc)
	require.Equal(t, a, tr.Tip())
}

func TestInsertRejectsUnknownParent(t *testing.T) {
	tr := NewTracker(100)
	tr.AddGenesis(h(0), fixedpoint.One)

	_, err := tr.Insert(h(9), h(8), 1, fixedpoint.One)
	require.ErrorIs(t, err, ErrUnknownParent)
}

func TestInsertTieBreaksOnLowerHash(t *testing.T) {
	tr := NewTracker(100)
	genesis := h(0)
	tr.AddGenesis(genesis, fixedpoint.One)

	high := header.Hash{0xFF}
	low := header.Hash{0x01}

	_, err := tr.Insert(high, genesis, 1, fixedpoint.One)
	require.NoError(t, err)
	require.Equal(t, high, tr.Tip())

	tc, err := tr.Insert(low, genesis, 1, fixedpoint.One)
	require.NoError(t, err)
	require.NotNil(t, tc)
	require.Equal(t, low, tr.Tip())
}

func TestInsertReorgsAcrossCommonAncestor(t *testing.T) {
	tr := NewTracker(100)
	genesis := h(0)
	tr.AddGenesis(genesis, fixedpoint.One)

	a1 := h(1)
	_, err := tr.Insert(a1, genesis, 1, fixedpoint.One)
	require.NoError(t, err)
	a2 := h(2)
	_, err = tr.Insert(a2, a1, 2, fixedpoint.One)
	require.NoError(t, err)
	require.Equal(t, a2, tr.Tip())

	// A heavier single block off genesis should trigger a 2-block reorg.
	b1 := h(3)
	tc, err := tr.Insert(b1, genesis, 1, 5*fixedpoint.Scale)
	require.NoError(t, err)
	require.NotNil(t, tc)
	require.Equal(t, b1, tr.Tip())
	require.ElementsMatch(t, []uint64{1, 2}, tc.RemovedHeights)
	require.ElementsMatch(t, []uint64{1}, tc.AddedHeights)
}

func TestInsertRejectsReorgDeeperThanBound(t *testing.T) {
	tr := NewTracker(1)
	genesis := h(0)
	tr.AddGenesis(genesis, fixedpoint.One)

	cur := genesis
	for i := byte(1); i <= 3; i++ {
		next := h(i)
		_, err := tr.Insert(next, cur, uint64(i), fixedpoint.One)
		require.NoError(t, err)
		cur = next
	}
	require.Equal(t, cur, tr.Tip())

	// A heavier chain rooted at genesis would require unwinding 3
	// blocks, exceeding maxReorgDepth of 1.
	rival := h(200)
	_, err := tr.Insert(rival, genesis, 1, 100*fixedpoint.Scale)
	require.ErrorIs(t, err, ErrReorgTooDeep)
	require.Equal(t, cur, tr.Tip())
}

func TestCumulativeWeightAccumulatesAlongChain(t *testing.T) {
	tr := NewTracker(100)
	genesis := h(0)
	tr.AddGenesis(genesis, 3*fixedpoint.Scale)

	a := h(1)
	_, err := tr.Insert(a, genesis, 1, 4*fixedpoint.Scale)
	require.NoError(t, err)

	e, ok := tr.Get(a)
	require.True(t, ok)
	require.Equal(t, 7*fixedpoint.Scale, e.CumulativeWeight)
}
