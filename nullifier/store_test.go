// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package nullifier

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertThenCheckNewRejectsReuse(t *testing.T) {
	s := NewStore(10)
	n := [32]byte{1}
	s.Insert(5, [][32]byte{n})

	require.True(t, s.Contains(n))
	require.ErrorIs(t, s.CheckNew([][32]byte{n}), ErrNullifierReuse)
}

func TestWindowEvictsOldBuckets(t *testing.T) {
	s := NewStore(3)
	a := [32]byte{1}
	b := [32]byte{2}

	s.Insert(1, [][32]byte{a})
	require.True(t, s.Contains(a))

	s.Insert(10, [][32]byte{b}) // tip-window = 7, height 1 <= 7 evicted
	require.False(t, s.Contains(a))
	require.True(t, s.Contains(b))
}

func TestRemoveUnwindsReorgedBlock(t *testing.T) {
	s := NewStore(100)
	n := [32]byte{7}
	s.Insert(5, [][32]byte{n})
	require.True(t, s.Contains(n))

	s.Remove(5)
	require.False(t, s.Contains(n))
	require.NoError(t, s.CheckNew([][32]byte{n}))
}

func TestActiveNullifiersAndLen(t *testing.T) {
	s := NewStore(100)
	s.Insert(1, [][32]byte{{1}, {2}})
	s.Insert(2, [][32]byte{{3}})

	require.Equal(t, 3, s.Len())
	require.ElementsMatch(t, [][32]byte{{1}, {2}, {3}}, s.ActiveNullifiers())
}
