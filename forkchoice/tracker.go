// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package forkchoice implements the ForkChoice component: canonical
// tip selection by cumulative accepted weight, with a bounded-depth
// reorg guard. Adapted from the teacher's dag.DAG (blocks map + tips
// set shape in dag/dag.go), narrowed to a single-parent chain — PoIES
// orders by cumulative weight along one canonical path, not a DAG
// frontier — and extended with cumulative-weight bookkeeping and the
// tie-break/reorg-depth rules spec.md §4.7 adds on top.
package forkchoice

import (
	"bytes"
	"sync"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
)

// Entry is one indexed block: its own accepted weight and the
// cumulative weight of the chain ending at it.
type Entry struct {
	Hash             header.Hash
	ParentHash       header.Hash
	Height           uint64
	Weight           fixedpoint.Fixed
	CumulativeWeight fixedpoint.Fixed
}

// TipChanged describes a tip transition: the old and new canonical
// tip, and the heights that left/entered the active chain, which the
// caller (consensuscore) uses to drive NullifierStore.Remove/Insert.
type TipChanged struct {
	OldTip         header.Hash
	NewTip         header.Hash
	RemovedHeights []uint64
	AddedHeights   []uint64
}

// Tracker holds every indexed block and the current canonical tip.
type Tracker struct {
	mu            sync.RWMutex
	blocks        map[header.Hash]*Entry
	tip           header.Hash
	maxReorgDepth uint64
}

// NewTracker constructs an empty tracker.
func NewTracker(maxReorgDepth uint64) *Tracker {
	return &Tracker{
		blocks:        make(map[header.Hash]*Entry),
		maxReorgDepth: maxReorgDepth,
	}
}

// AddGenesis seeds the tracker with the genesis block as the initial
// tip. Calling it twice, or on a non-empty tracker, is a caller bug.
func (t *Tracker) AddGenesis(hash header.Hash, weight fixedpoint.Fixed) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks[hash] = &Entry{Hash: hash, Height: 0, Weight: weight, CumulativeWeight: weight}
	t.tip = hash
}

// Tip returns the current canonical tip hash.
func (t *Tracker) Tip() header.Hash {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tip
}

// Get returns the indexed entry for hash, if any.
func (t *Tracker) Get(hash header.Hash) (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.blocks[hash]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Insert indexes a new block under parentHash with its own accepted
// weight, and re-evaluates the canonical tip. It returns a non-nil
// TipChanged only when the tip actually moves.
func (t *Tracker) Insert(hash, parentHash header.Hash, height uint64, weight fixedpoint.Fixed) (*TipChanged, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, ok := t.blocks[parentHash]
	if !ok {
		return nil, ErrUnknownParent
	}

	entry := &Entry{
		Hash:             hash,
		ParentHash:       parentHash,
		Height:           height,
		Weight:           weight,
		CumulativeWeight: parent.CumulativeWeight + weight,
	}
	t.blocks[hash] = entry

	currentTip := t.blocks[t.tip]
	if !preferred(entry, currentTip) {
		return nil, nil
	}

	removed, added, reorgDepth := t.chainDiff(t.tip, hash)
	if reorgDepth > t.maxReorgDepth {
		delete(t.blocks, hash)
		return nil, ErrReorgTooDeep
	}

	old := t.tip
	t.tip = hash
	return &TipChanged{OldTip: old, NewTip: hash, RemovedHeights: removed, AddedHeights: added}, nil
}

// preferred reports whether candidate should replace current as tip:
// strictly higher cumulative weight, or on a tie, lower hash
// (lexicographic), or on a further tie, greater height.
func preferred(candidate, current *Entry) bool {
	if current == nil {
		return true
	}
	if candidate.CumulativeWeight != current.CumulativeWeight {
		return candidate.CumulativeWeight > current.CumulativeWeight
	}
	cmp := bytes.Compare(candidate.Hash[:], current.Hash[:])
	if cmp != 0 {
		return cmp < 0
	}
	return candidate.Height > current.Height
}

// chainDiff walks back from oldTip and newTip to their common
// ancestor, returning the heights unique to each side and the depth
// of the reorg (oldTip's distance back to the ancestor).
func (t *Tracker) chainDiff(oldTip, newTip header.Hash) (removed, added []uint64, depth uint64) {
	oldChain := t.ancestors(oldTip)
	newChain := t.ancestors(newTip)

	inNew := make(map[header.Hash]bool, len(newChain))
	for _, h := range newChain {
		inNew[h] = true
	}

	var ancestor header.Hash
	for _, h := range oldChain {
		if inNew[h] {
			ancestor = h
			break
		}
	}

	for _, h := range oldChain {
		if h == ancestor {
			break
		}
		removed = append(removed, t.blocks[h].Height)
		depth++
	}
	for _, h := range newChain {
		if h == ancestor {
			break
		}
		added = append(added, t.blocks[h].Height)
	}
	return removed, added, depth
}

// ancestors walks parent pointers from hash back to genesis, nearest
// first.
func (t *Tracker) ancestors(hash header.Hash) []header.Hash {
	var chain []header.Hash
	cur := hash
	for {
		e, ok := t.blocks[cur]
		if !ok {
			break
		}
		chain = append(chain, cur)
		if e.Height == 0 {
			break
		}
		cur = e.ParentHash
	}
	return chain
}
