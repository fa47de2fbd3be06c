// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package nullifier implements the NullifierStore component: one-shot
// enforcement of proof reuse across a bounded window, with reorg
// support. Adapted from the teacher's utils/set.Set[T] generic-set
// idiom (golang.org/x/exp/maps for bulk key access), fused with a
// height-bucketed reverse index rather than a flat set, since entries
// must be evictable by height and removable per-block on reorg.
package nullifier

import (
	"errors"
	"sync"

	"golang.org/x/exp/maps"
)

// ErrNullifierReuse is returned when a proof's nullifier is already
// present in the active window.
var ErrNullifierReuse = errors.New("nullifier: already used within the active window")

// Store tracks, per accepted block height, the set of nullifiers it
// consumed, plus a reverse index for O(1) membership checks. It is
// exclusive to one core instance; callers sharing it across threads
// must provide their own lock (spec.md §4.5's ownership note) — the
// internal mutex here only protects this store's own bookkeeping
// against concurrent ValidateHeader/SubmitBlock calls within the core.
type Store struct {
	mu       sync.Mutex
	window   uint64
	byHeight map[uint64]map[[32]byte]struct{}
	heightOf map[[32]byte]uint64
}

// NewStore constructs an empty store with the given retention window
// (in blocks).
func NewStore(window uint64) *Store {
	return &Store{
		window:   window,
		byHeight: make(map[uint64]map[[32]byte]struct{}),
		heightOf: make(map[[32]byte]uint64),
	}
}

// Contains reports whether n is currently active (within the window
// and not reorged out).
func (s *Store) Contains(n [32]byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.heightOf[n]
	return ok
}

// CheckNew verifies that none of nullifiers are already active,
// returning ErrNullifierReuse on the first collision.
func (s *Store) CheckNew(nullifiers [][32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nullifiers {
		if _, ok := s.heightOf[n]; ok {
			return ErrNullifierReuse
		}
	}
	return nil
}

// Insert records nullifiers as consumed at height, then purges any
// bucket older than height-window.
func (s *Store) Insert(height uint64, nullifiers [][32]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.byHeight[height]
	if !ok {
		bucket = make(map[[32]byte]struct{}, len(nullifiers))
		s.byHeight[height] = bucket
	}
	for _, n := range nullifiers {
		bucket[n] = struct{}{}
		s.heightOf[n] = height
	}
	s.purgeLocked(height)
}

// Remove drops every nullifier that was recorded at height, for
// ForkChoice reorgs unwinding an abandoned block.
func (s *Store) Remove(height uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.byHeight[height]
	if !ok {
		return
	}
	for n := range bucket {
		delete(s.heightOf, n)
	}
	delete(s.byHeight, height)
}

// purgeLocked evicts buckets with height <= tip-window. Must be
// called with s.mu held.
func (s *Store) purgeLocked(tip uint64) {
	if tip <= s.window {
		return
	}
	floor := tip - s.window
	for h, bucket := range s.byHeight {
		if h <= floor {
			for n := range bucket {
				delete(s.heightOf, n)
			}
			delete(s.byHeight, h)
		}
	}
}

// ActiveNullifiers returns every currently active nullifier, in no
// particular order.
func (s *Store) ActiveNullifiers() [][32]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Keys(s.heightOf)
}

// Len reports how many nullifiers are currently active.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heightOf)
}
