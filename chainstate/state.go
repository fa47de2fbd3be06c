// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package chainstate holds the bounded, owned, in-memory state a
// consensuscore.Core instance maintains across submit_block calls:
// the block index, the canonical tip, the active nullifier window,
// and the retarget/alpha tuner's running state. See spec.md §3.
package chainstate

import (
	"fmt"
	"sync"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/forkchoice"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/nullifier"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/retarget"
)

// State is the full mutable state of one consensus core instance.
// Every accepted-block transition goes through RecordAccepted so the
// block index, fork choice, nullifier window, and epoch tuners stay
// consistent with each other.
type State struct {
	mu sync.RWMutex

	p *policy.Policy

	headers map[header.Hash]*header.Header
	tracker *forkchoice.Tracker
	nulls   *nullifier.Store

	thetaCurrent fixedpoint.Fixed
	alpha        map[policy.ProofType]fixedpoint.Fixed

	epochTimestamps []uint64
	epochPsiByType  map[policy.ProofType]fixedpoint.Fixed
}

// New constructs chain state seeded with a genesis header. genesisWeight
// is the accepted score S the genesis header itself contributes to
// cumulative weight (typically its committed Theta, since genesis has
// no Psi).
func New(p *policy.Policy, genesis *header.Header, genesisWeight fixedpoint.Fixed) (*State, error) {
	gh, err := genesis.Hash()
	if err != nil {
		return nil, fmt.Errorf("chainstate: genesis hash: %w", err)
	}

	tracker := forkchoice.NewTracker(p.MaxReorgDepth)
	tracker.AddGenesis(gh, genesisWeight)

	alpha := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	for _, t := range policy.AllProofTypes {
		a := p.AlphaInitial[t]
		if a == 0 {
			a = fixedpoint.One
		}
		alpha[t] = a
	}

	return &State{
		p:               p,
		headers:         map[header.Hash]*header.Header{gh: genesis},
		tracker:         tracker,
		nulls:           nullifier.NewStore(p.NullifierWindow),
		thetaCurrent:    fixedpoint.Fixed(genesis.Theta),
		alpha:           alpha,
		epochTimestamps: []uint64{genesis.Timestamp},
		epochPsiByType:  make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes)),
	}, nil
}

// HeaderByHash looks up a previously recorded header (genesis or any
// accepted block, canonical or not), for parent-linkage checks.
func (s *State) HeaderByHash(h header.Hash) (*header.Header, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hh, ok := s.headers[h]
	return hh, ok
}

// Tip returns the canonical tip's hash, header, and cumulative weight.
func (s *State) Tip() (header.Hash, *header.Header, fixedpoint.Fixed) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tip := s.tracker.Tip()
	e, _ := s.tracker.Get(tip)
	return tip, s.headers[tip], e.CumulativeWeight
}

// Theta returns the currently active acceptance threshold.
func (s *State) Theta() fixedpoint.Fixed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thetaCurrent
}

// Alpha returns the currently active fairness multiplier for t.
func (s *State) Alpha(t policy.ProofType) fixedpoint.Fixed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alpha[t]
	if !ok {
		return fixedpoint.One
	}
	return a
}

// CheckNullifiers reports ErrNullifierReuse if any of nullifiers are
// already active within the window. It performs no mutation.
func (s *State) CheckNullifiers(nullifiers [][32]byte) error {
	return s.nulls.CheckNew(nullifiers)
}

// RecordAccepted indexes a newly accepted header, consumes its
// nullifiers, updates fork choice, and — once epoch_len blocks have
// been accumulated along the canonical chain — applies the
// Retargeter and AlphaTuner. It returns the TipChanged event if the
// canonical tip moved (nil if this block was accepted onto a
// non-canonical branch that did not overtake the existing tip).
//
// Epoch accounting only advances along blocks that extend the
// then-current tip directly; a block accepted onto a side branch
// still gets its own nullifiers indexed and is available to
// ForkChoice for a later reorg, but does not itself accumulate epoch
// state until (if ever) it becomes part of the canonical chain by
// extension from its own height onward.
func (s *State) RecordAccepted(h *header.Header, nullifiers [][32]byte, psiByType map[policy.ProofType]fixedpoint.Fixed, weight fixedpoint.Fixed) (*forkchoice.TipChanged, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := h.Hash()
	if err != nil {
		return nil, fmt.Errorf("chainstate: hash: %w", err)
	}

	wasTip := s.tracker.Tip()
	extendsTip := h.ParentHash == wasTip

	tc, err := s.tracker.Insert(hash, h.ParentHash, h.Height, weight)
	if err != nil {
		return nil, err
	}
	if tc != nil {
		for _, rh := range tc.RemovedHeights {
			s.nulls.Remove(rh)
		}
	}

	s.headers[hash] = h
	s.nulls.Insert(h.Height, nullifiers)

	if tc != nil && extendsTip {
		s.epochTimestamps = append(s.epochTimestamps, h.Timestamp)
		for _, t := range policy.AllProofTypes {
			s.epochPsiByType[t] += psiByType[t]
		}
		if uint64(len(s.epochTimestamps)) > s.p.EpochLen {
			if err := s.rollEpochLocked(); err != nil {
				return nil, fmt.Errorf("chainstate: epoch retarget: %w", err)
			}
		}
	}

	return tc, nil
}

// rollEpochLocked applies the Retargeter and AlphaTuner over the
// accumulated epoch window, then resets the accumulators to start the
// next epoch from the last timestamp observed. Must be called with
// s.mu held.
func (s *State) rollEpochLocked() error {
	ema, err := retarget.LambdaEMA(s.p, s.epochTimestamps)
	if err != nil {
		return fmt.Errorf("lambda_ema: %w", err)
	}
	nextTheta, err := retarget.UpdateTheta(s.p, s.thetaCurrent, ema)
	if err != nil {
		return fmt.Errorf("update_theta: %w", err)
	}
	observed := retarget.ObservedFractions(s.epochPsiByType)
	nextAlpha := retarget.UpdateAlpha(s.p, s.alpha, observed)

	s.thetaCurrent = nextTheta
	s.alpha = nextAlpha
	last := s.epochTimestamps[len(s.epochTimestamps)-1]
	s.epochTimestamps = []uint64{last}
	s.epochPsiByType = make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	return nil
}
