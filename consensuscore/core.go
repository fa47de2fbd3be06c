// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensuscore implements spec.md §6's public facade: the
// single object owning every piece of mutable PoIES state (block
// index, nullifiers, fork choice, retarget/alpha tuners) and exposing
// exactly the seven operations of the external interface table.
// Grounded on the teacher's root consensus package shape (core.go,
// interfaces.go) and errors_test.go's WrapError pattern.
package consensuscore

import (
	"context"
	"fmt"
	"sync"

	"github.com/animicaorg/consensus/chainstate"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
	"github.com/animicaorg/consensus/predicate"
	"github.com/animicaorg/consensus/proof"
	"github.com/animicaorg/consensus/scorer"
)

// Block is the full submission submit_block consumes: a header plus
// the proof envelopes claimed for it.
type Block struct {
	Header *header.Header
	Proofs []proof.Envelope
}

// Outcome is submit_block's tagged result: exactly one of
// BlockAccepted, ShareReceipt, or Rejected, per spec.md §6.
// TipChanged is non-nil only when Kind is BlockAccepted and the
// canonical tip actually moved.
type Outcome struct {
	Kind       predicate.Kind
	Decision   predicate.Decision
	TipChanged *TipChanged
}

// Core is the single-threaded PoIES state machine. SubmitBlock holds
// Core's lock for the full validate-verify-score-commit sequence,
// matching spec.md §5's single-threaded model and §7's "errors are
// side-effect-free" guarantee. The read methods (Tip, GetTheta,
// GetAlpha, ValidateHeader) do not take Core's lock; they read through
// chainstate.State, which guards itself with its own mutex.
type Core struct {
	mu sync.Mutex

	p          *policy.Policy
	policyRoot policy.Root
	registry   *proof.Registry
	state      *chainstate.State
}

// New constructs a Core from an already-loaded policy (policy.Load
// having already checked its root) and a genesis header. genesisWeight
// is the weight genesis itself contributes to cumulative fork-choice
// weight.
func New(p *policy.Policy, policyRoot policy.Root, genesis *header.Header, genesisWeight fixedpoint.Fixed) (*Core, error) {
	s, err := chainstate.New(p, genesis, genesisWeight)
	if err != nil {
		return nil, fmt.Errorf("consensuscore: new: %w", err)
	}
	return &Core{
		p:          p,
		policyRoot: policyRoot,
		registry:   proof.NewRegistry(),
		state:      s,
	}, nil
}

// ValidateHeader implements validate_header: canonical decode is
// assumed already done by the caller (header.Decode); this runs the
// gate checks only, with no state mutation.
func (c *Core) ValidateHeader(h *header.Header, now uint64) (header.Hash, error) {
	if h.PolicyRoot != c.policyRoot {
		return header.Hash{}, WrapError(ErrUnknownPolicy, "validate_header")
	}
	parent, ok := c.state.HeaderByHash(h.ParentHash)
	if !ok {
		return header.Hash{}, WrapError(ErrMalformedHeader, "validate_header: unknown parent")
	}
	if err := predicate.ValidateGate(c.p, c.policyRoot, h, parent, now); err != nil {
		return header.Hash{}, WrapError(err, "validate_header")
	}
	return h.Hash()
}

// VerifyProof implements verify_proof: pure and parallelizable, with a
// context deadline enforced around the single verification.
func (c *Core) VerifyProof(ctx context.Context, hctx proof.HeaderContext, env proof.Envelope) (proof.Metrics, [32]byte, error) {
	type result struct {
		m   proof.Metrics
		n   [32]byte
		err error
	}
	done := make(chan result, 1)
	go func() {
		m, n, err := c.registry.VerifyEnvelope(c.p, hctx, env)
		done <- result{m, n, err}
	}()
	select {
	case r := <-done:
		if r.err != nil {
			return nil, [32]byte{}, WrapError(r.err, "verify_proof")
		}
		return r.m, r.n, nil
	case <-ctx.Done():
		return nil, [32]byte{}, WrapError(ErrVerificationTimedOut, "verify_proof")
	}
}

// VerifyBatch runs VerifyProof over every envelope concurrently,
// fanning results back in input order. Matches the teacher's
// preference for hand-rolled goroutine+channel fan-in (dag.DAG,
// quorum/static.go) over a worker-pool library.
func (c *Core) VerifyBatch(ctx context.Context, hctx proof.HeaderContext, envs []proof.Envelope) ([]proof.Metrics, [][32]byte, error) {
	type slot struct {
		m   proof.Metrics
		n   [32]byte
		err error
	}
	slots := make([]slot, len(envs))
	var wg sync.WaitGroup
	wg.Add(len(envs))
	for i, env := range envs {
		i, env := i, env
		go func() {
			defer wg.Done()
			m, n, err := c.VerifyProof(ctx, hctx, env)
			slots[i] = slot{m: m, n: n, err: err}
		}()
	}
	wg.Wait()

	metrics := make([]proof.Metrics, len(envs))
	nullifiers := make([][32]byte, len(envs))
	for i, s := range slots {
		if s.err != nil {
			return nil, nil, fmt.Errorf("verify_batch: envelope %d: %w", i, s.err)
		}
		metrics[i] = s.m
		nullifiers[i] = s.n
	}
	return metrics, nullifiers, nil
}

// ScoreBlock implements score_block: caps, fairness adjustment, and
// the escort rule over already-verified proofs, plus the u-draw
// against h's own committed Theta. It mutates no state.
func (c *Core) ScoreBlock(h *header.Header, types []policy.ProofType, nullifiers [][32]byte, metrics []proof.Metrics) (predicate.Decision, scorer.Result, error) {
	if len(types) != len(metrics) || len(nullifiers) != len(metrics) {
		return predicate.Decision{}, scorer.Result{}, fmt.Errorf("consensuscore: score_block: mismatched proof slice lengths")
	}

	scored := make([]scorer.ScoredProof, len(metrics))
	for i := range metrics {
		scored[i] = scorer.ScoredProof{Type: types[i], Nullifier: nullifiers[i], Metrics: metrics[i]}
	}

	alpha := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	for _, t := range policy.AllProofTypes {
		alpha[t] = c.state.Alpha(t)
	}

	result, err := scorer.Apply(c.p, alpha, scored)
	if err != nil {
		return predicate.Decision{}, scorer.Result{}, WrapError(err, "score_block")
	}

	raw, err := h.Encode()
	if err != nil {
		return predicate.Decision{}, scorer.Result{}, WrapError(err, "score_block: encode header")
	}
	hu, err := predicate.ComputeHu(c.p.ChainID, raw)
	if err != nil {
		return predicate.Decision{}, scorer.Result{}, WrapError(err, "score_block: u-draw")
	}

	decision := predicate.Decide(fixedpoint.Fixed(h.Theta), c.p.ThetaShareRatio, hu, result.Psi)
	return decision, result, nil
}

// SubmitBlock implements submit_block: the only state-mutating
// operation. On any error, no state has been mutated; on
// ShareReceipt or Rejected, likewise nothing is mutated (spec.md §7).
// Only BlockAccepted advances the nullifier store, fork choice, and
// epoch tuners, atomically.
func (c *Core) SubmitBlock(ctx context.Context, block Block, now uint64) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.ValidateHeader(block.Header, now); err != nil {
		return Outcome{}, err
	}

	hctx := proof.HeaderContext{
		ParentHash:     [32]byte(block.Header.ParentHash),
		MixSeed:        [32]byte(block.Header.MixSeed),
		Height:         block.Header.Height,
		PolicyRoot:     block.Header.PolicyRoot,
		NonceDomainTag: block.Header.NonceDomainTag,
		Timestamp:      block.Header.Timestamp,
	}

	metrics, nullifiers, err := c.VerifyBatch(ctx, hctx, block.Proofs)
	if err != nil {
		return Outcome{}, WrapError(err, "submit_block")
	}

	seen := make(map[[32]byte]bool, len(nullifiers))
	for _, n := range nullifiers {
		if seen[n] {
			return Outcome{}, WrapError(ErrNullifierReuse, "submit_block: duplicate nullifier within block")
		}
		seen[n] = true
	}
	if err := c.state.CheckNullifiers(nullifiers); err != nil {
		return Outcome{}, WrapError(err, "submit_block")
	}

	types := make([]policy.ProofType, len(block.Proofs))
	for i, env := range block.Proofs {
		types[i] = env.Type
	}

	decision, result, err := c.ScoreBlock(block.Header, types, nullifiers, metrics)
	if err != nil {
		return Outcome{}, err
	}

	if decision.Kind != predicate.KindBlockAccepted {
		// ShareReceipt is non-chain-extending (spec.md §9 ratified
		// open question 3) and Rejected mutates nothing either way.
		return Outcome{Kind: decision.Kind, Decision: decision}, nil
	}

	psiByType := make(map[policy.ProofType]fixedpoint.Fixed, len(policy.AllProofTypes))
	for _, contribution := range result.Breakdown {
		psiByType[contribution.Type] += contribution.Taken
	}

	tc, err := c.state.RecordAccepted(block.Header, nullifiers, psiByType, decision.S)
	if err != nil {
		return Outcome{}, WrapError(err, "submit_block")
	}

	return Outcome{Kind: decision.Kind, Decision: decision, TipChanged: tc}, nil
}

// Tip implements tip: hash, height, cumulative weight of the
// canonical chain.
func (c *Core) Tip() (header.Hash, uint64, fixedpoint.Fixed) {
	hash, hdr, weight := c.state.Tip()
	var height uint64
	if hdr != nil {
		height = hdr.Height
	}
	return hash, height, weight
}

// GetTheta implements get_theta.
func (c *Core) GetTheta() fixedpoint.Fixed {
	return c.state.Theta()
}

// GetAlpha implements get_alpha.
func (c *Core) GetAlpha(t policy.ProofType) fixedpoint.Fixed {
	return c.state.Alpha(t)
}
