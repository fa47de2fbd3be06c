// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/animicaorg/consensus/consensuscore"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// probeCore wraps a consensuscore.Core with the bits the CLI needs:
// a fixed per-call verification deadline and the policy root it was
// built against.
type probeCore struct {
	core       *consensuscore.Core
	policyRoot policy.Root
}

func buildCore(network, genesisPath string, genesisWeight int64, format string) (*probeCore, error) {
	var p *policy.Policy
	switch network {
	case "testnet":
		p = policy.Testnet()
	case "mainnet":
		p = policy.Mainnet()
	default:
		return nil, fmt.Errorf("unknown -network %q: want testnet or mainnet", network)
	}

	root, _, err := policy.ComputeRoot(p)
	if err != nil {
		return nil, fmt.Errorf("compute policy root: %w", err)
	}

	genesis, err := loadHeader(genesisPath, format)
	if err != nil {
		return nil, fmt.Errorf("load genesis: %w", err)
	}

	c, err := consensuscore.New(p, root, genesis, fixedpoint.Fixed(genesisWeight))
	if err != nil {
		return nil, fmt.Errorf("new core: %w", err)
	}
	return &probeCore{core: c, policyRoot: root}, nil
}

// probeOutcome is the flattened trace line replay() prints for one
// submitted block.
type probeOutcome struct {
	height uint64
	kind   string
	s      int64
	theta  int64
	reason error
}

// verifyDeadline bounds every SubmitBlock's internal VerifyBatch fan
// out, so a single stuck proof verifier can never hang the replay.
const verifyDeadline = 30 * time.Second

func (pc *probeCore) submit(b probeBlock) (probeOutcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), verifyDeadline)
	defer cancel()

	block := consensuscore.Block{Header: b.Header, Proofs: b.Proofs}
	out, err := pc.core.SubmitBlock(ctx, block, b.Header.Timestamp)
	if err != nil {
		return probeOutcome{height: b.Header.Height, kind: "error"}, err
	}

	return probeOutcome{
		height: b.Header.Height,
		kind:   out.Kind.String(),
		s:      int64(out.Decision.S),
		theta:  int64(b.Header.Theta),
		reason: out.Decision.Reason,
	}, nil
}
