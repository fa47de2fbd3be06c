// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package corelog wraps github.com/luxfi/log the way the teacher's
// log/nolog.go does: a Logger interface alias plus a no-op
// constructor, with go.uber.org/zap supplying the structured fields
// every call site attaches. consensuscore itself never logs — logging
// is a host concern — but this package gives a host something to
// plug in without writing its own adapter.
package corelog

import (
	"github.com/luxfi/log"
	"go.uber.org/zap"

	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// Logger re-exports the teacher's logger interface directly so a host
// already holding a github.com/luxfi/log.Logger needs no adapter.
type Logger = log.Logger

// NewNoOp returns a logger that discards everything it's given, for
// tests and hosts that don't care about consensus-core logging.
func NewNoOp() Logger {
	return log.NewNoOpLogger()
}

// DecisionFields builds the structured fields for one submit_block
// decision: kind, height, the S/Theta/Psi/Hu components, and the
// rejection reason if any.
func DecisionFields(kind string, height uint64, s, theta, hu, psi fixedpoint.Fixed, reason error) []zap.Field {
	fields := []zap.Field{
		zap.String("decision", kind),
		zap.Uint64("height", height),
		zap.Int64("s_micronats", int64(s)),
		zap.Int64("theta_micronats", int64(theta)),
		zap.Int64("hu_micronats", int64(hu)),
		zap.Int64("psi_micronats", int64(psi)),
	}
	if reason != nil {
		fields = append(fields, zap.Error(reason))
	}
	return fields
}

// ContributionFields builds one log line's fields for a single
// scorer breakdown entry, keyed by proof type and nullifier prefix
// (the full nullifier is 32 bytes; only the first 8 are logged to
// keep lines short).
func ContributionFields(t policy.ProofType, nullifier [32]byte, psiRaw, psiAdj, taken fixedpoint.Fixed) []zap.Field {
	return []zap.Field{
		zap.String("proof_type", t.String()),
		zap.Binary("nullifier_prefix", nullifier[:8]),
		zap.Int64("psi_raw_micronats", int64(psiRaw)),
		zap.Int64("psi_adj_micronats", int64(psiAdj)),
		zap.Int64("taken_micronats", int64(taken)),
	}
}

// TipChangedFields builds fields for a fork-choice tip transition.
func TipChangedFields(oldTip, newTip [32]byte, removed, added []uint64) []zap.Field {
	return []zap.Field{
		zap.Binary("old_tip", oldTip[:]),
		zap.Binary("new_tip", newTip[:]),
		zap.Uint64s("removed_heights", removed),
		zap.Uint64s("added_heights", added),
	}
}
