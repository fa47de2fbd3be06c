// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package consensuscore

import (
	"errors"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/forkchoice"
	"github.com/animicaorg/consensus/nullifier"
	"github.com/animicaorg/consensus/predicate"
	"github.com/animicaorg/consensus/proof"
	"github.com/animicaorg/consensus/scorer"
)

// The full ErrorKind taxonomy of spec.md §7, re-exported as sentinels
// so callers can errors.Is against one stable set regardless of which
// component package actually detected the condition.
var (
	ErrMalformedEncoding    = codec.ErrMalformedEncoding
	ErrMalformedHeader      = predicate.ErrMalformedHeader
	ErrUnknownPolicy        = errors.New("consensuscore: header references a policy root that is not loaded")
	ErrBadAttestation       = proof.ErrBadAttestation
	ErrExpiredAttestation   = proof.ErrExpiredAttestation
	ErrUnknownAlgorithm     = proof.ErrUnknownAlgorithm
	ErrMalformedBody        = proof.ErrMalformedBody
	ErrNullifierMismatch    = proof.ErrNullifierMismatch
	ErrNullifierReuse       = nullifier.ErrNullifierReuse
	ErrBelowShareTarget     = proof.ErrBelowShareTarget
	ErrBelowThreshold       = predicate.ErrBelowThreshold
	ErrEscortViolation      = scorer.ErrEscortViolation
	ErrReorgTooDeep         = forkchoice.ErrReorgTooDeep
	ErrVerificationTimedOut = errors.New("consensuscore: proof verification exceeded its deadline")
)

// WrapError attaches positional context to err while preserving its
// errors.Is/errors.As chain, generalized from the teacher's inline
// WrapError helper (errors_test.go).
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{context: context, err: err}
}

type wrappedError struct {
	context string
	err     error
}

func (w *wrappedError) Error() string { return w.context + ": " + w.err.Error() }
func (w *wrappedError) Unwrap() error { return w.err }
