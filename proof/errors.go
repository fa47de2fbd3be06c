// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import "errors"

// Error taxonomy per spec.md §4.2/§7: every rejection a verifier can
// produce, wrapped with errors.Is-compatible sentinels so callers can
// branch without string matching.
var (
	ErrMalformedBody      = errors.New("proof: malformed body")
	ErrUnknownAlgorithm   = errors.New("proof: unknown algorithm or vendor")
	ErrBadAttestation     = errors.New("proof: attestation signature or chain verification failed")
	ErrExpiredAttestation = errors.New("proof: attestation is outside the accepted age window")
	ErrNullifierMismatch  = errors.New("proof: claimed nullifier does not match the recomputed value")
	ErrBelowShareTarget   = errors.New("proof: submitted work does not clear the minimum share target")
	ErrContextMismatch    = errors.New("proof: proof is not bound to the supplied header context")
)
