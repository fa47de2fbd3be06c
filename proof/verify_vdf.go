// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// vdfAttestation is the CBOR body of a VDF proof. Verifying the
// underlying sequential-function proof itself (Wesolowski/Pietrzak
// group exponentiation) is delegated to a pinned "timelord" vendor
// whose signature over the claimed elapsed time is checked here,
// mirroring the AI/QPU/Storage attestation shape rather than
// reimplementing a group-theoretic VDF verifier on the consensus
// path.
type vdfAttestation struct {
	VendorID      uint8  `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes []byte `cbor:"2,keyasint" json:"identityBytes"`
	TSecondsMicro int64  `cbor:"3,keyasint" json:"tSecondsMicro"`
	IssuedAt      uint64 `cbor:"4,keyasint" json:"issuedAt"`
	Signature     []byte `cbor:"5,keyasint" json:"signature"`
}

type vdfAttestationUnsigned struct {
	VendorID      uint8  `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes []byte `cbor:"2,keyasint" json:"identityBytes"`
	TSecondsMicro int64  `cbor:"3,keyasint" json:"tSecondsMicro"`
	IssuedAt      uint64 `cbor:"4,keyasint" json:"issuedAt"`
}

const maxVDFSeconds = 365 * 24 * 3600 // a year; bounds TSecondsMicro well under overflow

// VerifyVDF checks a VDF envelope body and returns its VDFMetrics.
func VerifyVDF(p *policy.Policy, ctx HeaderContext, body []byte) (VDFMetrics, [32]byte, error) {
	var a vdfAttestation
	if _, err := codec.Unmarshal(body, &a); err != nil {
		return VDFMetrics{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if a.TSecondsMicro <= 0 || a.TSecondsMicro > int64(maxVDFSeconds)*int64(fixedpoint.Scale) {
		return VDFMetrics{}, [32]byte{}, fmt.Errorf("%w: tSecondsMicro out of range", ErrMalformedBody)
	}

	msg, err := codec.Marshal(codec.CurrentVersion, vdfAttestationUnsigned{
		VendorID:      a.VendorID,
		IdentityBytes: a.IdentityBytes,
		TSecondsMicro: a.TSecondsMicro,
		IssuedAt:      a.IssuedAt,
	})
	if err != nil {
		return VDFMetrics{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := VerifyVendorSignature(p, a.VendorID, msg, a.Signature); err != nil {
		return VDFMetrics{}, [32]byte{}, err
	}
	if err := CheckAttestationAge(p, ctx.Timestamp, a.IssuedAt); err != nil {
		return VDFMetrics{}, [32]byte{}, err
	}

	nullifier := DeriveNullifier(policy.ProofTypeVDF, a.IdentityBytes, headerBinding(ctx))
	return VDFMetrics{TSeconds: fixedpoint.Fixed(a.TSecondsMicro)}, nullifier, nil
}
