// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// jobClaim is the attestation shape shared by AI and QPU proofs: a
// vendor-signed receipt over a job's identity and its measured
// quality-of-service figures. AI and QPU differ only in which
// Metrics variant the registry produces from it.
type jobClaim struct {
	VendorID      uint8   `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes []byte  `cbor:"2,keyasint" json:"identityBytes"`
	Units         int64   `cbor:"3,keyasint" json:"units"`
	QoS           int64   `cbor:"4,keyasint" json:"qos"`
	TrapsRatio    int64   `cbor:"5,keyasint" json:"trapsRatio"`
	Redundancy    uint32  `cbor:"6,keyasint" json:"redundancy"`
	IssuedAt      uint64  `cbor:"7,keyasint" json:"issuedAt"`
	Signature     []byte  `cbor:"8,keyasint" json:"signature"`
}

// jobClaimUnsigned mirrors jobClaim without the signature: the
// message the vendor's key actually signs over.
type jobClaimUnsigned struct {
	VendorID      uint8  `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes []byte `cbor:"2,keyasint" json:"identityBytes"`
	Units         int64  `cbor:"3,keyasint" json:"units"`
	QoS           int64  `cbor:"4,keyasint" json:"qos"`
	TrapsRatio    int64  `cbor:"5,keyasint" json:"trapsRatio"`
	Redundancy    uint32 `cbor:"6,keyasint" json:"redundancy"`
	IssuedAt      uint64 `cbor:"7,keyasint" json:"issuedAt"`
}

func verifyJobClaim(p *policy.Policy, ctx HeaderContext, t policy.ProofType, body []byte) (jobClaim, [32]byte, error) {
	var c jobClaim
	if _, err := codec.Unmarshal(body, &c); err != nil {
		return jobClaim{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if fixedpoint.Fixed(c.QoS) < 0 || fixedpoint.Fixed(c.QoS) > fixedpoint.One {
		return jobClaim{}, [32]byte{}, fmt.Errorf("%w: qos out of [0,1]", ErrMalformedBody)
	}
	if fixedpoint.Fixed(c.TrapsRatio) < 0 || fixedpoint.Fixed(c.TrapsRatio) > fixedpoint.One {
		return jobClaim{}, [32]byte{}, fmt.Errorf("%w: trapsRatio out of [0,1]", ErrMalformedBody)
	}
	if c.Redundancy > p.RedundancyMax {
		c.Redundancy = p.RedundancyMax
	}
	if c.Units < 0 {
		return jobClaim{}, [32]byte{}, fmt.Errorf("%w: negative units", ErrMalformedBody)
	}

	msg, err := codec.Marshal(codec.CurrentVersion, jobClaimUnsigned{
		VendorID:      c.VendorID,
		IdentityBytes: c.IdentityBytes,
		Units:         c.Units,
		QoS:           c.QoS,
		TrapsRatio:    c.TrapsRatio,
		Redundancy:    c.Redundancy,
		IssuedAt:      c.IssuedAt,
	})
	if err != nil {
		return jobClaim{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := VerifyVendorSignature(p, c.VendorID, msg, c.Signature); err != nil {
		return jobClaim{}, [32]byte{}, err
	}
	if err := CheckAttestationAge(p, ctx.Timestamp, c.IssuedAt); err != nil {
		return jobClaim{}, [32]byte{}, err
	}

	nullifier := DeriveNullifier(t, c.IdentityBytes, headerBinding(ctx))
	return c, nullifier, nil
}

// VerifyAI checks an AI envelope body and returns its AIMetrics.
func VerifyAI(p *policy.Policy, ctx HeaderContext, body []byte) (AIMetrics, [32]byte, error) {
	c, nullifier, err := verifyJobClaim(p, ctx, policy.ProofTypeAI, body)
	if err != nil {
		return AIMetrics{}, [32]byte{}, err
	}
	return AIMetrics{
		AIUnits:    fixedpoint.Fixed(c.Units),
		QoS:        fixedpoint.Fixed(c.QoS),
		TrapsRatio: fixedpoint.Fixed(c.TrapsRatio),
		Redundancy: c.Redundancy,
	}, nullifier, nil
}

// VerifyQPU checks a QPU envelope body and returns its QPUMetrics.
func VerifyQPU(p *policy.Policy, ctx HeaderContext, body []byte) (QPUMetrics, [32]byte, error) {
	c, nullifier, err := verifyJobClaim(p, ctx, policy.ProofTypeQPU, body)
	if err != nil {
		return QPUMetrics{}, [32]byte{}, err
	}
	return QPUMetrics{
		QPUUnits:   fixedpoint.Fixed(c.Units),
		QoS:        fixedpoint.Fixed(c.QoS),
		TrapsRatio: fixedpoint.Fixed(c.TrapsRatio),
		Redundancy: c.Redundancy,
	}, nullifier, nil
}
