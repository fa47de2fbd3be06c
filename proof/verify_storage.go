// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

// storageHeartbeat is the CBOR body of a Storage proof: a vendor
// (storage provider) signed proof-of-retrievability heartbeat.
// SealedGiB is a whole-number capacity figure (gibibytes), kept small
// enough that scaling by fixedpoint.Scale never overflows int64.
type storageHeartbeat struct {
	VendorID       uint8  `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes  []byte `cbor:"2,keyasint" json:"identityBytes"`
	SealedGiB      int64  `cbor:"3,keyasint" json:"sealedGiB"`
	UptimeQoS      int64  `cbor:"4,keyasint" json:"uptimeQos"`
	RetrievalBonus int64  `cbor:"5,keyasint" json:"retrievalBonus"`
	IssuedAt       uint64 `cbor:"6,keyasint" json:"issuedAt"`
	Signature      []byte `cbor:"7,keyasint" json:"signature"`
}

type storageHeartbeatUnsigned struct {
	VendorID       uint8  `cbor:"1,keyasint" json:"vendorId"`
	IdentityBytes  []byte `cbor:"2,keyasint" json:"identityBytes"`
	SealedGiB      int64  `cbor:"3,keyasint" json:"sealedGiB"`
	UptimeQoS      int64  `cbor:"4,keyasint" json:"uptimeQos"`
	RetrievalBonus int64  `cbor:"5,keyasint" json:"retrievalBonus"`
	IssuedAt       uint64 `cbor:"6,keyasint" json:"issuedAt"`
}

const maxSealedGiB = 1 << 40 // far above any plausible single-provider capacity

// VerifyStorage checks a Storage envelope body and returns its
// StorageMetrics.
func VerifyStorage(p *policy.Policy, ctx HeaderContext, body []byte) (StorageMetrics, [32]byte, error) {
	var hb storageHeartbeat
	if _, err := codec.Unmarshal(body, &hb); err != nil {
		return StorageMetrics{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if hb.SealedGiB <= 0 || hb.SealedGiB > maxSealedGiB {
		return StorageMetrics{}, [32]byte{}, fmt.Errorf("%w: sealedGiB out of range", ErrMalformedBody)
	}
	if fixedpoint.Fixed(hb.UptimeQoS) < 0 || fixedpoint.Fixed(hb.UptimeQoS) > fixedpoint.One {
		return StorageMetrics{}, [32]byte{}, fmt.Errorf("%w: uptimeQos out of [0,1]", ErrMalformedBody)
	}
	if fixedpoint.Fixed(hb.RetrievalBonus) < 0 || fixedpoint.Fixed(hb.RetrievalBonus) > fixedpoint.One {
		return StorageMetrics{}, [32]byte{}, fmt.Errorf("%w: retrievalBonus out of [0,1]", ErrMalformedBody)
	}

	msg, err := codec.Marshal(codec.CurrentVersion, storageHeartbeatUnsigned{
		VendorID:       hb.VendorID,
		IdentityBytes:  hb.IdentityBytes,
		SealedGiB:      hb.SealedGiB,
		UptimeQoS:      hb.UptimeQoS,
		RetrievalBonus: hb.RetrievalBonus,
		IssuedAt:       hb.IssuedAt,
	})
	if err != nil {
		return StorageMetrics{}, [32]byte{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := VerifyVendorSignature(p, hb.VendorID, msg, hb.Signature); err != nil {
		return StorageMetrics{}, [32]byte{}, err
	}
	if err := CheckAttestationAge(p, ctx.Timestamp, hb.IssuedAt); err != nil {
		return StorageMetrics{}, [32]byte{}, err
	}

	nullifier := DeriveNullifier(policy.ProofTypeStor, hb.IdentityBytes, headerBinding(ctx))
	return StorageMetrics{
		SealedBytes:    fixedpoint.FromInt(hb.SealedGiB),
		UptimeQoS:      fixedpoint.Fixed(hb.UptimeQoS),
		RetrievalBonus: fixedpoint.Fixed(hb.RetrievalBonus),
	}, nullifier, nil
}
