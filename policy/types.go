// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package policy defines the authoritative PoIES parameter bundle:
// theta/gamma/beta/alpha/kappa constants, the per-type fixed-point
// conversion tables, and the canonical-CBOR loader that binds a Policy
// to its committed PolicyRoot.
package policy

import "github.com/animicaorg/consensus/fixedpoint"

// ChainID identifies the network; bound into every domain tag the
// core computes.
type ChainID uint32

// ProofType enumerates the five evidence kinds PoIES recognizes.
type ProofType uint8

const (
	ProofTypeHash ProofType = 1
	ProofTypeAI   ProofType = 2
	ProofTypeQPU  ProofType = 3
	ProofTypeStor ProofType = 4
	ProofTypeVDF  ProofType = 5
)

// String renders the type as its wire tag, matching the nullifier
// domain-tag suffixes used by codec.NullifierTag.
func (t ProofType) String() string {
	switch t {
	case ProofTypeHash:
		return "HASH"
	case ProofTypeAI:
		return "AI"
	case ProofTypeQPU:
		return "QPU"
	case ProofTypeStor:
		return "STOR"
	case ProofTypeVDF:
		return "VDF"
	default:
		return "UNKNOWN"
	}
}

// AllProofTypes lists every recognized type in a fixed, canonical
// order; used wherever a policy or scorer needs to iterate types
// deterministically.
var AllProofTypes = [...]ProofType{
	ProofTypeHash, ProofTypeAI, ProofTypeQPU, ProofTypeStor, ProofTypeVDF,
}

// Knot is one point of a piecewise-linear policy curve (g(traps_ratio)
// and similar), given in fixed point.
type Knot struct {
	X fixedpoint.Fixed `cbor:"1,keyasint" json:"x"`
	Y fixedpoint.Fixed `cbor:"2,keyasint" json:"y"`
}

// Rational is an exact rational exponent (used for r(k)=min(k,r_max)^rho
// and pow_fp's sigma), never represented as a float.
type Rational struct {
	Num int64 `cbor:"1,keyasint" json:"num"`
	Den int64 `cbor:"2,keyasint" json:"den"`
}

// AlphaBounds is the [min,max] clamp range for per-type fairness
// multipliers.
type AlphaBounds struct {
	Min fixedpoint.Fixed `cbor:"1,keyasint" json:"min"`
	Max fixedpoint.Fixed `cbor:"2,keyasint" json:"max"`
}

// Policy is the authoritative, effectively-immutable-per-epoch
// parameter bundle described by spec.md §3. Every quantity spec.md
// mentions only in prose is given an explicit field here so that
// determinism (no hidden constants) is mechanically checkable.
type Policy struct {
	ChainID ChainID `cbor:"1,keyasint" json:"chainId"`

	ThetaTarget fixedpoint.Fixed `cbor:"2,keyasint" json:"thetaTarget"`
	GammaTotal  fixedpoint.Fixed `cbor:"3,keyasint" json:"gammaTotal"`

	// Per-type and per-proof caps, indexed by ProofType.
	GammaType  map[ProofType]fixedpoint.Fixed `cbor:"4,keyasint" json:"gammaType"`
	GammaProof map[ProofType]fixedpoint.Fixed `cbor:"5,keyasint" json:"gammaProof"`

	// Beta converts a verifier's raw metric into µ-nats, per type.
	Beta map[ProofType]fixedpoint.Fixed `cbor:"6,keyasint" json:"beta"`

	AlphaBounds  AlphaBounds                    `cbor:"7,keyasint" json:"alphaBounds"`
	Rho          fixedpoint.Fixed               `cbor:"8,keyasint" json:"rho"`
	AlphaTargets map[ProofType]fixedpoint.Fixed `cbor:"9,keyasint" json:"alphaTargets"`
	AlphaInitial map[ProofType]fixedpoint.Fixed `cbor:"10,keyasint" json:"alphaInitial"`

	Kappa      fixedpoint.Fixed `cbor:"11,keyasint" json:"kappa"`
	DeltaPlus  fixedpoint.Fixed `cbor:"12,keyasint" json:"deltaPlus"`
	DeltaMinus fixedpoint.Fixed `cbor:"13,keyasint" json:"deltaMinus"`

	QEscort   uint32           `cbor:"14,keyasint" json:"qEscort"`
	TauEscort fixedpoint.Fixed `cbor:"15,keyasint" json:"tauEscort"`

	ThetaShareRatio fixedpoint.Fixed `cbor:"16,keyasint" json:"thetaShareRatio"`
	NullifierWindow uint64           `cbor:"17,keyasint" json:"nullifierWindow"`

	EpochLen      uint64 `cbor:"18,keyasint" json:"epochLen"`
	MaxReorgDepth uint64 `cbor:"19,keyasint" json:"maxReorgDepth"`

	DeltaMinArrival uint64           `cbor:"20,keyasint" json:"deltaMinArrivalSeconds"`
	DeltaMaxArrival uint64           `cbor:"21,keyasint" json:"deltaMaxArrivalSeconds"`
	LambdaTarget    fixedpoint.Fixed `cbor:"22,keyasint" json:"lambdaTarget"`

	HeaderSizeCap uint32 `cbor:"23,keyasint" json:"headerSizeCap"`
	MaxHeaderSkew uint64 `cbor:"24,keyasint" json:"maxHeaderSkewSeconds"`

	// TrapsTarget and RedundancyMax/RedundancyExponent parameterize
	// g(traps_ratio) and r(redundancy) (spec.md §9 open question #1,
	// ratified in SPEC_FULL.md §9).
	TrapsTarget        fixedpoint.Fixed `cbor:"25,keyasint" json:"trapsTarget"`
	RedundancyMax      uint32           `cbor:"26,keyasint" json:"redundancyMax"`
	RedundancyExponent Rational         `cbor:"27,keyasint" json:"redundancyExponent"`

	// Storage curve parameters: pow_fp(sealed_bytes, sigma), plus the
	// retrieval bonus multiplier delta.
	StorageSigma Rational         `cbor:"28,keyasint" json:"storageSigma"`
	StorageDelta fixedpoint.Fixed `cbor:"29,keyasint" json:"storageDelta"`

	// TablesHash commits the SHA3-256 of the frozen ln/exp tables
	// (fixedpoint/tables.go) this policy was authored against.
	TablesHash [32]byte `cbor:"30,keyasint" json:"tablesHash"`

	// NonceDomainTag is the fixed ASCII constant bound into every
	// header's nonce_domain_tag field.
	NonceDomainTag string `cbor:"31,keyasint" json:"nonceDomainTag"`

	// HashWorkUnit is the big-endian 256-bit divisor defining "1.0
	// unit" of HashShare work; HashShareMinRatio is the minimum
	// d_ratio (in units of HashWorkUnit) a share must clear.
	HashWorkUnit       [32]byte         `cbor:"32,keyasint" json:"hashWorkUnit"`
	HashShareMinRatio  fixedpoint.Fixed `cbor:"33,keyasint" json:"hashShareMinRatio"`

	// AI/QPU attestation: pinned vendor roots, keyed by vendor ID.
	VendorRoots map[uint8][]byte `cbor:"34,keyasint" json:"vendorRoots"`

	// QoS curve knots for g(traps_ratio); see SPEC_FULL.md §9.
	QoSKnots []Knot `cbor:"35,keyasint" json:"qosKnots"`

	// MaxAttestationAge bounds how old (in seconds, relative to the
	// header timestamp) an attestation's claimed issuance may be
	// before ExpiredAttestation is returned.
	MaxAttestationAge uint64 `cbor:"36,keyasint" json:"maxAttestationAgeSeconds"`
}

// GammaTypeOf returns the per-type cap for t, or zero if unset.
func (p *Policy) GammaTypeOf(t ProofType) fixedpoint.Fixed {
	return p.GammaType[t]
}

// GammaProofOf returns the per-proof cap for t, or zero if unset.
func (p *Policy) GammaProofOf(t ProofType) fixedpoint.Fixed {
	return p.GammaProof[t]
}

// BetaOf returns the metric→µ-nat conversion constant for t.
func (p *Policy) BetaOf(t ProofType) fixedpoint.Fixed {
	return p.Beta[t]
}

// AlphaTargetOf returns the target mix fraction for t.
func (p *Policy) AlphaTargetOf(t ProofType) fixedpoint.Fixed {
	return p.AlphaTargets[t]
}

// EvalKnots evaluates the piecewise-linear curve defined by knots
// (sorted ascending by X) at x, clamping to the first/last segment's
// slope-0 extension outside the knot range. Used for g(traps_ratio).
func EvalKnots(knots []Knot, x fixedpoint.Fixed) fixedpoint.Fixed {
	if len(knots) == 0 {
		return 0
	}
	if x <= knots[0].X {
		return knots[0].Y
	}
	last := knots[len(knots)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 0; i < len(knots)-1; i++ {
		a, b := knots[i], knots[i+1]
		if x >= a.X && x <= b.X {
			span := b.X - a.X
			if span == 0 {
				return a.Y
			}
			frac := x - a.X
			return a.Y + fixedpoint.MulRat(b.Y-a.Y, int64(frac), int64(span))
		}
	}
	return last.Y
}
