// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import "github.com/animicaorg/consensus/fixedpoint"

// Testnet returns a permissive preset suitable for local integration
// tests and the scenarios in spec.md §8. It is not consensus-critical
// itself (only the canonical bytes of whatever Policy a network
// actually loads are), but gives callers and tests a ready-made,
// internally-consistent starting point.
func Testnet() *Policy {
	f := func(whole int64, micros int64) fixedpoint.Fixed {
		return fixedpoint.Fixed(whole)*fixedpoint.Scale + fixedpoint.Fixed(micros)
	}

	gammaType := map[ProofType]fixedpoint.Fixed{
		ProofTypeHash: f(4, 0),
		ProofTypeAI:   f(5, 0),
		ProofTypeQPU:  f(5, 0),
		ProofTypeStor: f(3, 0),
		ProofTypeVDF:  f(4, 0),
	}
	gammaProof := map[ProofType]fixedpoint.Fixed{
		ProofTypeHash: f(4, 0),
		ProofTypeAI:   f(5, 0),
		ProofTypeQPU:  f(5, 0),
		ProofTypeStor: f(3, 0),
		ProofTypeVDF:  f(4, 0),
	}
	beta := map[ProofType]fixedpoint.Fixed{
		ProofTypeHash: f(10, 0),
		ProofTypeAI:   fixedpoint.Scale / 100, // small per-unit conversion
		ProofTypeQPU:  fixedpoint.Scale / 100,
		ProofTypeStor: fixedpoint.Scale / 1000,
		ProofTypeVDF:  fixedpoint.Scale / 10,
	}
	alphaTargets := map[ProofType]fixedpoint.Fixed{
		ProofTypeHash: fixedpoint.Scale / 5, // 0.2 each, summing to 1.0
		ProofTypeAI:   fixedpoint.Scale / 5,
		ProofTypeQPU:  fixedpoint.Scale / 5,
		ProofTypeStor: fixedpoint.Scale / 5,
		ProofTypeVDF:  fixedpoint.Scale / 5,
	}
	alphaInitial := map[ProofType]fixedpoint.Fixed{
		ProofTypeHash: fixedpoint.One,
		ProofTypeAI:   fixedpoint.One,
		ProofTypeQPU:  fixedpoint.One,
		ProofTypeStor: fixedpoint.One,
		ProofTypeVDF:  fixedpoint.One,
	}

	return &Policy{
		ChainID:     1337,
		ThetaTarget: f(20, 0),
		GammaTotal:  f(8, 0),
		GammaType:   gammaType,
		GammaProof:  gammaProof,
		Beta:        beta,
		AlphaBounds: AlphaBounds{
			Min: fixedpoint.Scale / 4,  // 0.25
			Max: fixedpoint.Scale * 4,  // 4.0
		},
		Rho:             fixedpoint.Scale / 20, // 0.05 learning rate
		AlphaTargets:    alphaTargets,
		AlphaInitial:    alphaInitial,
		Kappa:           fixedpoint.Scale / 10, // 0.1 retarget responsiveness
		DeltaPlus:       f(2, 0),
		DeltaMinus:      f(2, 0),
		QEscort:         3,
		TauEscort:       (fixedpoint.Scale * 3) / 4, // 0.75
		ThetaShareRatio: (fixedpoint.Scale * 4) / 5, // 0.8
		NullifierWindow: 256,
		EpochLen:        2016,
		MaxReorgDepth:   10,
		DeltaMinArrival: 1,
		DeltaMaxArrival: 600,
		LambdaTarget:    fixedpoint.Scale / 15, // target ~1 block/15s
		HeaderSizeCap:   8192,
		MaxHeaderSkew:   15,
		TrapsTarget:     (fixedpoint.Scale * 9) / 10, // 0.9
		RedundancyMax:   5,
		RedundancyExponent: Rational{Num: 1, Den: 2},
		StorageSigma:       Rational{Num: 1, Den: 2},
		StorageDelta:       fixedpoint.Scale / 10, // 0.1
		NonceDomainTag:     "ANM-NONCE-DOMAIN-V1",
		HashWorkUnit:       testnetWorkUnit(),
		HashShareMinRatio:  fixedpoint.One,
		VendorRoots: map[uint8][]byte{
			1: []byte("testnet-vendor-root-tee-1"),
			2: []byte("testnet-vendor-root-qpu-1"),
		},
		// g(x) knots from TrapsTarget tt = 0.9: (0,0), (tt/2,tt/2),
		// (tt,1), (1,1) — convex below tt, flat from tt to 1.
		QoSKnots: []Knot{
			{X: 0, Y: 0},
			{X: (fixedpoint.Scale * 9) / 20, Y: (fixedpoint.Scale * 9) / 20},
			{X: (fixedpoint.Scale * 9) / 10, Y: fixedpoint.One},
			{X: fixedpoint.One, Y: fixedpoint.One},
		},
		MaxAttestationAge: 3600,
	}
}

// testnetWorkUnit returns a HashWorkUnit of 1 (only the lowest byte
// set), so a share's target is HashShareMinRatio units of
// achieved work and every digest clears the default ratio of 1.0. The
// all-zero value is avoided because it would be a degenerate divisor.
func testnetWorkUnit() [32]byte {
	var u [32]byte
	u[31] = 0x01
	return u
}

// Mainnet returns the production-shaped preset: identical structure to
// Testnet but with a larger NullifierWindow and MaxReorgDepth befitting
// a live network. Actual mainnet parameters are committed via their
// PolicyRoot, not read from this constructor; it exists for tooling
// (cmd/animica-coreprobe) that needs a plausible default to start from.
func Mainnet() *Policy {
	p := Testnet()
	p.ChainID = 1
	p.NullifierWindow = 100_000
	p.MaxReorgDepth = 100
	p.EpochLen = 20160
	return p
}
