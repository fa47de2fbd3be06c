// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"testing"

	"github.com/luxfi/crypto/bls"
	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/fixedpoint"
	"github.com/animicaorg/consensus/policy"
)

func testCtx(p *policy.Policy) HeaderContext {
	return HeaderContext{
		ParentHash:     [32]byte{1},
		MixSeed:        [32]byte{2},
		Height:         10,
		PolicyRoot:     policy.Root{3},
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      1_700_000_000,
	}
}

func TestVerifyHashShareAcceptsAndDerivesNullifier(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)

	body, err := codec.Marshal(codec.CurrentVersion, HashShareBody{ExtraNonce: []byte{1, 2, 3, 4}})
	require.NoError(t, err)

	// Extremely low HashShareMinRatio so a single recomputed digest
	// reliably clears the threshold without needing an actual search.
	p.HashShareMinRatio = 1

	m, nullifier, err := VerifyHashShare(p, ctx, body)
	require.NoError(t, err)
	require.GreaterOrEqual(t, m.DRatio, fixedpoint.Zero)
	require.NotEqual(t, [32]byte{}, nullifier)

	expected := DeriveNullifier(policy.ProofTypeHash, []byte{1, 2, 3, 4}, headerBinding(ctx))
	require.Equal(t, expected, nullifier)
}

func TestVerifyHashShareRejectsMalformedBody(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)
	_, _, err := VerifyHashShare(p, ctx, []byte{0xff, 0xff})
	require.ErrorIs(t, err, ErrMalformedBody)
}

func signedVendor(t *testing.T) (uint8, []byte, func([]byte) []byte) {
	sk, err := bls.NewSecretKey()
	require.NoError(t, err)
	pk := sk.PublicKey()
	return 1, bls.PublicKeyToCompressedBytes(pk), func(msg []byte) []byte {
		sig := bls.Sign(sk, msg)
		return bls.SignatureToBytes(sig)
	}
}

func TestVerifyAIAcceptsValidAttestation(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)

	vendorID, pkBytes, sign := signedVendor(t)
	p.VendorRoots[vendorID] = pkBytes

	unsigned := jobClaimUnsigned{
		VendorID:      vendorID,
		IdentityBytes: []byte("job-1"),
		Units:         5 * int64(fixedpoint.Scale),
		QoS:           int64(fixedpoint.One),
		TrapsRatio:    int64(fixedpoint.Scale) / 10,
		Redundancy:    2,
		IssuedAt:      ctx.Timestamp - 10,
	}
	msg, err := codec.Marshal(codec.CurrentVersion, unsigned)
	require.NoError(t, err)

	claim := jobClaim{
		VendorID:      unsigned.VendorID,
		IdentityBytes: unsigned.IdentityBytes,
		Units:         unsigned.Units,
		QoS:           unsigned.QoS,
		TrapsRatio:    unsigned.TrapsRatio,
		Redundancy:    unsigned.Redundancy,
		IssuedAt:      unsigned.IssuedAt,
		Signature:     sign(msg),
	}
	body, err := codec.Marshal(codec.CurrentVersion, claim)
	require.NoError(t, err)

	m, nullifier, err := VerifyAI(p, ctx, body)
	require.NoError(t, err)
	require.Equal(t, fixedpoint.Fixed(unsigned.Units), m.AIUnits)
	require.NotEqual(t, [32]byte{}, nullifier)
}

func TestVerifyAIRejectsUnknownVendor(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)

	claim := jobClaim{VendorID: 99, IdentityBytes: []byte("job"), IssuedAt: ctx.Timestamp}
	body, err := codec.Marshal(codec.CurrentVersion, claim)
	require.NoError(t, err)

	_, _, err = VerifyAI(p, ctx, body)
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestVerifyAIRejectsExpiredAttestation(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)

	vendorID, pkBytes, sign := signedVendor(t)
	p.VendorRoots[vendorID] = pkBytes

	unsigned := jobClaimUnsigned{
		VendorID:      vendorID,
		IdentityBytes: []byte("job-old"),
		IssuedAt:      ctx.Timestamp - p.MaxAttestationAge - 1,
	}
	msg, err := codec.Marshal(codec.CurrentVersion, unsigned)
	require.NoError(t, err)

	claim := jobClaim{
		VendorID:      unsigned.VendorID,
		IdentityBytes: unsigned.IdentityBytes,
		IssuedAt:      unsigned.IssuedAt,
		Signature:     sign(msg),
	}
	body, err := codec.Marshal(codec.CurrentVersion, claim)
	require.NoError(t, err)

	_, _, err = VerifyAI(p, ctx, body)
	require.ErrorIs(t, err, ErrExpiredAttestation)
}

func TestRegistryVerifyEnvelopeRejectsNullifierMismatch(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)
	p.HashShareMinRatio = 1

	body, err := codec.Marshal(codec.CurrentVersion, HashShareBody{ExtraNonce: []byte{9, 9}})
	require.NoError(t, err)

	env := Envelope{Type: policy.ProofTypeHash, BodyCBOR: body, Nullifier: [32]byte{0xff}}
	r := NewRegistry()
	_, _, err = r.VerifyEnvelope(p, ctx, env)
	require.ErrorIs(t, err, ErrNullifierMismatch)
}

func TestRegistryVerifyRejectsUnknownType(t *testing.T) {
	p := policy.Testnet()
	ctx := testCtx(p)
	r := NewRegistry()
	_, _, err := r.Verify(p, ctx, Envelope{Type: policy.ProofType(200)})
	require.ErrorIs(t, err, ErrUnknownAlgorithm)
}
