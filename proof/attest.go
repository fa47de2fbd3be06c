// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package proof

import (
	"fmt"

	"github.com/luxfi/crypto/bls"

	"github.com/animicaorg/consensus/policy"
)

// VerifyVendorSignature checks sig over msg against the compressed
// BLS public key pinned for vendorID in the policy's VendorRoots.
// Returns ErrUnknownAlgorithm if vendorID isn't pinned and
// ErrBadAttestation if the key or signature fail to parse or the
// signature doesn't verify.
func VerifyVendorSignature(p *policy.Policy, vendorID uint8, msg, sig []byte) error {
	root, ok := p.VendorRoots[vendorID]
	if !ok {
		return fmt.Errorf("%w: vendor %d is not pinned", ErrUnknownAlgorithm, vendorID)
	}
	pub, err := bls.PublicKeyFromCompressedBytes(root)
	if err != nil {
		return fmt.Errorf("%w: vendor %d root key: %v", ErrBadAttestation, vendorID, err)
	}
	blsSig, err := bls.SignatureFromBytes(sig)
	if err != nil {
		return fmt.Errorf("%w: malformed signature: %v", ErrBadAttestation, err)
	}
	if !bls.Verify(pub, blsSig, msg) {
		return fmt.Errorf("%w: signature does not verify against vendor %d root", ErrBadAttestation, vendorID)
	}
	return nil
}

// CheckAttestationAge rejects claims issued more than
// MaxAttestationAge seconds before the header's timestamp, or issued
// in the header's future.
func CheckAttestationAge(p *policy.Policy, headerTimestamp, issuedAt uint64) error {
	if issuedAt > headerTimestamp {
		return fmt.Errorf("%w: issued at %d is after header timestamp %d", ErrExpiredAttestation, issuedAt, headerTimestamp)
	}
	if headerTimestamp-issuedAt > p.MaxAttestationAge {
		return fmt.Errorf("%w: age %ds exceeds max %ds", ErrExpiredAttestation, headerTimestamp-issuedAt, p.MaxAttestationAge)
	}
	return nil
}
