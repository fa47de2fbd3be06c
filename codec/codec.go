// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec provides canonical, round-trippable CBOR encoding and
// domain-tagged hashing for every wire type the consensus core
// exchanges with its collaborators (headers, proof envelopes,
// receipts, policy blobs). All other components key off the stable
// bytes this package produces.
package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Version identifies the codec's wire format. Only one version exists
// today; the field exists so a future breaking change can be
// detected rather than silently misdecoded.
type Version uint16

// CurrentVersion is the only version this codec accepts.
const CurrentVersion Version = 0

// ErrMalformedEncoding is returned whenever input bytes are not the
// unique canonical encoding of some value: indefinite-length items,
// non-ascending or duplicate map keys, non-minimal integers, floats,
// or CBOR tags.
var ErrMalformedEncoding = fmt.Errorf("codec: malformed encoding")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Canonical encoding per RFC 8949 §4.2.1: definite-length
	// containers, map keys sorted (struct field order is already
	// ascending via "keyasint" tags so this is a no-op in practice,
	// but pins the behavior regardless of future struct changes),
	// minimal integers, no floats produced by this codec's own types.
	encMode, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("codec: bad encoder options: %v", err))
	}

	decMode, err = cbor.DecOptions{
		// Reject every non-canonical shape outright rather than
		// normalizing it: a header that decodes differently than it
		// was encoded is exactly the cross-node drift this codec
		// exists to prevent.
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		IndefLength:       cbor.IndefLengthForbidden,
		TagsMd:            cbor.TagsForbidden,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		IntDec:            cbor.IntDecConvertNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("codec: bad decoder options: %v", err))
	}
}

// Marshal encodes v to its canonical CBOR representation.
func Marshal(version Version, v interface{}) ([]byte, error) {
	if version != CurrentVersion {
		return nil, fmt.Errorf("codec: unsupported codec version: %d", version)
	}
	return encMode.Marshal(v)
}

// Unmarshal decodes canonical CBOR bytes into v. It rejects any input
// that is not itself the unique canonical encoding of the decoded
// value, wrapping the underlying error in ErrMalformedEncoding.
func Unmarshal(data []byte, v interface{}) (Version, error) {
	if err := decMode.Unmarshal(data, v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	// Canonicalization must be idempotent: re-encoding the decoded
	// value must reproduce the exact input bytes, otherwise the input
	// was a non-canonical (if decodable) alternate encoding.
	reencoded, err := encMode.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("%w: re-encode failed: %v", ErrMalformedEncoding, err)
	}
	if !bytesEqual(reencoded, data) {
		return 0, fmt.Errorf("%w: input is not the canonical encoding of its decoded value", ErrMalformedEncoding)
	}
	return CurrentVersion, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
