// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/proof"
)

// probeBlock mirrors consensuscore.Block field for field; it exists
// only so the CBOR wrapper below can carry canonical keyasint tags
// without reaching into the consensuscore package's wire shape.
type probeBlock struct {
	Header *header.Header   `cbor:"1,keyasint" json:"header"`
	Proofs []proof.Envelope `cbor:"2,keyasint" json:"proofs"`
}

// loadBlocks reads either a JSON array of probeBlock or a single
// canonical-CBOR-encoded array of probeBlock, selected by format.
func loadBlocks(path, format string) ([]probeBlock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch format {
	case "json":
		var blocks []probeBlock
		if err := json.Unmarshal(data, &blocks); err != nil {
			return nil, fmt.Errorf("decode json block stream: %w", err)
		}
		return blocks, nil
	case "cbor":
		var blocks []probeBlock
		if _, err := codec.Unmarshal(data, &blocks); err != nil {
			return nil, fmt.Errorf("decode cbor block stream: %w", err)
		}
		return blocks, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want json or cbor", format)
	}
}

// loadHeader reads a single header in either format, used for -genesis.
func loadHeader(path, format string) (*header.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch format {
	case "json":
		var h header.Header
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, fmt.Errorf("decode json header: %w", err)
		}
		return &h, nil
	case "cbor":
		h, err := header.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode cbor header: %w", err)
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown format %q: want json or cbor", format)
	}
}
