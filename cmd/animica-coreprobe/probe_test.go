// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
)

func writeGenesisJSON(t *testing.T, dir string, p *policy.Policy, root policy.Root) (string, *header.Header) {
	t.Helper()
	genesis := &header.Header{
		ParentHash:     header.Hash{},
		Height:         0,
		MixSeed:        header.Hash{0xAA},
		Theta:          uint64(p.ThetaTarget),
		PolicyRoot:     root,
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      1_700_000_000,
	}
	raw, err := json.Marshal(genesis)
	require.NoError(t, err)
	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))
	return path, genesis
}

func TestLoadHeaderRoundTripsJSON(t *testing.T) {
	dir := t.TempDir()
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)
	path, genesis := writeGenesisJSON(t, dir, p, root)

	got, err := loadHeader(path, "json")
	require.NoError(t, err)
	require.Equal(t, genesis.Height, got.Height)
	require.Equal(t, genesis.PolicyRoot, got.PolicyRoot)
}

func TestLoadBlocksRoundTripsJSON(t *testing.T) {
	dir := t.TempDir()
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)
	_, genesis := writeGenesisJSON(t, dir, p, root)
	gh, err := genesis.Hash()
	require.NoError(t, err)

	child := header.Header{
		ParentHash:     gh,
		Height:         1,
		MixSeed:        header.Hash{0x01},
		Theta:          0,
		PolicyRoot:     root,
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      genesis.Timestamp + 15,
		Nonce:          []byte{0x01},
	}
	blocks := []probeBlock{{Header: &child}}
	raw, err := json.Marshal(blocks)
	require.NoError(t, err)
	path := filepath.Join(dir, "blocks.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	got, err := loadBlocks(path, "json")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint64(1), got[0].Header.Height)
}

func TestLoadBlocksRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocks.bin")
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o600))

	_, err := loadBlocks(path, "yaml")
	require.Error(t, err)
}

func TestBuildCoreAndSubmitAcceptsGenesisChild(t *testing.T) {
	dir := t.TempDir()
	p := policy.Testnet()
	root, _, err := policy.ComputeRoot(p)
	require.NoError(t, err)
	genesisPath, genesis := writeGenesisJSON(t, dir, p, root)

	pc, err := buildCore("testnet", genesisPath, 0, "json")
	require.NoError(t, err)

	gh, err := genesis.Hash()
	require.NoError(t, err)

	child := &header.Header{
		ParentHash:     gh,
		Height:         1,
		MixSeed:        header.Hash{0x02},
		Theta:          0,
		PolicyRoot:     root,
		NonceDomainTag: p.NonceDomainTag,
		Timestamp:      genesis.Timestamp + 15,
		Nonce:          []byte{0x02},
	}

	out, err := pc.submit(probeBlock{Header: child})
	require.NoError(t, err)
	require.Equal(t, "BlockAccepted", out.kind)
}

func TestBuildCoreRejectsUnknownNetwork(t *testing.T) {
	_, err := buildCore("devnet", "unused", 0, "json")
	require.Error(t, err)
}

func TestParseProofTypeAcceptsNameAndNumber(t *testing.T) {
	t1, ok := parseProofType("HASH")
	require.True(t, ok)
	require.Equal(t, policy.ProofTypeHash, t1)

	t2, ok := parseProofType("2")
	require.True(t, ok)
	require.Equal(t, policy.ProofTypeAI, t2)

	_, ok = parseProofType("nonsense")
	require.False(t, ok)
}
