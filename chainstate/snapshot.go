// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package chainstate

import (
	"fmt"

	"github.com/luxfi/database"

	"github.com/animicaorg/consensus/codec"
	"github.com/animicaorg/consensus/header"
)

var (
	keyManifest     = []byte("anm:manifest")
	keyTip          = []byte("anm:tip")
	headerKeyPrefix = []byte("anm:h:")
)

func headerKey(h header.Hash) []byte {
	key := make([]byte, 0, len(headerKeyPrefix)+len(h))
	key = append(key, headerKeyPrefix...)
	key = append(key, h[:]...)
	return key
}

// Snapshot persists every header this state has ever indexed, plus the
// current tip hash, into db. It deliberately does not persist
// nullifiers, fork-choice cumulative weights, or the retarget/alpha
// tuner's running state: spec.md §6 promises only a deterministic
// *replay* interface, so the host reconstructs that state by
// re-submitting the block stream from genesis through
// consensuscore.Core.SubmitBlock. Snapshot exists so a host restarting
// mid-chain doesn't need to re-fetch header bytes it already wrote.
func (s *State) Snapshot(db database.Database) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := db.NewBatch()
	hashes := make([][32]byte, 0, len(s.headers))
	for hash, h := range s.headers {
		raw, err := h.Encode()
		if err != nil {
			return fmt.Errorf("chainstate: snapshot: encode header %x: %w", hash, err)
		}
		if err := batch.Put(headerKey(hash), raw); err != nil {
			return fmt.Errorf("chainstate: snapshot: put header %x: %w", hash, err)
		}
		hashes = append(hashes, [32]byte(hash))
	}

	manifest, err := codec.Marshal(codec.CurrentVersion, hashes)
	if err != nil {
		return fmt.Errorf("chainstate: snapshot: encode manifest: %w", err)
	}
	if err := batch.Put(keyManifest, manifest); err != nil {
		return fmt.Errorf("chainstate: snapshot: put manifest: %w", err)
	}

	tip := s.tracker.Tip()
	if err := batch.Put(keyTip, tip[:]); err != nil {
		return fmt.Errorf("chainstate: snapshot: put tip: %w", err)
	}
	return batch.Write()
}

// Restore loads every header and the last-snapshotted tip hash out of
// db. Paired with Snapshot; see its comment for why this does not by
// itself reconstruct nullifiers, fork-choice weights, or tuner state —
// the caller replays the returned headers (by height) through
// consensuscore.Core.SubmitBlock to regenerate those deterministically.
func Restore(db database.Database) (headers map[header.Hash]*header.Header, tip header.Hash, err error) {
	manifestRaw, err := db.Get(keyManifest)
	if err != nil {
		return nil, header.Hash{}, fmt.Errorf("chainstate: restore: manifest: %w", err)
	}
	var hashes [][32]byte
	if _, err := codec.Unmarshal(manifestRaw, &hashes); err != nil {
		return nil, header.Hash{}, fmt.Errorf("chainstate: restore: decode manifest: %w", err)
	}

	headers = make(map[header.Hash]*header.Header, len(hashes))
	for _, hb := range hashes {
		h := header.Hash(hb)
		raw, err := db.Get(headerKey(h))
		if err != nil {
			return nil, header.Hash{}, fmt.Errorf("chainstate: restore: get header %x: %w", h, err)
		}
		hdr, err := header.Decode(raw)
		if err != nil {
			return nil, header.Hash{}, fmt.Errorf("chainstate: restore: decode header %x: %w", h, err)
		}
		headers[h] = hdr
	}

	tipRaw, err := db.Get(keyTip)
	if err != nil {
		return nil, header.Hash{}, fmt.Errorf("chainstate: restore: tip: %w", err)
	}
	copy(tip[:], tipRaw)
	return headers, tip, nil
}
