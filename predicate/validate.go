// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package predicate

import (
	"errors"
	"fmt"

	"github.com/animicaorg/consensus/header"
	"github.com/animicaorg/consensus/policy"
)

// ErrMalformedHeader is the umbrella error the validation gate
// returns; wrapped errors carry the specific cause.
var ErrMalformedHeader = errors.New("predicate: malformed header")

// ValidateGate runs spec.md §4.4's pre-scoring validation gate:
// recompute header_hash, check policy_root (which transitively commits
// chain_id), height, parent linkage, timestamp skew, and header size
// cap. parent is nil only for the genesis header, in which case the
// height/parent-linkage checks are skipped.
func ValidateGate(p *policy.Policy, expectedPolicyRoot policy.Root, h, parent *header.Header, now uint64) error {
	if _, err := h.Hash(); err != nil {
		return fmt.Errorf("%w: hash: %v", ErrMalformedHeader, err)
	}
	if h.PolicyRoot != expectedPolicyRoot {
		return fmt.Errorf("%w: policy_root does not match the active policy", ErrMalformedHeader)
	}
	if err := h.ValidateShape(p); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	if parent != nil {
		if h.Height != parent.Height+1 {
			return fmt.Errorf("%w: height %d is not parent height %d + 1", ErrMalformedHeader, h.Height, parent.Height)
		}
		parentHash, err := parent.Hash()
		if err != nil {
			return fmt.Errorf("%w: parent hash: %v", ErrMalformedHeader, err)
		}
		if h.ParentHash != parentHash {
			return fmt.Errorf("%w: parent_hash does not match the indexed parent", ErrMalformedHeader)
		}
	}

	if h.Timestamp > now+p.MaxHeaderSkew {
		return fmt.Errorf("%w: timestamp %d exceeds now (%d) + max skew (%d)", ErrMalformedHeader, h.Timestamp, now, p.MaxHeaderSkew)
	}
	if parent != nil && h.Timestamp < parent.Timestamp {
		return fmt.Errorf("%w: timestamp %d precedes parent timestamp %d", ErrMalformedHeader, h.Timestamp, parent.Timestamp)
	}

	return nil
}
