// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package forkchoice

import "errors"

var (
	// ErrUnknownParent is returned when Insert is given a block whose
	// parent has not itself been inserted.
	ErrUnknownParent = errors.New("forkchoice: parent block is not indexed")
	// ErrReorgTooDeep is returned when adopting a candidate tip would
	// require unwinding more than policy.MaxReorgDepth blocks.
	ErrReorgTooDeep = errors.New("forkchoice: reorg exceeds max_reorg_depth")
)
