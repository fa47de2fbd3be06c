// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package consensuscore

import "github.com/animicaorg/consensus/forkchoice"

// TipChanged is surfaced on Outcome whenever SubmitBlock moves the
// canonical tip, including reorgs; the RemovedHeights/AddedHeights
// pair tells a host exactly which blocks left/entered the canonical
// chain so it can replay the corresponding nullifier and UTXO-style
// side effects outside the core.
type TipChanged = forkchoice.TipChanged
