// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package predicate

import (
	"errors"

	"github.com/animicaorg/consensus/fixedpoint"
)

// ErrBelowThreshold is the Rejected reason when S falls below both the
// block-acceptance and share-receipt thresholds.
var ErrBelowThreshold = errors.New("predicate: score is below the acceptance and share thresholds")

// Kind enumerates the three possible outcomes of the acceptance
// predicate.
type Kind int

const (
	KindBlockAccepted Kind = iota
	KindShareReceipt
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindBlockAccepted:
		return "BlockAccepted"
	case KindShareReceipt:
		return "ShareReceipt"
	case KindRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Decision is the outcome of Decide: the score and its two
// components, always recomputable by any verifier, plus the decision
// kind and (for Rejected) the reason.
type Decision struct {
	Kind   Kind
	S      fixedpoint.Fixed
	Hu     fixedpoint.Fixed
	Psi    fixedpoint.Fixed
	Reason error
}

// Decide applies spec.md §4.4's decision rule. theta is the header's
// committed Theta (the retargeted acceptance threshold for this
// height, not the policy's genesis ThetaTarget), thetaShareRatio is
// the policy's share-acceptance fraction of theta.
func Decide(theta, thetaShareRatio, hu, psi fixedpoint.Fixed) Decision {
	s := hu + psi
	switch {
	case s >= theta:
		return Decision{Kind: KindBlockAccepted, S: s, Hu: hu, Psi: psi}
	case s >= fixedpoint.Mul(thetaShareRatio, theta):
		return Decision{Kind: KindShareReceipt, S: s, Hu: hu, Psi: psi}
	default:
		return Decision{Kind: KindRejected, S: s, Hu: hu, Psi: psi, Reason: ErrBelowThreshold}
	}
}
