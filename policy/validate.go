// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package policy

import (
	"fmt"

	"github.com/animicaorg/consensus/fixedpoint"
)

// Valid returns an error if the policy's parameters fail any of the
// documented range/consistency conditions. Modeled on the teacher's
// config.Parameters.Valid() ordered-switch style: each case names the
// exact condition that failed so operators can fix policy authoring
// mistakes without guessing.
func (p *Policy) Valid() error {
	switch {
	case p.GammaTotal <= 0:
		return fmt.Errorf("gammaTotal = %s: fails the condition that: 0 < gammaTotal", p.GammaTotal)
	case p.ThetaTarget <= 0:
		return fmt.Errorf("thetaTarget = %s: fails the condition that: 0 < thetaTarget", p.ThetaTarget)
	case p.AlphaBounds.Min <= 0:
		return fmt.Errorf("alphaBounds.min = %s: fails the condition that: 0 < alphaBounds.min", p.AlphaBounds.Min)
	case p.AlphaBounds.Max < p.AlphaBounds.Min:
		return fmt.Errorf("alphaBounds.max = %s, alphaBounds.min = %s: fails the condition that: alphaBounds.min <= alphaBounds.max", p.AlphaBounds.Max, p.AlphaBounds.Min)
	case p.Rho <= 0:
		return fmt.Errorf("rho = %s: fails the condition that: 0 < rho", p.Rho)
	case p.Kappa <= 0:
		return fmt.Errorf("kappa = %s: fails the condition that: 0 < kappa", p.Kappa)
	case p.DeltaPlus <= 0:
		return fmt.Errorf("deltaPlus = %s: fails the condition that: 0 < deltaPlus", p.DeltaPlus)
	case p.DeltaMinus <= 0:
		return fmt.Errorf("deltaMinus = %s: fails the condition that: 0 < deltaMinus", p.DeltaMinus)
	case p.QEscort == 0:
		return fmt.Errorf("qEscort = %d: fails the condition that: 0 < qEscort", p.QEscort)
	case int(p.QEscort) > len(AllProofTypes):
		return fmt.Errorf("qEscort = %d: fails the condition that: qEscort <= %d (number of proof types)", p.QEscort, len(AllProofTypes))
	case p.TauEscort <= 0 || p.TauEscort > fixedpoint.One:
		return fmt.Errorf("tauEscort = %s: fails the condition that: 0 < tauEscort <= 1.0", p.TauEscort)
	case p.ThetaShareRatio <= 0 || p.ThetaShareRatio >= fixedpoint.One:
		return fmt.Errorf("thetaShareRatio = %s: fails the condition that: 0 < thetaShareRatio < 1.0", p.ThetaShareRatio)
	case p.NullifierWindow == 0:
		return fmt.Errorf("nullifierWindow = %d: fails the condition that: 0 < nullifierWindow", p.NullifierWindow)
	case p.EpochLen == 0:
		return fmt.Errorf("epochLen = %d: fails the condition that: 0 < epochLen", p.EpochLen)
	case p.MaxReorgDepth == 0:
		return fmt.Errorf("maxReorgDepth = %d: fails the condition that: 0 < maxReorgDepth", p.MaxReorgDepth)
	case p.DeltaMinArrival == 0:
		return fmt.Errorf("deltaMinArrivalSeconds = 0: fails the condition that: 0 < deltaMinArrivalSeconds")
	case p.DeltaMaxArrival < p.DeltaMinArrival:
		return fmt.Errorf("deltaMaxArrivalSeconds = %d, deltaMinArrivalSeconds = %d: fails the condition that: deltaMinArrivalSeconds <= deltaMaxArrivalSeconds", p.DeltaMaxArrival, p.DeltaMinArrival)
	case p.LambdaTarget <= 0:
		return fmt.Errorf("lambdaTarget = %s: fails the condition that: 0 < lambdaTarget", p.LambdaTarget)
	case p.HeaderSizeCap == 0 || p.HeaderSizeCap > 8192:
		return fmt.Errorf("headerSizeCap = %d: fails the condition that: 0 < headerSizeCap <= 8192", p.HeaderSizeCap)
	case p.TrapsTarget <= 0 || p.TrapsTarget > fixedpoint.One:
		return fmt.Errorf("trapsTarget = %s: fails the condition that: 0 < trapsTarget <= 1.0", p.TrapsTarget)
	case p.RedundancyMax == 0:
		return fmt.Errorf("redundancyMax = %d: fails the condition that: 0 < redundancyMax", p.RedundancyMax)
	case p.RedundancyExponent.Den == 0:
		return fmt.Errorf("redundancyExponent.den = 0: fails the condition that: redundancyExponent.den != 0")
	case p.StorageSigma.Den == 0:
		return fmt.Errorf("storageSigma.den = 0: fails the condition that: storageSigma.den != 0")
	case p.NonceDomainTag == "":
		return fmt.Errorf("nonceDomainTag is empty: fails the condition that: nonceDomainTag != \"\"")
	case p.HashShareMinRatio <= 0:
		return fmt.Errorf("hashShareMinRatio = %s: fails the condition that: 0 < hashShareMinRatio", p.HashShareMinRatio)
	case p.MaxAttestationAge == 0:
		return fmt.Errorf("maxAttestationAgeSeconds = %d: fails the condition that: 0 < maxAttestationAgeSeconds", p.MaxAttestationAge)
	}

	for _, t := range AllProofTypes {
		if _, ok := p.GammaType[t]; !ok {
			return fmt.Errorf("gammaType[%s] is not set", t)
		}
		if _, ok := p.GammaProof[t]; !ok {
			return fmt.Errorf("gammaProof[%s] is not set", t)
		}
		if _, ok := p.Beta[t]; !ok {
			return fmt.Errorf("beta[%s] is not set", t)
		}
		if p.GammaType[t] > p.GammaTotal {
			return fmt.Errorf("gammaType[%s] = %s: fails the condition that: gammaType[%s] <= gammaTotal (%s)", t, p.GammaType[t], t, p.GammaTotal)
		}
		if p.GammaProof[t] > p.GammaType[t] {
			return fmt.Errorf("gammaProof[%s] = %s: fails the condition that: gammaProof[%s] <= gammaType[%s] (%s)", t, p.GammaProof[t], t, t, p.GammaType[t])
		}
		if alphaTarget, ok := p.AlphaTargets[t]; !ok {
			return fmt.Errorf("alphaTargets[%s] is not set", t)
		} else if alphaTarget < 0 || alphaTarget > fixedpoint.One {
			return fmt.Errorf("alphaTargets[%s] = %s: fails the condition that: 0 <= alphaTargets[%s] <= 1.0", t, alphaTarget, t)
		}
		if alphaInit, ok := p.AlphaInitial[t]; !ok {
			return fmt.Errorf("alphaInitial[%s] is not set", t)
		} else if alphaInit < p.AlphaBounds.Min || alphaInit > p.AlphaBounds.Max {
			return fmt.Errorf("alphaInitial[%s] = %s: fails the condition that: alphaBounds.min <= alphaInitial[%s] <= alphaBounds.max", t, alphaInit, t)
		}
	}

	return nil
}
