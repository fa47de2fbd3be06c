// Copyright (C) 2026, Animica Foundation. All rights reserved.
// See the file LICENSE for licensing terms.

package fixedpoint

import "fmt"

// ln2Fixed is ln(2) in fixed point, i.e. round(ln(2) * Scale).
const ln2Fixed Fixed = 693147

// Ln2 exports ln2Fixed for callers (e.g. predicate's big.Int-based
// u-draw) that need to range-reduce values wider than a Fixed can
// hold using the same octave constant this table was built against.
const Ln2 = ln2Fixed

// tableSteps is the number of equal subdivisions spanning one octave
// ([1,2) for the log table, [0,ln2) for the exp table). Every entry
// below was generated offline (see internal/gentables) from exact
// transcendental values and is frozen here as a consensus artifact:
// changing a single entry changes every node's score. Policy.TablesHash
// has room for a commitment to these tables, but nothing in this module
// computes or checks it, and the presets leave it zero.
const tableSteps = 64

// lnTable[i] = round(ln(1 + i/tableSteps) * Scale) for i in [0, tableSteps].
var lnTable = [tableSteps + 1]Fixed{
	0, 15504, 30772, 45810, 60625, 75223, 89612, 103797, 117783, 131576,
	145182, 158605, 171850, 184922, 197826, 210565, 223144, 235566, 247836, 259958,
	271934, 283768, 295464, 307025, 318454, 329753, 340927, 351976, 362905, 373716,
	384412, 394994, 405465, 415828, 426084, 436237, 446287, 456237, 466090, 475846,
	485508, 495077, 504556, 513946, 523248, 532465, 541597, 550647, 559616, 568505,
	577315, 586049, 594707, 603291, 611802, 620240, 628609, 636907, 645138, 653301,
	661398, 669431, 677399, 685304, 693147,
}

// expTable[i] = round(exp(i/tableSteps * ln2) * Scale) for i in [0, tableSteps].
var expTable = [tableSteps + 1]Fixed{
	1000000, 1010889, 1021897, 1033025, 1044274, 1055645, 1067140, 1078761, 1090508, 1102383,
	1114387, 1126522, 1138789, 1151189, 1163725, 1176397, 1189207, 1202157, 1215247, 1228481,
	1241858, 1255381, 1269051, 1282870, 1296840, 1310961, 1325237, 1339668, 1354256, 1369002,
	1383910, 1398980, 1414214, 1429613, 1445181, 1460918, 1476826, 1492908, 1509164, 1525598,
	1542211, 1559004, 1575981, 1593142, 1610490, 1628027, 1645755, 1663677, 1681793, 1700106,
	1718619, 1737334, 1756252, 1775376, 1794709, 1814252, 1834008, 1853979, 1874168, 1894576,
	1915207, 1936062, 1957144, 1978456, 2000000,
}

// lerp linearly interpolates between table[i] and table[i+1] at
// fractional position frac/steps, frac in [0, steps).
func lerp(table *[tableSteps + 1]Fixed, i int, frac, steps int64) Fixed {
	lo, hi := table[i], table[i+1]
	return lo + Fixed(mulDivRound(int64(hi-lo), frac, steps))
}

// Ln returns ln(x/Scale) in fixed point. x must be strictly positive.
func Ln(x Fixed) (Fixed, error) {
	if x <= 0 {
		return 0, fmt.Errorf("fixedpoint: Ln domain error: x=%s must be > 0", x)
	}

	// Normalize x into the octave [Scale, 2*Scale) by repeated
	// doubling/halving, counting the number of octaves k (possibly
	// negative). ln(x) = k*ln2 + ln(mantissa).
	m := int64(x)
	k := int64(0)
	for m >= int64(2*Scale) {
		m >>= 1
		k++
	}
	for m < int64(Scale) {
		m <<= 1
		k--
	}

	// Position within the octave, scaled to table index + fraction.
	offset := m - int64(Scale) // in [0, Scale)
	idx := offset * tableSteps / int64(Scale)
	if idx >= tableSteps {
		idx = tableSteps - 1
	}
	// Fractional position between lnTable[idx] and lnTable[idx+1],
	// expressed over a denominator of Scale/tableSteps.
	step := int64(Scale) / tableSteps
	base := idx * step
	frac := offset - base
	mantissaLn := lerp(&lnTable, int(idx), frac, step)

	return Fixed(k)*ln2Fixed + mantissaLn, nil
}

// MustLn is Ln but panics on domain error. Used only where the caller
// has already range-checked x (e.g. d_ratio >= 1 enforced by the
// HashShare verifier before scoring).
func MustLn(x Fixed) Fixed {
	v, err := Ln(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Exp returns exp(x/Scale) in fixed point.
func Exp(x Fixed) Fixed {
	neg := x < 0
	v := x
	if neg {
		v = -v
	}

	// Range-reduce v = n*ln2 + r, r in [0, ln2).
	n := int64(v) / int64(ln2Fixed)
	r := int64(v) - n*int64(ln2Fixed)

	idx := r * tableSteps / int64(ln2Fixed)
	if idx >= tableSteps {
		idx = tableSteps - 1
	}
	step := int64(ln2Fixed) / tableSteps
	base := idx * step
	frac := r - base
	mantissaExp := lerp(&expTable, int(idx), frac, step)

	result := mantissaExp
	for i := int64(0); i < n; i++ {
		result = Mul(result, Fixed(2*Scale))
	}

	if neg {
		return Div(One, result)
	}
	return result
}

// Pow returns base^(num/den) in fixed point, for base > 0. The
// exponent is supplied as an exact rational to avoid ever representing
// it as a float; Pow is implemented as Exp((num/den) * Ln(base)).
func Pow(base Fixed, num, den int64) (Fixed, error) {
	lnBase, err := Ln(base)
	if err != nil {
		return 0, err
	}
	exponent := MulRat(lnBase, num, den)
	return Exp(exponent), nil
}
