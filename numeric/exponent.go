package numeric

import (
	"math"
	"math/big"
)

var precisionFloat = new(big.Float).SetInt(Precision)

// ApplyExponentFactor raises a 10^30-scaled value to a 10^30-scaled exponent
// and returns the 10^30-scaled result.
//
// This is the single place in the module where floating point is used: the
// power-law price-impact curve requires a fractional exponent, which has no
// exact big-integer form. The intermediate float64 keeps roughly 15
// significant digits, so the result is accurate to about 1 unit in the last
// place of a 10^30-scaled value for exponents in [0, 4]. The deviation from
// the on-chain fixed-point pow emulation has to be validated empirically
// before this can be relied on for sub-dollar impact amounts.
func ApplyExponentFactor(value, exponent *big.Int) *big.Int {
	if value == nil || exponent == nil || value.Sign() <= 0 {
		return new(big.Int)
	}

	base, _ := new(big.Float).Quo(new(big.Float).SetInt(value), precisionFloat).Float64()
	exp, _ := new(big.Float).Quo(new(big.Float).SetInt(exponent), precisionFloat).Float64()

	powed := math.Pow(base, exp)
	if math.IsNaN(powed) || math.IsInf(powed, 0) {
		return new(big.Int)
	}

	scaled := new(big.Float).Mul(big.NewFloat(powed), precisionFloat)
	out, _ := scaled.Int(nil)
	return out
}
