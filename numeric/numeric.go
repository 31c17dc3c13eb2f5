// Package numeric implements the fixed-point big integer arithmetic shared by
// every pricing and fee calculation in this module. All ratios, factors and
// USD values are scaled by 10^30; token amounts are scaled by the token's own
// decimals. No floating point is used anywhere in this package except the
// isolated exponentiation in exponent.go.
package numeric

import (
	"math/big"
)

// FactorDecimals is the number of decimals used for factors, ratios and USD values.
const FactorDecimals = 30

var (
	ten = big.NewInt(10)

	// Precision represents 1.0 in factor units (10^30). Read-only.
	Precision = new(big.Int).Exp(ten, big.NewInt(FactorDecimals), nil)

	// BasisPointsDivisor is 100% expressed in basis points. Read-only.
	BasisPointsDivisor = big.NewInt(10_000)

	// precomputed 10^dec for typical token decimals (0..30)
	precomputedScales [FactorDecimals + 1]*big.Int
)

func init() {
	precomputedScales[0] = big.NewInt(1)
	for i := 1; i < len(precomputedScales); i++ {
		precomputedScales[i] = new(big.Int).Mul(precomputedScales[i-1], ten)
	}
}

// Pow10 returns 10^dec. The returned *big.Int MUST NOT be modified.
func Pow10(dec uint8) *big.Int {
	if int(dec) < len(precomputedScales) {
		return precomputedScales[dec]
	}
	// rare path: decimals beyond the factor scale
	return new(big.Int).Exp(ten, big.NewInt(int64(dec)), nil)
}

// ExpandDecimals returns n * 10^decimals as a freshly allocated big.Int.
func ExpandDecimals(n int64, decimals uint8) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Pow10(decimals))
}

// MulDiv computes a*b/denominator with full-width intermediate precision,
// truncating the quotient toward zero. A nil or zero denominator resolves to
// zero rather than panicking; zero denominators occur routinely for
// freshly-listed markets and must not crash a preview.
func MulDiv(a, b, denominator *big.Int) *big.Int {
	if a == nil || b == nil || denominator == nil || denominator.Sign() == 0 {
		return new(big.Int)
	}
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, denominator)
}

// MulDivRoundUpMagnitude is MulDiv with the magnitude of the result rounded
// away from zero when the division is inexact. Used when rounding must favor
// the pool: negative amounts become more negative, positive amounts larger.
func MulDivRoundUpMagnitude(a, b, denominator *big.Int) *big.Int {
	if a == nil || b == nil || denominator == nil || denominator.Sign() == 0 {
		return new(big.Int)
	}
	product := new(big.Int).Mul(a, b)
	quotient, remainder := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if remainder.Sign() == 0 {
		return quotient
	}
	if (product.Sign() < 0) != (denominator.Sign() < 0) {
		return quotient.Sub(quotient, one)
	}
	return quotient.Add(quotient, one)
}

var one = big.NewInt(1)

// ApplyFactor scales value by a 10^30-denominated factor.
func ApplyFactor(value, factor *big.Int) *big.Int {
	return MulDiv(value, factor, Precision)
}

// ApplyFactorRoundUpMagnitude scales value by a factor, rounding the
// magnitude of the result away from zero.
func ApplyFactorRoundUpMagnitude(value, factor *big.Int) *big.Int {
	return MulDivRoundUpMagnitude(value, factor, Precision)
}

// ToBasisPoints converts delta/basis into basis points out of 10,000.
// A zero basis resolves to zero.
func ToBasisPoints(delta, basis *big.Int) *big.Int {
	return MulDiv(delta, BasisPointsDivisor, basis)
}

// ToBasisPointsRoundUpMagnitude is ToBasisPoints rounding away from zero.
func ToBasisPointsRoundUpMagnitude(delta, basis *big.Int) *big.Int {
	return MulDivRoundUpMagnitude(delta, BasisPointsDivisor, basis)
}

// Min returns the smaller of a and b as a new big.Int.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Max returns the larger of a and b as a new big.Int.
func Max(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Abs returns |a| as a new big.Int.
func Abs(a *big.Int) *big.Int {
	return new(big.Int).Abs(a)
}

// Neg returns -a as a new big.Int.
func Neg(a *big.Int) *big.Int {
	return new(big.Int).Neg(a)
}

// BigZero returns a fresh zero value; callers must not share package constants.
func BigZero() *big.Int {
	return new(big.Int)
}
