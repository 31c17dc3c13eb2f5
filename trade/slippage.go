package trade

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// ApplySlippageToPrice moves price by allowedSlippageBps in the adverse
// direction for the caller. Opening a long or closing a short tolerates a
// higher price; the mirror cases tolerate a lower one.
func ApplySlippageToPrice(allowedSlippageBps int64, price *big.Int, isIncrease, isLong bool) *big.Int {
	if price == nil {
		return numeric.BigZero()
	}
	shouldIncrease := isIncrease == isLong
	numerator := new(big.Int).Set(numeric.BasisPointsDivisor)
	if shouldIncrease {
		numerator.Add(numerator, big.NewInt(allowedSlippageBps))
	} else {
		numerator.Sub(numerator, big.NewInt(allowedSlippageBps))
	}
	return numeric.MulDiv(price, numerator, numeric.BasisPointsDivisor)
}

// ApplySlippageToMinOut lowers a quoted output amount by allowedSlippageBps,
// producing the minimum output an order is submitted with.
func ApplySlippageToMinOut(allowedSlippageBps int64, amountOut *big.Int) *big.Int {
	if amountOut == nil {
		return numeric.BigZero()
	}
	numerator := new(big.Int).Sub(numeric.BasisPointsDivisor, big.NewInt(allowedSlippageBps))
	return numeric.MulDiv(amountOut, numerator, numeric.BasisPointsDivisor)
}
