package markets

import (
	"math/big"
)

// ConvertToUsd converts a token amount into 1e30-scaled USD. Prices carry
// the 10^(30-decimals) scale, so the conversion is a plain multiply.
func ConvertToUsd(amount, price *big.Int) *big.Int {
	if amount == nil || price == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(amount, price)
}

// ConvertToTokenAmount converts 1e30-scaled USD into a token amount,
// truncating toward zero. A zero price resolves to zero; freshly-listed
// markets report zero prices and must not crash a preview.
func ConvertToTokenAmount(usd, price *big.Int) *big.Int {
	if usd == nil || price == nil || price.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(usd, price)
}

// ConvertToTokenAmountRoundUpMagnitude is ConvertToTokenAmount with the
// magnitude rounded away from zero, used when rounding must favor the pool.
func ConvertToTokenAmountRoundUpMagnitude(usd, price *big.Int) *big.Int {
	if usd == nil || price == nil || price.Sign() == 0 {
		return new(big.Int)
	}
	quotient, remainder := new(big.Int).QuoRem(usd, price, new(big.Int))
	if remainder.Sign() == 0 {
		return quotient
	}
	if (usd.Sign() < 0) != (price.Sign() < 0) {
		return quotient.Sub(quotient, big.NewInt(1))
	}
	return quotient.Add(quotient, big.NewInt(1))
}
