package fees

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// FundingFactorPerPeriod returns the signed, 1e30-scaled funding rate a
// side accrues over periodSeconds. The paying side pays the nominal rate;
// the receiving side is paid the nominal rate scaled by payingOI/receivingOI
// so that paid-out funding never exceeds collected funding. A receiving side
// with zero open interest accrues nothing.
func FundingFactorPerPeriod(m *markets.MarketInfo, isLong bool, periodSeconds int64) *big.Int {
	factorPerSecond := m.FundingFactorPerSecond
	if factorPerSecond == nil {
		return new(big.Int)
	}
	period := big.NewInt(periodSeconds)

	isPayingSide := isLong == m.LongsPayShorts
	if isPayingSide {
		rate := new(big.Int).Mul(factorPerSecond, period)
		return rate.Neg(rate)
	}

	payingOI := m.OpenInterestUsd(m.LongsPayShorts)
	receivingOI := m.OpenInterestUsd(!m.LongsPayShorts)
	if receivingOI.Sign() == 0 {
		return new(big.Int)
	}

	ratio := numeric.MulDiv(payingOI, numeric.Precision, receivingOI)
	rate := numeric.ApplyFactor(ratio, factorPerSecond)
	return rate.Mul(rate, period)
}

// BorrowingFactorPerPeriod returns the 1e30-scaled borrowing cost factor a
// side accrues over periodSeconds. Borrowing is symmetric per side; no
// imbalance adjustment applies.
func BorrowingFactorPerPeriod(m *markets.MarketInfo, isLong bool, periodSeconds int64) *big.Int {
	factorPerSecond := m.BorrowingFactorPerSecondForShorts
	if isLong {
		factorPerSecond = m.BorrowingFactorPerSecondForLongs
	}
	if factorPerSecond == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(factorPerSecond, big.NewInt(periodSeconds))
}
