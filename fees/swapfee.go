// Package fees contains the pure fee and accrual math: swap and position
// fee tiers, funding and borrowing factors per period, and the execution-fee
// gas accounting. Everything here is side-effect-free and safe to call any
// number of times for previews.
package fees

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// SwapFeeUsd selects the fee tier for a swap and applies it to the input
// USD. Balance-improving trades get the lower tier; atomic (same-block
// withdrawal style) swaps use the dedicated atomic factor when configured.
func SwapFeeUsd(m *markets.MarketInfo, usdIn *big.Int, balanceWasImproved, isAtomic bool) *big.Int {
	var factor *big.Int
	switch {
	case isAtomic && m.AtomicSwapFeeFactor != nil:
		factor = m.AtomicSwapFeeFactor
	case balanceWasImproved:
		factor = m.SwapFeeFactorForBalanceWasImproved
	default:
		factor = m.SwapFeeFactorForBalanceWasNotImproved
	}
	return numeric.ApplyFactor(usdIn, factor)
}
