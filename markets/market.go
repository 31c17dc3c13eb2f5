package markets

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// PoolAmount returns the raw pool amount for a side.
func (m *MarketInfo) PoolAmount(isLong bool) *big.Int {
	if isLong {
		return m.LongPoolAmount
	}
	return m.ShortPoolAmount
}

// poolAmountAdjustment returns the configured amount adjustment for a side,
// defaulting to zero.
func (m *MarketInfo) poolAmountAdjustment(isLong bool) *big.Int {
	adjustment := m.ShortPoolAmountAdjustment
	if isLong {
		adjustment = m.LongPoolAmountAdjustment
	}
	if adjustment == nil {
		return new(big.Int)
	}
	return adjustment
}

// CollateralToken returns the collateral token record for a side.
func (m *MarketInfo) CollateralToken(isLong bool) *Token {
	if isLong {
		return m.LongToken
	}
	return m.ShortToken
}

// MidPoolUsd computes a side's pool value at the mid oracle price, including
// the configured pool-amount adjustment. This is the balance the swap
// price-impact rule operates on.
func (m *MarketInfo) MidPoolUsd(isLong bool) *big.Int {
	token := m.CollateralToken(isLong)
	if token == nil {
		return new(big.Int)
	}
	amount := new(big.Int).Add(m.PoolAmount(isLong), m.poolAmountAdjustment(isLong))
	return ConvertToUsd(amount, token.Prices.Mid())
}

// PoolUsdWithoutPnl computes a side's pool value at the chosen price bound,
// ignoring trader PnL.
func (m *MarketInfo) PoolUsdWithoutPnl(isLong, maximize bool) *big.Int {
	token := m.CollateralToken(isLong)
	if token == nil {
		return new(big.Int)
	}
	return ConvertToUsd(m.PoolAmount(isLong), token.Prices.Pick(maximize))
}

// OpenInterestUsd returns the USD open interest for a side.
func (m *MarketInfo) OpenInterestUsd(isLong bool) *big.Int {
	oi := m.ShortInterestUsd
	if isLong {
		oi = m.LongInterestUsd
	}
	if oi == nil {
		return new(big.Int)
	}
	return oi
}

// OpenInterestInTokens returns the token-denominated open interest for a side.
func (m *MarketInfo) OpenInterestInTokens(isLong bool) *big.Int {
	oi := m.ShortInterestInTokens
	if isLong {
		oi = m.LongInterestInTokens
	}
	if oi == nil {
		return new(big.Int)
	}
	return oi
}

// ReservedUsd returns the USD value reserved against open positions on a
// side. Longs reserve index-token exposure at the max index price; shorts
// reserve their USD open interest directly.
func (m *MarketInfo) ReservedUsd(isLong bool) *big.Int {
	if m.IsSpotOnly {
		return new(big.Int)
	}
	if isLong {
		if m.IndexToken == nil {
			return new(big.Int)
		}
		return ConvertToUsd(m.OpenInterestInTokens(true), m.IndexToken.Prices.Max)
	}
	return new(big.Int).Set(m.OpenInterestUsd(false))
}

// AvailableSwapLiquidityUsd returns how much USD can be taken out of a
// side's pool by swaps without breaching the reserve requirements of open
// positions. A route hop whose output exceeds this is out of liquidity.
func (m *MarketInfo) AvailableSwapLiquidityUsd(isLong bool) *big.Int {
	poolUsd := m.PoolUsdWithoutPnl(isLong, false)

	reserveFactor := m.ReserveFactorShort
	openInterestReserveFactor := m.OpenInterestReserveFactorShort
	if isLong {
		reserveFactor = m.ReserveFactorLong
		openInterestReserveFactor = m.OpenInterestReserveFactorLong
	}

	maxReserveFactor := reserveFactor
	if openInterestReserveFactor != nil &&
		(maxReserveFactor == nil || openInterestReserveFactor.Cmp(maxReserveFactor) < 0) {
		maxReserveFactor = openInterestReserveFactor
	}
	if maxReserveFactor == nil || maxReserveFactor.Sign() == 0 {
		return poolUsd
	}

	// the pool must keep reservedUsd/maxReserveFactor; the rest is swappable
	minPoolUsd := numeric.MulDiv(m.ReservedUsd(isLong), numeric.Precision, maxReserveFactor)
	liquidity := new(big.Int).Sub(poolUsd, minPoolUsd)
	if liquidity.Sign() < 0 {
		return new(big.Int)
	}
	return liquidity
}

// SwapImpactPoolAmount returns the swap impact pool for a side, defaulting
// to zero. Positive swap price impact is paid out of this pool and is
// therefore capped by it.
func (m *MarketInfo) SwapImpactPoolAmount(isLong bool) *big.Int {
	amount := m.SwapImpactPoolAmountShort
	if isLong {
		amount = m.SwapImpactPoolAmountLong
	}
	if amount == nil {
		return new(big.Int)
	}
	return amount
}
