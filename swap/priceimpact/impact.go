// Package priceimpact implements the rebalance price-impact rule shared by
// swaps and positions: a power-law penalty (or rebate) on the change of the
// pool's long/short imbalance, with a cross-market virtual-inventory check
// that always uses the worse-for-the-trader result.
package priceimpact

import (
	"errors"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// ErrNegativePoolUsd is returned when an applied delta would drive a pool
// side below zero. This indicates bad input or a logic bug; callers wanting
// a best-effort preview opt into FallbackToZeroImpact instead.
var ErrNegativePoolUsd = errors.New("next pool usd is negative")

// Factors are the configured impact curve parameters, all 1e30-scaled.
type Factors struct {
	Positive *big.Int
	Negative *big.Int
	Exponent *big.Int
}

// applyImpactFactor evaluates the impact curve at an absolute imbalance:
// factor * (diffUsd ^ exponent). The pow step is the module's single
// documented float approximation (see numeric.ApplyExponentFactor).
func applyImpactFactor(diffUsd, factor, exponent *big.Int) *big.Int {
	return numeric.ApplyFactor(numeric.ApplyExponentFactor(diffUsd, exponent), factor)
}

// Evaluate computes the signed impact USD of moving the pool from the
// current long/short balance to the next one. Positive values favor the
// trader (the trade improved balance), negative values penalize it.
func Evaluate(currentLongUsd, currentShortUsd, nextLongUsd, nextShortUsd *big.Int, factors Factors) *big.Int {
	currentDiff := numeric.Abs(new(big.Int).Sub(currentLongUsd, currentShortUsd))
	nextDiff := numeric.Abs(new(big.Int).Sub(nextLongUsd, nextShortUsd))

	isSameSideRebalance := (currentLongUsd.Cmp(currentShortUsd) < 0) == (nextLongUsd.Cmp(nextShortUsd) < 0)

	if isSameSideRebalance {
		hasPositiveImpact := nextDiff.Cmp(currentDiff) < 0
		factor := factors.Negative
		if hasPositiveImpact {
			factor = factors.Positive
		}

		currentImpact := applyImpactFactor(currentDiff, factor, factors.Exponent)
		nextImpact := applyImpactFactor(nextDiff, factor, factors.Exponent)

		deltaDiff := numeric.Abs(new(big.Int).Sub(currentImpact, nextImpact))
		if hasPositiveImpact {
			return deltaDiff
		}
		return deltaDiff.Neg(deltaDiff)
	}

	// crossover: the imbalance flips sign; the positive leg is evaluated at
	// the current diff, the negative leg at the next diff
	positiveImpact := applyImpactFactor(currentDiff, factors.Positive, factors.Exponent)
	negativeImpact := applyImpactFactor(nextDiff, factors.Negative, factors.Exponent)

	deltaDiff := numeric.Abs(new(big.Int).Sub(positiveImpact, negativeImpact))
	if positiveImpact.Cmp(negativeImpact) > 0 {
		return deltaDiff
	}
	return deltaDiff.Neg(deltaDiff)
}

// SwapParams describe one swap's impact evaluation. LongPoolUsd and
// ShortPoolUsd are the current mid-price balances; the estimator passes its
// synthetic-overlay values so multi-hop scoring sees simulated state.
type SwapParams struct {
	Market        *markets.MarketInfo
	LongPoolUsd   *big.Int
	ShortPoolUsd  *big.Int
	UsdDeltaLong  *big.Int // signed
	UsdDeltaShort *big.Int // signed

	// FallbackToZeroImpact resolves negative next-pool values to zero impact
	// instead of failing.
	FallbackToZeroImpact bool
}

// SwapPriceImpactUsd applies the rebalance rule to a swap's pool deltas,
// then re-runs it against the market's virtual token inventory and keeps
// whichever result is worse for the trader.
func SwapPriceImpactUsd(p SwapParams) (*big.Int, error) {
	nextLongUsd := new(big.Int).Add(p.LongPoolUsd, p.UsdDeltaLong)
	nextShortUsd := new(big.Int).Add(p.ShortPoolUsd, p.UsdDeltaShort)

	if nextLongUsd.Sign() < 0 || nextShortUsd.Sign() < 0 {
		if p.FallbackToZeroImpact {
			return new(big.Int), nil
		}
		return nil, ErrNegativePoolUsd
	}

	factors := Factors{
		Positive: p.Market.SwapImpactFactorPositive,
		Negative: p.Market.SwapImpactFactorNegative,
		Exponent: p.Market.SwapImpactExponentFactor,
	}

	impactUsd := Evaluate(p.LongPoolUsd, p.ShortPoolUsd, nextLongUsd, nextShortUsd, factors)

	virtualImpactUsd, applicable, err := swapImpactOnVirtualInventory(p, factors)
	if err != nil {
		return nil, err
	}
	if applicable && virtualImpactUsd.Cmp(impactUsd) < 0 {
		return virtualImpactUsd, nil
	}
	return impactUsd, nil
}

// swapImpactOnVirtualInventory evaluates the same deltas against the
// cross-market virtual token balances, when the market carries them.
func swapImpactOnVirtualInventory(p SwapParams, factors Factors) (*big.Int, bool, error) {
	m := p.Market
	if m.VirtualPoolAmountForLongToken == nil || m.VirtualPoolAmountForShortToken == nil {
		return nil, false, nil
	}
	if m.VirtualPoolAmountForLongToken.Sign() == 0 && m.VirtualPoolAmountForShortToken.Sign() == 0 {
		return nil, false, nil
	}
	if m.LongToken == nil || m.ShortToken == nil {
		return nil, false, nil
	}

	virtualLongUsd := markets.ConvertToUsd(m.VirtualPoolAmountForLongToken, m.LongToken.Prices.Mid())
	virtualShortUsd := markets.ConvertToUsd(m.VirtualPoolAmountForShortToken, m.ShortToken.Prices.Mid())

	nextLongUsd := new(big.Int).Add(virtualLongUsd, p.UsdDeltaLong)
	nextShortUsd := new(big.Int).Add(virtualShortUsd, p.UsdDeltaShort)
	if nextLongUsd.Sign() < 0 || nextShortUsd.Sign() < 0 {
		if p.FallbackToZeroImpact {
			return new(big.Int), true, nil
		}
		return nil, false, ErrNegativePoolUsd
	}

	return Evaluate(virtualLongUsd, virtualShortUsd, nextLongUsd, nextShortUsd, factors), true, nil
}

// PositionPriceImpactUsd applies the rebalance rule to the open-interest
// book for a position change. sizeDeltaUsd is signed: positive when
// increasing, negative when decreasing.
func PositionPriceImpactUsd(m *markets.MarketInfo, sizeDeltaUsd *big.Int, isLong bool) *big.Int {
	longOI := m.OpenInterestUsd(true)
	shortOI := m.OpenInterestUsd(false)

	nextLongOI := new(big.Int).Set(longOI)
	nextShortOI := new(big.Int).Set(shortOI)
	if isLong {
		nextLongOI.Add(nextLongOI, sizeDeltaUsd)
	} else {
		nextShortOI.Add(nextShortOI, sizeDeltaUsd)
	}
	if nextLongOI.Sign() < 0 || nextShortOI.Sign() < 0 {
		return new(big.Int)
	}

	factors := Factors{
		Positive: m.PositionImpactFactorPositive,
		Negative: m.PositionImpactFactorNegative,
		Exponent: m.PositionImpactExponentFactor,
	}

	impactUsd := Evaluate(longOI, shortOI, nextLongOI, nextShortOI, factors)

	if virtualImpactUsd, applicable := positionImpactOnVirtualInventory(m, sizeDeltaUsd, isLong, factors); applicable {
		if virtualImpactUsd.Cmp(impactUsd) < 0 {
			return virtualImpactUsd
		}
	}
	return impactUsd
}

// positionImpactOnVirtualInventory evaluates the open-interest delta against
// the cross-market virtual position inventory. The virtual inventory is
// signed: positive values are net short exposure, negative values net long.
func positionImpactOnVirtualInventory(m *markets.MarketInfo, sizeDeltaUsd *big.Int, isLong bool, factors Factors) (*big.Int, bool) {
	if m.VirtualInventoryForPositions == nil || m.VirtualInventoryForPositions.Sign() == 0 {
		return nil, false
	}

	longOI := new(big.Int)
	shortOI := new(big.Int)
	if m.VirtualInventoryForPositions.Sign() > 0 {
		shortOI.Set(m.VirtualInventoryForPositions)
	} else {
		longOI.Abs(m.VirtualInventoryForPositions)
	}

	nextLongOI := new(big.Int).Set(longOI)
	nextShortOI := new(big.Int).Set(shortOI)
	if isLong {
		nextLongOI.Add(nextLongOI, sizeDeltaUsd)
	} else {
		nextShortOI.Add(nextShortOI, sizeDeltaUsd)
	}
	if nextLongOI.Sign() < 0 || nextShortOI.Sign() < 0 {
		return nil, false
	}

	return Evaluate(longOI, shortOI, nextLongOI, nextShortOI, factors), true
}

// CapPositionImpactUsd caps a positive position impact by the position
// impact pool and by the configured max positive impact factor. Negative
// impact passes through unchanged. The capped excess is returned alongside.
func CapPositionImpactUsd(m *markets.MarketInfo, impactUsd, sizeDeltaUsd *big.Int) (capped, cappedDiffUsd *big.Int) {
	if impactUsd.Sign() <= 0 {
		return new(big.Int).Set(impactUsd), new(big.Int)
	}

	capped = new(big.Int).Set(impactUsd)

	if m.IndexToken != nil && m.PositionImpactPoolAmount != nil {
		poolCapUsd := markets.ConvertToUsd(m.PositionImpactPoolAmount, m.IndexToken.Prices.Min)
		if capped.Cmp(poolCapUsd) > 0 {
			capped.Set(poolCapUsd)
		}
	}

	if m.MaxPositionImpactFactorPositive != nil && sizeDeltaUsd != nil {
		factorCapUsd := numeric.ApplyFactor(numeric.Abs(sizeDeltaUsd), m.MaxPositionImpactFactorPositive)
		if capped.Cmp(factorCapUsd) > 0 {
			capped.Set(factorCapUsd)
		}
	}

	cappedDiffUsd = new(big.Int).Sub(impactUsd, capped)
	return capped, cappedDiffUsd
}
