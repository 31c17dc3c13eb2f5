package trade

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/fees"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
	"github.com/gmx-io/gmx-interface-sub018/swap"
	"github.com/gmx-io/gmx-interface-sub018/swap/priceimpact"
)

// SizingStrategy selects how the increase size is derived from the inputs.
type SizingStrategy int

const (
	// SizeByCollateral derives the size from the paid collateral and a
	// leverage ratio in basis points.
	SizeByCollateral SizingStrategy = iota
	// SizeBySize treats the raw index-token amount as the target size delta
	// and derives the required collateral from the leverage ratio.
	SizeBySize
)

// IncreaseSizing is a tagged sizing request; use the constructors.
type IncreaseSizing struct {
	Strategy SizingStrategy

	PayAmount        *big.Int // SizeByCollateral: pay token units
	IndexTokenAmount *big.Int // SizeBySize: index token units
	LeverageBps      *big.Int
}

// SizingByCollateral sizes the position from a pay amount and leverage.
func SizingByCollateral(payAmount, leverageBps *big.Int) IncreaseSizing {
	return IncreaseSizing{Strategy: SizeByCollateral, PayAmount: payAmount, LeverageBps: leverageBps}
}

// SizingBySize sizes the position from a target index-token delta and leverage.
func SizingBySize(indexTokenAmount, leverageBps *big.Int) IncreaseSizing {
	return IncreaseSizing{Strategy: SizeBySize, IndexTokenAmount: indexTokenAmount, LeverageBps: leverageBps}
}

// IncreasePositionParams carries the inputs of the increase calculator.
type IncreasePositionParams struct {
	Ctx         *chains.ChainContext
	MarketsData markets.MarketsData
	TokensData  markets.TokensData

	MarketAddress          common.Address
	PayTokenAddress        common.Address
	CollateralTokenAddress common.Address
	IsLong                 bool

	Sizing IncreaseSizing

	// Router converts the pay token to the collateral token when they differ.
	// May be nil when no swap is needed.
	Router      *swap.Router
	FindOptions *swap.FindOptions

	// TriggerPrice turns the request into a limit increase.
	TriggerPrice *big.Int

	AllowedSlippageBps int64
	// FixedAcceptablePriceImpactBps overrides the impact-derived acceptable
	// price offset for limit orders.
	FixedAcceptablePriceImpactBps *big.Int

	ReferralDiscountFactor *big.Int
	UIFeeFactor            *big.Int
}

// GetIncreasePositionAmounts computes the full argument set for an increase
// order. A nil result with a nil error means the pay token cannot be routed
// to the collateral token.
func GetIncreasePositionAmounts(p IncreasePositionParams) (*IncreasePositionAmounts, error) {
	m, err := p.MarketsData.Get(p.MarketAddress)
	if err != nil {
		return nil, err
	}
	if m.TokenPoolType(p.Ctx, p.CollateralTokenAddress) == markets.PoolNone {
		return nil, fmt.Errorf("%w: market %s token %s", ErrCollateralMismatch, p.MarketAddress, p.CollateralTokenAddress)
	}
	payToken, err := p.TokensData.Get(p.PayTokenAddress)
	if err != nil {
		return nil, err
	}
	collateralToken, err := p.TokensData.Get(p.Ctx.NormalizeTokenAddress(p.CollateralTokenAddress))
	if err != nil {
		return nil, err
	}
	if m.IndexToken == nil {
		return nil, fmt.Errorf("%w: market %s index token", markets.ErrTokenNotFound, p.MarketAddress)
	}

	out := &IncreasePositionAmounts{OrderType: OrderMarketIncrease}
	markPrice := m.IndexToken.Prices.Pick(p.IsLong)
	entryBasis := markPrice
	if p.TriggerPrice != nil {
		out.OrderType = OrderLimitIncrease
		out.TriggerPrice = new(big.Int).Set(p.TriggerPrice)
		entryBasis = p.TriggerPrice
	}

	var sizeDeltaUsd, collateralDeltaUsd, collateralDeltaAmount *big.Int
	switch p.Sizing.Strategy {
	case SizeBySize:
		if p.Sizing.IndexTokenAmount == nil || p.Sizing.IndexTokenAmount.Sign() <= 0 {
			return nil, ErrZeroSize
		}
		sizeDeltaUsd = markets.ConvertToUsd(p.Sizing.IndexTokenAmount, entryBasis)
		collateralDeltaUsd = numeric.MulDiv(sizeDeltaUsd, numeric.BasisPointsDivisor, p.Sizing.LeverageBps)
		swapped, err := swapPayToCollateral(p, payToken, collateralToken, nil, collateralDeltaUsd)
		if err != nil || swapped == nil {
			return nil, err
		}
		out.SwapPathStats = swapped.SwapPathStats
		out.InitialCollateralAmount = swapped.AmountIn
		out.InitialCollateralUsd = swapped.UsdIn
		collateralDeltaAmount = swapped.AmountOut
	default:
		if p.Sizing.PayAmount == nil || p.Sizing.PayAmount.Sign() <= 0 {
			return nil, ErrZeroSize
		}
		swapped, err := swapPayToCollateral(p, payToken, collateralToken, p.Sizing.PayAmount, nil)
		if err != nil || swapped == nil {
			return nil, err
		}
		out.SwapPathStats = swapped.SwapPathStats
		out.InitialCollateralAmount = swapped.AmountIn
		out.InitialCollateralUsd = swapped.UsdIn
		collateralDeltaAmount = swapped.AmountOut
		collateralDeltaUsd = swapped.UsdOut
		sizeDeltaUsd = numeric.MulDiv(collateralDeltaUsd, p.Sizing.LeverageBps, numeric.BasisPointsDivisor)
	}
	if collateralDeltaAmount == nil {
		collateralDeltaAmount = markets.ConvertToTokenAmount(collateralDeltaUsd, collateralToken.Prices.Pick(false))
	}

	impactUsd := priceimpact.PositionPriceImpactUsd(m, sizeDeltaUsd, p.IsLong)
	cappedImpactUsd, cappedDiffUsd := priceimpact.CapPositionImpactUsd(m, impactUsd, sizeDeltaUsd)
	out.PositionPriceImpactDeltaUsd = cappedImpactUsd
	out.CappedImpactDiffUsd = cappedDiffUsd

	fee := fees.PositionFeeUsd(m, sizeDeltaUsd, cappedImpactUsd.Sign() > 0, p.ReferralDiscountFactor, p.UIFeeFactor)
	out.PositionFeeUsd = fee.FeeUsd
	out.FeeDiscountUsd = fee.DiscountUsd
	out.UIFeeUsd = fee.UIFeeUsd

	// Size in tokens is priced at the entry basis, then shifted by the impact
	// expressed in index tokens. A long receives more tokens on positive
	// impact; a short owes fewer.
	sizeDeltaInTokens := markets.ConvertToTokenAmount(sizeDeltaUsd, entryBasis)
	impactAmount := markets.ConvertToTokenAmount(cappedImpactUsd, entryBasis)
	if p.IsLong {
		sizeDeltaInTokens.Add(sizeDeltaInTokens, impactAmount)
	} else {
		sizeDeltaInTokens.Sub(sizeDeltaInTokens, impactAmount)
	}
	if sizeDeltaInTokens.Sign() < 0 {
		sizeDeltaInTokens.SetInt64(0)
	}

	out.SizeDeltaUsd = sizeDeltaUsd
	out.SizeDeltaInTokens = sizeDeltaInTokens
	out.CollateralDeltaUsd = collateralDeltaUsd
	out.CollateralDeltaAmount = collateralDeltaAmount

	out.EntryPrice = executionPrice(sizeDeltaUsd, sizeDeltaInTokens, entryBasis)
	out.AcceptablePrice = acceptableIncreasePrice(p, out.EntryPrice)
	out.AcceptablePriceDeltaBps = numeric.ToBasisPoints(
		new(big.Int).Sub(out.AcceptablePrice, markPrice), markPrice)
	return out, nil
}

// executionPrice divides the usd delta by the token delta, which lands on the
// same scale token prices use. Falls back to the basis price on a zero delta.
func executionPrice(sizeDeltaUsd, sizeDeltaInTokens, basis *big.Int) *big.Int {
	if sizeDeltaInTokens.Sign() == 0 {
		return new(big.Int).Set(basis)
	}
	return new(big.Int).Quo(sizeDeltaUsd, sizeDeltaInTokens)
}

func acceptableIncreasePrice(p IncreasePositionParams, entryPrice *big.Int) *big.Int {
	if p.TriggerPrice != nil && p.FixedAcceptablePriceImpactBps != nil {
		numerator := new(big.Int).Set(numeric.BasisPointsDivisor)
		if p.IsLong {
			numerator.Add(numerator, p.FixedAcceptablePriceImpactBps)
		} else {
			numerator.Sub(numerator, p.FixedAcceptablePriceImpactBps)
		}
		return numeric.MulDiv(p.TriggerPrice, numerator, numeric.BasisPointsDivisor)
	}
	return ApplySlippageToPrice(p.AllowedSlippageBps, entryPrice, true, p.IsLong)
}

// swapPayToCollateral routes the pay token into the collateral token, sizing
// either by the pay amount or by the target collateral usd. Returns nil when
// no route exists.
func swapPayToCollateral(p IncreasePositionParams, payToken, collateralToken *markets.Token, payAmount, targetCollateralUsd *big.Int) (*SwapAmounts, error) {
	sp := SwapOrderParams{
		Ctx:                    p.Ctx,
		TokenIn:                payToken,
		TokenOut:               collateralToken,
		Router:                 p.Router,
		FindOptions:            p.FindOptions,
		AllowedSwapSlippageBps: p.AllowedSlippageBps,
	}
	if payAmount != nil {
		sp.AmountIn = payAmount
		return GetSwapAmountsByFromValue(sp)
	}
	sp.AmountOut = markets.ConvertToTokenAmount(targetCollateralUsd, collateralToken.Prices.Max)
	return GetSwapAmountsByToValue(sp)
}
