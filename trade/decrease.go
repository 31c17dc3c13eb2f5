package trade

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/fees"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
	"github.com/gmx-io/gmx-interface-sub018/swap/priceimpact"
)

// DecreasePositionParams carries the inputs of the decrease calculator.
type DecreasePositionParams struct {
	Ctx         *chains.ChainContext
	MarketsData markets.MarketsData
	TokensData  markets.TokensData

	Position *Position

	// CloseSizeUsd is clamped to the position size.
	CloseSizeUsd *big.Int

	// TriggerPrice turns the request into a take-profit or stop-loss order;
	// which one follows from the trigger's side of the mark price.
	TriggerPrice *big.Int
	// IsTPSL marks a take-profit/stop-loss order form, which must name the
	// token the proceeds are received in.
	IsTPSL bool

	// ReceiveTokenAddress defaults to the position collateral token.
	ReceiveTokenAddress *common.Address

	AllowedSlippageBps            int64
	FixedAcceptablePriceImpactBps *big.Int

	ReferralDiscountFactor *big.Int
	UIFeeFactor            *big.Int
}

// GetDecreasePositionAmounts computes the full argument set for a decrease
// order, including realized PnL and the settled receive amount.
func GetDecreasePositionAmounts(p DecreasePositionParams) (*DecreasePositionAmounts, error) {
	pos := p.Position
	m, err := p.MarketsData.Get(pos.MarketAddress)
	if err != nil {
		return nil, err
	}
	if m.IndexToken == nil {
		return nil, fmt.Errorf("%w: market %s index token", markets.ErrTokenNotFound, pos.MarketAddress)
	}
	if p.CloseSizeUsd == nil || p.CloseSizeUsd.Sign() <= 0 {
		return nil, ErrZeroSize
	}
	if p.IsTPSL && p.ReceiveTokenAddress == nil {
		return nil, ErrReceiveTokenRequired
	}

	receiveTokenAddress := pos.CollateralTokenAddress
	if p.ReceiveTokenAddress != nil {
		receiveTokenAddress = *p.ReceiveTokenAddress
	}
	receiveToken, err := p.TokensData.Get(p.Ctx.NormalizeTokenAddress(receiveTokenAddress))
	if err != nil {
		return nil, err
	}
	collateralToken, err := p.TokensData.Get(p.Ctx.NormalizeTokenAddress(pos.CollateralTokenAddress))
	if err != nil {
		return nil, err
	}

	out := &DecreasePositionAmounts{OrderType: OrderMarketDecrease}

	// Closing a long sells at the bid, closing a short buys at the ask.
	markPrice := m.IndexToken.Prices.Pick(!pos.IsLong)
	exitBasis := markPrice
	if p.TriggerPrice != nil {
		out.TriggerPrice = new(big.Int).Set(p.TriggerPrice)
		exitBasis = p.TriggerPrice
		if triggerAboveMark := p.TriggerPrice.Cmp(markPrice) > 0; triggerAboveMark == pos.IsLong {
			out.OrderType = OrderLimitDecrease
		} else {
			out.OrderType = OrderStopLossDecrease
		}
	}

	sizeDeltaUsd := numeric.Min(p.CloseSizeUsd, pos.SizeInUsd)
	isFullClose := sizeDeltaUsd.Cmp(pos.SizeInUsd) == 0

	// The closed token amount is proportional to the closed usd size.
	sizeDeltaInTokens := numeric.MulDiv(pos.SizeInTokens, sizeDeltaUsd, pos.SizeInUsd)

	impactUsd := priceimpact.PositionPriceImpactUsd(m, numeric.Neg(sizeDeltaUsd), pos.IsLong)
	cappedImpactUsd, _ := priceimpact.CapPositionImpactUsd(m, impactUsd, sizeDeltaUsd)
	out.PositionPriceImpactDeltaUsd = cappedImpactUsd

	fee := fees.PositionFeeUsd(m, sizeDeltaUsd, cappedImpactUsd.Sign() > 0, p.ReferralDiscountFactor, p.UIFeeFactor)
	out.PositionFeeUsd = fee.FeeUsd
	out.FeeDiscountUsd = fee.DiscountUsd
	out.UIFeeUsd = fee.UIFeeUsd
	out.BorrowingFeeUsd = usdOrZero(pos.PendingBorrowingFeesUsd)
	out.FundingFeeUsd = usdOrZero(pos.PendingFundingFeesUsd)

	estimatedPnl := pos.PnlUsd(exitBasis)
	realizedPnl := numeric.MulDiv(estimatedPnl, sizeDeltaUsd, pos.SizeInUsd)
	out.EstimatedPnl = estimatedPnl
	out.RealizedPnl = realizedPnl

	collateralDeltaAmount := numeric.MulDiv(pos.CollateralAmount, sizeDeltaUsd, pos.SizeInUsd)
	if isFullClose {
		collateralDeltaAmount = new(big.Int).Set(pos.CollateralAmount)
	}
	collateralPrice := collateralToken.Prices.Pick(false)
	collateralDeltaUsd := markets.ConvertToUsd(collateralDeltaAmount, collateralPrice)
	out.CollateralDeltaAmount = collateralDeltaAmount
	out.CollateralDeltaUsd = collateralDeltaUsd

	receiveUsd := new(big.Int).Add(collateralDeltaUsd, realizedPnl)
	receiveUsd.Add(receiveUsd, cappedImpactUsd)
	receiveUsd.Sub(receiveUsd, fee.TotalUsd())
	receiveUsd.Sub(receiveUsd, out.BorrowingFeeUsd)
	receiveUsd.Sub(receiveUsd, out.FundingFeeUsd)
	if receiveUsd.Sign() < 0 {
		receiveUsd.SetInt64(0)
	}
	out.ReceiveTokenAddress = receiveTokenAddress
	out.ReceiveUsd = receiveUsd
	out.ReceiveTokenAmount = markets.ConvertToTokenAmount(receiveUsd, receiveToken.Prices.Pick(false))

	out.SizeDeltaUsd = sizeDeltaUsd
	out.SizeDeltaInTokens = sizeDeltaInTokens
	out.ExitPrice = decreaseExecutionPrice(exitBasis, cappedImpactUsd, sizeDeltaUsd, pos.IsLong)
	out.AcceptablePrice = acceptableDecreasePrice(p, pos, out.ExitPrice)
	out.AcceptablePriceDeltaBps = numeric.ToBasisPoints(
		new(big.Int).Sub(out.AcceptablePrice, markPrice), markPrice)
	out.DecreaseSwapType = decreaseSwapType(p.Ctx, m, pos)
	return out, nil
}

// decreaseExecutionPrice spreads the impact over the closed size on top of
// the basis price. Positive impact closes a long higher and a short lower.
func decreaseExecutionPrice(basis, impactUsd, sizeDeltaUsd *big.Int, isLong bool) *big.Int {
	adjust := numeric.MulDiv(impactUsd, basis, sizeDeltaUsd)
	if isLong {
		return new(big.Int).Add(basis, adjust)
	}
	return new(big.Int).Sub(basis, adjust)
}

func acceptableDecreasePrice(p DecreasePositionParams, pos *Position, exitPrice *big.Int) *big.Int {
	if p.TriggerPrice != nil && p.FixedAcceptablePriceImpactBps != nil {
		numerator := new(big.Int).Set(numeric.BasisPointsDivisor)
		if pos.IsLong {
			numerator.Sub(numerator, p.FixedAcceptablePriceImpactBps)
		} else {
			numerator.Add(numerator, p.FixedAcceptablePriceImpactBps)
		}
		return numeric.MulDiv(p.TriggerPrice, numerator, numeric.BasisPointsDivisor)
	}
	return ApplySlippageToPrice(p.AllowedSlippageBps, exitPrice, false, pos.IsLong)
}

// decreaseSwapType asks for the profit token to be swapped into the
// collateral token when the two differ, so the order settles in one token.
func decreaseSwapType(ctx *chains.ChainContext, m *markets.MarketInfo, pos *Position) DecreasePositionSwapType {
	pnlTokenAddress := m.ShortTokenAddress
	if pos.IsLong {
		pnlTokenAddress = m.LongTokenAddress
	}
	if ctx.EquivalentTokens(pnlTokenAddress, pos.CollateralTokenAddress) {
		return DecreaseSwapNone
	}
	return DecreaseSwapPnlTokenToCollateralToken
}

func usdOrZero(v *big.Int) *big.Int {
	if v == nil {
		return numeric.BigZero()
	}
	return new(big.Int).Set(v)
}
