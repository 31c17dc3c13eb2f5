// Package trade composes the router, price-impact and fee math into the
// final trade amounts: the literal numeric arguments of the on-chain call
// for increasing a position, decreasing it, or swapping. Every value here is
// recomputed from scratch on each call; nothing is cached across calls.
package trade

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/swap"
)

var (
	// ErrCollateralMismatch is returned when the requested collateral token
	// is not one of the market's two collateral sides.
	ErrCollateralMismatch = errors.New("collateral token is not a pool side of the market")
	// ErrReceiveTokenRequired is returned when a take-profit/stop-loss
	// request omits the token the proceeds should be received in.
	ErrReceiveTokenRequired = errors.New("receive token is required for take-profit/stop-loss orders")
	// ErrZeroSize is returned when a calculator is asked for a zero-sized trade.
	ErrZeroSize = errors.New("trade size must be greater than zero")
)

// OrderType mirrors the on-chain order kinds this module produces arguments for.
type OrderType int

const (
	OrderMarketSwap OrderType = iota
	OrderLimitSwap
	OrderMarketIncrease
	OrderLimitIncrease
	OrderMarketDecrease
	OrderLimitDecrease
	OrderStopLossDecrease
)

// DecreasePositionSwapType selects what the proceeds of a decrease are
// swapped to on settlement.
type DecreasePositionSwapType int

const (
	DecreaseSwapNone DecreasePositionSwapType = iota
	DecreaseSwapPnlTokenToCollateralToken
	DecreaseSwapCollateralTokenToPnlToken
)

// IncreasePositionAmounts is the terminal data product of the increase
// calculator.
type IncreasePositionAmounts struct {
	InitialCollateralAmount *big.Int // pay token units
	InitialCollateralUsd    *big.Int

	CollateralDeltaAmount *big.Int // collateral token units, net of swap cost
	CollateralDeltaUsd    *big.Int

	SwapPathStats *swap.PathStats // nil when no swap was needed

	SizeDeltaUsd      *big.Int
	SizeDeltaInTokens *big.Int

	EntryPrice              *big.Int
	TriggerPrice            *big.Int // nil for market orders
	AcceptablePrice         *big.Int
	AcceptablePriceDeltaBps *big.Int

	PositionFeeUsd *big.Int
	FeeDiscountUsd *big.Int
	UIFeeUsd       *big.Int

	PositionPriceImpactDeltaUsd *big.Int
	CappedImpactDiffUsd         *big.Int

	OrderType OrderType
}

// DecreasePositionAmounts is the terminal data product of the decrease
// calculator.
type DecreasePositionAmounts struct {
	SizeDeltaUsd      *big.Int
	SizeDeltaInTokens *big.Int

	CollateralDeltaAmount *big.Int
	CollateralDeltaUsd    *big.Int

	EstimatedPnl *big.Int // full position, at the exit price
	RealizedPnl  *big.Int // the closed portion

	PositionFeeUsd  *big.Int
	FeeDiscountUsd  *big.Int
	UIFeeUsd        *big.Int
	BorrowingFeeUsd *big.Int
	FundingFeeUsd   *big.Int

	PositionPriceImpactDeltaUsd *big.Int

	ExitPrice               *big.Int
	TriggerPrice            *big.Int
	AcceptablePrice         *big.Int
	AcceptablePriceDeltaBps *big.Int

	ReceiveTokenAddress common.Address
	ReceiveUsd          *big.Int
	ReceiveTokenAmount  *big.Int

	DecreaseSwapType DecreasePositionSwapType
	OrderType        OrderType
}

// SwapAmounts is the terminal data product of the swap calculators.
type SwapAmounts struct {
	AmountIn *big.Int
	UsdIn    *big.Int

	AmountOut *big.Int
	UsdOut    *big.Int

	PriceIn  *big.Int
	PriceOut *big.Int

	// MinOutputAmount is the slippage-adjusted floor the order is submitted with.
	MinOutputAmount *big.Int

	SwapPathStats *swap.PathStats // nil for wrap/unwrap and same-token

	OrderType OrderType
}
