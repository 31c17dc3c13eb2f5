package trade

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/swap"
)

// SwapOrderParams carries the inputs of the swap amount calculators. Exactly
// one of AmountIn (by-from-value) or AmountOut (by-to-value) is read,
// depending on which calculator is called.
type SwapOrderParams struct {
	Ctx *chains.ChainContext

	TokenIn  *markets.Token
	TokenOut *markets.Token

	AmountIn  *big.Int
	AmountOut *big.Int

	// Router finds and prices the path between the two tokens. May be nil
	// only for wrap/unwrap and same-token requests.
	Router      *swap.Router
	FindOptions *swap.FindOptions

	IsLimit                bool
	AllowedSwapSlippageBps int64
}

// GetSwapAmountsByFromValue computes swap amounts from a fixed input amount.
// A nil result with a nil error means no route exists for the pair.
func GetSwapAmountsByFromValue(p SwapOrderParams) (*SwapAmounts, error) {
	if p.AmountIn == nil || p.AmountIn.Sign() <= 0 {
		return nil, ErrZeroSize
	}
	orderType := OrderMarketSwap
	if p.IsLimit {
		orderType = OrderLimitSwap
	}
	priceIn := p.TokenIn.Prices.Min
	priceOut := p.TokenOut.Prices.Max

	if isSameOrWrap(p.Ctx, p.TokenIn, p.TokenOut) {
		// Wrap, unwrap and same-token transfers are 1:1 with no fee or impact.
		amountIn := new(big.Int).Set(p.AmountIn)
		usd := markets.ConvertToUsd(amountIn, priceIn)
		return &SwapAmounts{
			AmountIn:        amountIn,
			UsdIn:           usd,
			AmountOut:       new(big.Int).Set(amountIn),
			UsdOut:          new(big.Int).Set(usd),
			PriceIn:         new(big.Int).Set(priceIn),
			PriceOut:        new(big.Int).Set(priceIn),
			MinOutputAmount: new(big.Int).Set(amountIn),
			OrderType:       orderType,
		}, nil
	}

	usdIn := markets.ConvertToUsd(p.AmountIn, priceIn)
	stats := findPath(p, usdIn)
	if stats == nil {
		return nil, nil
	}
	return &SwapAmounts{
		AmountIn:        new(big.Int).Set(p.AmountIn),
		UsdIn:           usdIn,
		AmountOut:       new(big.Int).Set(stats.AmountOut),
		UsdOut:          new(big.Int).Set(stats.UsdOut),
		PriceIn:         new(big.Int).Set(priceIn),
		PriceOut:        new(big.Int).Set(priceOut),
		MinOutputAmount: ApplySlippageToMinOut(p.AllowedSwapSlippageBps, stats.AmountOut),
		SwapPathStats:   stats,
		OrderType:       orderType,
	}, nil
}

// GetSwapAmountsByToValue computes swap amounts for a fixed desired output.
// The input is sized so the route yields at least the requested output under
// the current snapshot, and MinOutputAmount is the requested amount itself.
// A nil result with a nil error means no route exists for the pair.
func GetSwapAmountsByToValue(p SwapOrderParams) (*SwapAmounts, error) {
	if p.AmountOut == nil || p.AmountOut.Sign() <= 0 {
		return nil, ErrZeroSize
	}
	orderType := OrderMarketSwap
	if p.IsLimit {
		orderType = OrderLimitSwap
	}
	priceIn := p.TokenIn.Prices.Min
	priceOut := p.TokenOut.Prices.Max

	if isSameOrWrap(p.Ctx, p.TokenIn, p.TokenOut) {
		amountOut := new(big.Int).Set(p.AmountOut)
		usd := markets.ConvertToUsd(amountOut, priceIn)
		return &SwapAmounts{
			AmountIn:        new(big.Int).Set(amountOut),
			UsdIn:           usd,
			AmountOut:       amountOut,
			UsdOut:          new(big.Int).Set(usd),
			PriceIn:         new(big.Int).Set(priceIn),
			PriceOut:        new(big.Int).Set(priceIn),
			MinOutputAmount: new(big.Int).Set(amountOut),
			OrderType:       orderType,
		}, nil
	}

	usdOutTarget := markets.ConvertToUsd(p.AmountOut, priceOut)

	// First pass prices the route at the target size to learn its cost; the
	// cost of the slightly larger final input is never smaller, so the sized
	// input stays at or below what a by-from-value quote of it would need.
	probe := findPath(p, usdOutTarget)
	if probe == nil {
		return nil, nil
	}
	costUsd := new(big.Int).Sub(usdOutTarget, probe.UsdOut)
	if costUsd.Sign() < 0 {
		costUsd.SetInt64(0)
	}
	usdIn := new(big.Int).Add(usdOutTarget, costUsd)
	stats := findPath(p, usdIn)
	if stats == nil {
		return nil, nil
	}

	amountIn := markets.ConvertToTokenAmountRoundUpMagnitude(usdIn, priceIn)
	return &SwapAmounts{
		AmountIn:        amountIn,
		UsdIn:           usdIn,
		AmountOut:       new(big.Int).Set(stats.AmountOut),
		UsdOut:          new(big.Int).Set(stats.UsdOut),
		PriceIn:         new(big.Int).Set(priceIn),
		PriceOut:        new(big.Int).Set(priceOut),
		MinOutputAmount: new(big.Int).Set(p.AmountOut),
		SwapPathStats:   stats,
		OrderType:       orderType,
	}, nil
}

func isSameOrWrap(ctx *chains.ChainContext, tokenIn, tokenOut *markets.Token) bool {
	if tokenIn.Address == tokenOut.Address {
		return true
	}
	return ctx != nil && ctx.IsWrapOrUnwrap(tokenIn.Address, tokenOut.Address)
}

func findPath(p SwapOrderParams, usdIn *big.Int) *swap.PathStats {
	if p.Router == nil {
		return nil
	}
	return p.Router.FindSwapPath(usdIn, p.FindOptions)
}
