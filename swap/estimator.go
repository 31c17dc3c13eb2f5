package swap

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/fees"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/markets/graph"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
	"github.com/gmx-io/gmx-interface-sub018/swap/priceimpact"
)

// Estimator replicates the on-chain swap pricing for single hops and scores
// whole paths hop-by-hop. One Estimator serves one routing decision; it
// reads the snapshot and writes only to per-path synthetic overlays, so the
// caller's market data is never mutated.
type Estimator struct {
	ctx         *chains.ChainContext
	marketsData markets.MarketsData

	// FallbackToZeroImpact downgrades negative-pool invariant violations to
	// a zero-impact estimate instead of an error.
	fallbackToZeroImpact bool
}

// EstimatorOption configures an Estimator.
type EstimatorOption func(*Estimator)

// WithFallbackToZeroImpact opts into best-effort estimates when a simulated
// pool balance would go negative.
func WithFallbackToZeroImpact() EstimatorOption {
	return func(e *Estimator) { e.fallbackToZeroImpact = true }
}

// NewEstimator creates an Estimator over one snapshot.
func NewEstimator(ctx *chains.ChainContext, marketsData markets.MarketsData, opts ...EstimatorOption) *Estimator {
	e := &Estimator{ctx: ctx, marketsData: marketsData}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate prices one hop: usdIn through the given market, from tokenIn to
// tokenOut. The overlay supplies (and receives) the simulated pool balances;
// pass a fresh overlay for a standalone estimate.
func (e *Estimator) Estimate(
	overlay *SyntheticMarketOverlay,
	marketAddress common.Address,
	tokenInAddress, tokenOutAddress common.Address,
	usdIn *big.Int,
) (*Stats, error) {
	market, err := e.marketsData.Get(marketAddress)
	if err != nil {
		return nil, err
	}

	inType := market.TokenPoolType(e.ctx, tokenInAddress)
	outType := market.TokenPoolType(e.ctx, tokenOutAddress)
	if inType == markets.PoolNone || outType == markets.PoolNone {
		return nil, fmt.Errorf("%w: market %s, %s -> %s",
			ErrTokenNotInMarket, marketAddress.Hex(), tokenInAddress.Hex(), tokenOutAddress.Hex())
	}
	if inType == outType && !market.IsSameCollaterals {
		return nil, fmt.Errorf("%w: both tokens on the same side of market %s",
			ErrTokenNotInMarket, marketAddress.Hex())
	}

	inIsLong := inType == markets.PoolLong
	outIsLong := outType == markets.PoolLong
	if market.IsSameCollaterals {
		// single-collateral pool: both sides are the long token; direction
		// is irrelevant and the balance cannot change
		outIsLong = true
		inIsLong = true
	}

	tokenIn := market.CollateralToken(inIsLong)
	tokenOut := market.CollateralToken(outIsLong)
	priceIn := tokenIn.Prices.Mid()
	priceOut := tokenOut.Prices.Mid()

	amountIn := markets.ConvertToTokenAmount(usdIn, priceIn)

	// price impact over the synthetic balances, deltas at the pre-fee size
	var priceImpactDeltaUsd *big.Int
	longPoolUsd, shortPoolUsd := overlay.PoolUsd(market)
	if market.IsSameCollaterals {
		priceImpactDeltaUsd = new(big.Int)
	} else {
		usdDeltaLong := new(big.Int).Neg(usdIn)
		usdDeltaShort := new(big.Int).Set(usdIn)
		if inIsLong {
			usdDeltaLong, usdDeltaShort = usdDeltaShort, usdDeltaLong
		}
		priceImpactDeltaUsd, err = priceimpact.SwapPriceImpactUsd(priceimpact.SwapParams{
			Market:               market,
			LongPoolUsd:          longPoolUsd,
			ShortPoolUsd:         shortPoolUsd,
			UsdDeltaLong:         usdDeltaLong,
			UsdDeltaShort:        usdDeltaShort,
			FallbackToZeroImpact: e.fallbackToZeroImpact,
		})
		if err != nil {
			return nil, err
		}
	}

	balanceWasImproved := priceImpactDeltaUsd.Sign() > 0
	swapFeeUsd := fees.SwapFeeUsd(market, usdIn, balanceWasImproved, false)
	swapFeeAmount := markets.ConvertToTokenAmount(swapFeeUsd, priceIn)
	amountInAfterFees := new(big.Int).Sub(amountIn, swapFeeAmount)

	usdOut := new(big.Int).Sub(usdIn, swapFeeUsd)
	cappedDiffUsd := new(big.Int)

	if priceImpactDeltaUsd.Sign() > 0 {
		// positive impact is paid out of the swap impact pool of the out
		// side; anything beyond the pool is silently dropped
		impactCapUsd := markets.ConvertToUsd(market.SwapImpactPoolAmount(outIsLong), priceOut)
		cappedImpactUsd := numeric.Min(priceImpactDeltaUsd, impactCapUsd)
		cappedDiffUsd.Sub(priceImpactDeltaUsd, cappedImpactUsd)
		usdOut.Add(usdOut, cappedImpactUsd)
	} else {
		usdOut.Add(usdOut, priceImpactDeltaUsd)
	}
	if usdOut.Sign() < 0 {
		usdOut.SetInt64(0)
	}

	amountOut := markets.ConvertToTokenAmount(usdOut, priceOut)

	isOutLiquidity := false
	if !market.IsSameCollaterals {
		isOutLiquidity = usdOut.Cmp(market.AvailableSwapLiquidityUsd(outIsLong)) > 0

		// record the simulated post-hop balances for later hops
		if inIsLong {
			longPoolUsd.Add(longPoolUsd, usdIn)
			shortPoolUsd.Sub(shortPoolUsd, usdOut)
		} else {
			shortPoolUsd.Add(shortPoolUsd, usdIn)
			longPoolUsd.Sub(longPoolUsd, usdOut)
		}
		overlay.Apply(marketAddress, longPoolUsd, shortPoolUsd)
	}

	return &Stats{
		MarketAddress:       marketAddress,
		TokenInAddress:      tokenInAddress,
		TokenOutAddress:     tokenOutAddress,
		AmountIn:            amountIn,
		AmountInAfterFees:   amountInAfterFees,
		AmountOut:           amountOut,
		UsdIn:               new(big.Int).Set(usdIn),
		UsdOut:              usdOut,
		SwapFeeUsd:          swapFeeUsd,
		SwapFeeAmount:       swapFeeAmount,
		PriceImpactDeltaUsd: priceImpactDeltaUsd,
		CappedDiffUsd:       cappedDiffUsd,
		IsOutLiquidity:      isOutLiquidity,
	}, nil
}

// EstimatePath scores a whole candidate path: each hop's USD output feeds
// the next hop's input, over a fresh overlay so independent candidates never
// observe each other's simulated state.
func (e *Estimator) EstimatePath(path graph.SwapPath, fromTokenAddress, toTokenAddress common.Address, usdIn *big.Int) (*PathStats, error) {
	stats := &PathStats{
		SwapPath:                     path,
		TokenInAddress:               fromTokenAddress,
		TokenOutAddress:              toTokenAddress,
		TotalSwapFeeUsd:              new(big.Int),
		TotalSwapPriceImpactDeltaUsd: new(big.Int),
	}

	if len(path) == 0 {
		// no swap needed: value passes through unchanged
		toToken, err := e.tokenBySide(toTokenAddress)
		if err != nil {
			return nil, err
		}
		stats.UsdOut = new(big.Int).Set(usdIn)
		stats.AmountOut = markets.ConvertToTokenAmount(usdIn, toToken.Prices.Mid())
		return stats, nil
	}

	overlay := NewSyntheticMarketOverlay()
	currentToken := fromTokenAddress
	currentUsd := usdIn

	for _, marketAddress := range path {
		market, err := e.marketsData.Get(marketAddress)
		if err != nil {
			return nil, err
		}
		tokenOut, err := market.OppositeCollateral(e.ctx, currentToken)
		if err != nil {
			return nil, err
		}

		hop, err := e.Estimate(overlay, marketAddress, currentToken, tokenOut.Address, currentUsd)
		if err != nil {
			return nil, err
		}

		stats.SwapSteps = append(stats.SwapSteps, hop)
		stats.TotalSwapFeeUsd.Add(stats.TotalSwapFeeUsd, hop.SwapFeeUsd)
		stats.TotalSwapPriceImpactDeltaUsd.Add(stats.TotalSwapPriceImpactDeltaUsd, hop.PriceImpactDeltaUsd)
		if hop.IsOutLiquidity {
			stats.IsOutLiquidity = true
		}

		currentToken = tokenOut.Address
		currentUsd = hop.UsdOut
	}

	last := stats.SwapSteps[len(stats.SwapSteps)-1]
	stats.UsdOut = new(big.Int).Set(last.UsdOut)
	stats.AmountOut = new(big.Int).Set(last.AmountOut)
	return stats, nil
}

// tokenBySide finds a token record by scanning market collateral sides;
// used only for the empty-path passthrough where no market is involved.
func (e *Estimator) tokenBySide(addr common.Address) (*markets.Token, error) {
	normalized := e.ctx.NormalizeTokenAddress(addr)
	for _, market := range e.marketsData {
		if !market.IsHydrated() {
			continue
		}
		if e.ctx.NormalizeTokenAddress(market.LongTokenAddress) == normalized {
			return market.LongToken, nil
		}
		if e.ctx.NormalizeTokenAddress(market.ShortTokenAddress) == normalized {
			return market.ShortToken, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", markets.ErrTokenNotFound, addr.Hex())
}
