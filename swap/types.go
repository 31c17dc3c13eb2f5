// Package swap scores candidate swap paths: a per-hop estimator replicating
// the on-chain swap pricing (fees, rebalance price impact, impact-pool caps)
// and a router that picks the best path under the caller's ordering policy.
package swap

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/markets/graph"
)

var (
	// ErrTokenNotInMarket is returned when an estimated hop's tokens do not
	// match the market's collateral sides.
	ErrTokenNotInMarket = errors.New("hop tokens do not match market collateral sides")
)

// Stats is the outcome of a single hop through one market. Consumed
// immutably downstream; never mutated after creation.
type Stats struct {
	MarketAddress   common.Address
	TokenInAddress  common.Address
	TokenOutAddress common.Address

	AmountIn          *big.Int
	AmountInAfterFees *big.Int
	AmountOut         *big.Int

	UsdIn  *big.Int
	UsdOut *big.Int

	SwapFeeUsd          *big.Int
	SwapFeeAmount       *big.Int
	PriceImpactDeltaUsd *big.Int
	// CappedDiffUsd is the positive impact dropped because the swap impact
	// pool could not cover it. Capped, not failed.
	CappedDiffUsd *big.Int

	// IsOutLiquidity flags a hop whose output exceeds the available
	// liquidity of the out side; the router uses it to disqualify paths.
	IsOutLiquidity bool
}

// PathStats aggregates the hops of one candidate path.
type PathStats struct {
	SwapPath  graph.SwapPath
	SwapSteps []*Stats

	TokenInAddress  common.Address
	TokenOutAddress common.Address

	TotalSwapFeeUsd              *big.Int
	TotalSwapPriceImpactDeltaUsd *big.Int

	UsdOut    *big.Int
	AmountOut *big.Int

	IsOutLiquidity bool
}
