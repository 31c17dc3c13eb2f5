package trade

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// Position is the subset of on-chain position state the decrease calculator
// needs. Pending fee fields carry the accrued borrowing and funding charges
// as reported by the reader at snapshot time.
type Position struct {
	MarketAddress          common.Address
	CollateralTokenAddress common.Address
	IsLong                 bool

	SizeInUsd        *big.Int
	SizeInTokens     *big.Int
	CollateralAmount *big.Int

	PendingBorrowingFeesUsd *big.Int
	PendingFundingFeesUsd   *big.Int
}

// PnlUsd values the position at markPrice. Positive means the position is
// in profit.
func (p *Position) PnlUsd(markPrice *big.Int) *big.Int {
	if p.SizeInTokens == nil || markPrice == nil || p.SizeInUsd == nil {
		return numeric.BigZero()
	}
	valueUsd := markets.ConvertToUsd(p.SizeInTokens, markPrice)
	if p.IsLong {
		return valueUsd.Sub(valueUsd, p.SizeInUsd)
	}
	return new(big.Int).Sub(p.SizeInUsd, valueUsd)
}

// CollateralUsd values the position collateral at price.
func (p *Position) CollateralUsd(price *big.Int) *big.Int {
	return markets.ConvertToUsd(p.CollateralAmount, price)
}

// LeverageBps returns size over collateral in basis points, or zero when
// collateral is zero.
func LeverageBps(sizeUsd, collateralUsd *big.Int) *big.Int {
	if sizeUsd == nil || collateralUsd == nil || collateralUsd.Sign() == 0 {
		return numeric.BigZero()
	}
	return numeric.MulDiv(sizeUsd, numeric.BasisPointsDivisor, collateralUsd)
}
