// Package markets holds the token and market (pool) snapshot types plus the
// read-only helpers over them: USD/token conversions, pool-side
// classification, pool USD values and available liquidity. Nothing in this
// package mutates a snapshot; scoring-time synthetic balances live in the
// swap package.
package markets

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
)

var (
	// ErrTokenNotFound is returned when a token address cannot be resolved in the snapshot.
	ErrTokenNotFound = errors.New("token not found in snapshot")
	// ErrMarketNotFound is returned when a market address cannot be resolved in the snapshot.
	ErrMarketNotFound = errors.New("market not found in snapshot")
	// ErrTokenNotInMarket is returned when a token is neither pool side of a market.
	ErrTokenNotInMarket = errors.New("token is not a collateral side of market")
)

// TokenPrices is the two-sided oracle price of a token, scaled by
// 10^(30 - token.decimals) so that amount*price is USD scaled 1e30.
type TokenPrices struct {
	Min *big.Int `json:"min" yaml:"min"`
	Max *big.Int `json:"max" yaml:"max"`
}

// Mid returns the truncating average of the min and max price.
func (p TokenPrices) Mid() *big.Int {
	sum := new(big.Int).Add(p.Min, p.Max)
	return sum.Quo(sum, two)
}

// Pick returns the max price when maximize is set, otherwise the min price.
func (p TokenPrices) Pick(maximize bool) *big.Int {
	if maximize {
		return p.Max
	}
	return p.Min
}

var two = big.NewInt(2)

// Token is a fungible asset descriptor, immutable per snapshot.
type Token struct {
	Address     common.Address `json:"address" yaml:"address"`
	Symbol      string         `json:"symbol" yaml:"symbol"`
	Decimals    uint8          `json:"decimals" yaml:"decimals"`
	IsNative    bool           `json:"isNative,omitempty" yaml:"isNative,omitempty"`
	IsWrapped   bool           `json:"isWrapped,omitempty" yaml:"isWrapped,omitempty"`
	IsSynthetic bool           `json:"isSynthetic,omitempty" yaml:"isSynthetic,omitempty"`
	Prices      TokenPrices    `json:"prices" yaml:"prices"`
}

// TokensData maps token address to its snapshot record.
type TokensData map[common.Address]*Token

// Get resolves a token address, failing explicitly instead of defaulting:
// silently zeroed financial inputs would produce a wrong trade preview.
func (d TokensData) Get(addr common.Address) (*Token, error) {
	token, ok := d[addr]
	if !ok || token == nil {
		return nil, wrapAddr(ErrTokenNotFound, addr)
	}
	return token, nil
}

// Market identifies a 3-token venue: the priced index plus the long/short
// collateral sides. Long and short token may be equal (single-collateral).
type Market struct {
	MarketTokenAddress common.Address `json:"marketTokenAddress" yaml:"marketTokenAddress"`
	IndexTokenAddress  common.Address `json:"indexTokenAddress" yaml:"indexTokenAddress"`
	LongTokenAddress   common.Address `json:"longTokenAddress" yaml:"longTokenAddress"`
	ShortTokenAddress  common.Address `json:"shortTokenAddress" yaml:"shortTokenAddress"`
	IsSameCollaterals  bool           `json:"isSameCollaterals,omitempty" yaml:"isSameCollaterals,omitempty"`
	IsSpotOnly         bool           `json:"isSpotOnly,omitempty" yaml:"isSpotOnly,omitempty"`
	Name               string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// MarketInfo is the hydrated market: identity plus resolved tokens, live
// balances and the configured factors. All *big.Int fields follow the module
// scaling rules (factors 1e30, USD 1e30, token amounts by token decimals).
type MarketInfo struct {
	Market `yaml:",inline"`

	LongToken  *Token `json:"-" yaml:"-"`
	ShortToken *Token `json:"-" yaml:"-"`
	IndexToken *Token `json:"-" yaml:"-"`

	LongPoolAmount  *big.Int `json:"longPoolAmount" yaml:"longPoolAmount"`
	ShortPoolAmount *big.Int `json:"shortPoolAmount" yaml:"shortPoolAmount"`

	LongPoolAmountAdjustment  *big.Int `json:"longPoolAmountAdjustment" yaml:"longPoolAmountAdjustment"`
	ShortPoolAmountAdjustment *big.Int `json:"shortPoolAmountAdjustment" yaml:"shortPoolAmountAdjustment"`

	LongInterestUsd       *big.Int `json:"longInterestUsd" yaml:"longInterestUsd"`
	ShortInterestUsd      *big.Int `json:"shortInterestUsd" yaml:"shortInterestUsd"`
	LongInterestInTokens  *big.Int `json:"longInterestInTokens" yaml:"longInterestInTokens"`
	ShortInterestInTokens *big.Int `json:"shortInterestInTokens" yaml:"shortInterestInTokens"`

	ReserveFactorLong              *big.Int `json:"reserveFactorLong" yaml:"reserveFactorLong"`
	ReserveFactorShort             *big.Int `json:"reserveFactorShort" yaml:"reserveFactorShort"`
	OpenInterestReserveFactorLong  *big.Int `json:"openInterestReserveFactorLong" yaml:"openInterestReserveFactorLong"`
	OpenInterestReserveFactorShort *big.Int `json:"openInterestReserveFactorShort" yaml:"openInterestReserveFactorShort"`
	MaxOpenInterestLong            *big.Int `json:"maxOpenInterestLong" yaml:"maxOpenInterestLong"`
	MaxOpenInterestShort           *big.Int `json:"maxOpenInterestShort" yaml:"maxOpenInterestShort"`

	PositionImpactPoolAmount  *big.Int `json:"positionImpactPoolAmount" yaml:"positionImpactPoolAmount"`
	SwapImpactPoolAmountLong  *big.Int `json:"swapImpactPoolAmountLong" yaml:"swapImpactPoolAmountLong"`
	SwapImpactPoolAmountShort *big.Int `json:"swapImpactPoolAmountShort" yaml:"swapImpactPoolAmountShort"`

	SwapFeeFactorForBalanceWasImproved    *big.Int `json:"swapFeeFactorForBalanceWasImproved" yaml:"swapFeeFactorForBalanceWasImproved"`
	SwapFeeFactorForBalanceWasNotImproved *big.Int `json:"swapFeeFactorForBalanceWasNotImproved" yaml:"swapFeeFactorForBalanceWasNotImproved"`
	AtomicSwapFeeFactor                   *big.Int `json:"atomicSwapFeeFactor" yaml:"atomicSwapFeeFactor"`

	PositionFeeFactorForBalanceWasImproved    *big.Int `json:"positionFeeFactorForBalanceWasImproved" yaml:"positionFeeFactorForBalanceWasImproved"`
	PositionFeeFactorForBalanceWasNotImproved *big.Int `json:"positionFeeFactorForBalanceWasNotImproved" yaml:"positionFeeFactorForBalanceWasNotImproved"`

	SwapImpactExponentFactor *big.Int `json:"swapImpactExponentFactor" yaml:"swapImpactExponentFactor"`
	SwapImpactFactorPositive *big.Int `json:"swapImpactFactorPositive" yaml:"swapImpactFactorPositive"`
	SwapImpactFactorNegative *big.Int `json:"swapImpactFactorNegative" yaml:"swapImpactFactorNegative"`

	PositionImpactExponentFactor    *big.Int `json:"positionImpactExponentFactor" yaml:"positionImpactExponentFactor"`
	PositionImpactFactorPositive    *big.Int `json:"positionImpactFactorPositive" yaml:"positionImpactFactorPositive"`
	PositionImpactFactorNegative    *big.Int `json:"positionImpactFactorNegative" yaml:"positionImpactFactorNegative"`
	MaxPositionImpactFactorPositive *big.Int `json:"maxPositionImpactFactorPositive" yaml:"maxPositionImpactFactorPositive"`
	MaxPositionImpactFactorNegative *big.Int `json:"maxPositionImpactFactorNegative" yaml:"maxPositionImpactFactorNegative"`

	FundingFactorPerSecond            *big.Int `json:"fundingFactorPerSecond" yaml:"fundingFactorPerSecond"`
	LongsPayShorts                    bool     `json:"longsPayShorts" yaml:"longsPayShorts"`
	BorrowingFactorPerSecondForLongs  *big.Int `json:"borrowingFactorPerSecondForLongs" yaml:"borrowingFactorPerSecondForLongs"`
	BorrowingFactorPerSecondForShorts *big.Int `json:"borrowingFactorPerSecondForShorts" yaml:"borrowingFactorPerSecondForShorts"`

	VirtualPoolAmountForLongToken  *big.Int `json:"virtualPoolAmountForLongToken" yaml:"virtualPoolAmountForLongToken"`
	VirtualPoolAmountForShortToken *big.Int `json:"virtualPoolAmountForShortToken" yaml:"virtualPoolAmountForShortToken"`
	VirtualInventoryForPositions   *big.Int `json:"virtualInventoryForPositions" yaml:"virtualInventoryForPositions"`
}

// MarketsData maps market address to its hydrated snapshot record.
type MarketsData map[common.Address]*MarketInfo

// Get resolves a market address, failing explicitly on a miss.
func (d MarketsData) Get(addr common.Address) (*MarketInfo, error) {
	market, ok := d[addr]
	if !ok || market == nil {
		return nil, wrapAddr(ErrMarketNotFound, addr)
	}
	return market, nil
}

// IsHydrated reports whether both collateral sides resolved against the
// token snapshot. Un-hydrated markets are excluded from routing.
func (m *MarketInfo) IsHydrated() bool {
	return m.LongToken != nil && m.ShortToken != nil
}

// PoolType identifies which side of a market a token belongs to.
type PoolType int

const (
	PoolNone PoolType = iota
	PoolLong
	PoolShort
)

// TokenPoolType classifies a token address against the market's collateral
// sides, after wrap normalization. For same-collateral markets the long side
// wins; direction is then carried by the caller, not the pool type.
func (m *MarketInfo) TokenPoolType(ctx *chains.ChainContext, addr common.Address) PoolType {
	normalized := ctx.NormalizeTokenAddress(addr)
	if m.IsSameCollaterals {
		if normalized == ctx.NormalizeTokenAddress(m.LongTokenAddress) {
			return PoolLong
		}
		return PoolNone
	}
	if normalized == ctx.NormalizeTokenAddress(m.LongTokenAddress) {
		return PoolLong
	}
	if normalized == ctx.NormalizeTokenAddress(m.ShortTokenAddress) {
		return PoolShort
	}
	return PoolNone
}

// OppositeCollateral returns the collateral token on the other side of the
// market from the given token.
func (m *MarketInfo) OppositeCollateral(ctx *chains.ChainContext, addr common.Address) (*Token, error) {
	switch m.TokenPoolType(ctx, addr) {
	case PoolLong:
		return m.ShortToken, nil
	case PoolShort:
		return m.LongToken, nil
	default:
		return nil, wrapAddr(ErrTokenNotInMarket, addr)
	}
}

func wrapAddr(err error, addr common.Address) error {
	return &addrError{err: err, addr: addr}
}

type addrError struct {
	err  error
	addr common.Address
}

func (e *addrError) Error() string { return e.err.Error() + ": " + e.addr.Hex() }
func (e *addrError) Unwrap() error { return e.err }
