package priceimpact

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// usd30 scales a whole-dollar amount to 1e30. Negative dollars are allowed.
func usd30(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), numeric.Precision)
}

// testFactors is a quadratic curve with a negative side twice as steep as
// the positive one: positive 1e-9/USD, negative 2e-9/USD.
func testFactors() Factors {
	return Factors{
		Positive: numeric.ExpandDecimals(1, 21),
		Negative: numeric.ExpandDecimals(2, 21),
		Exponent: numeric.ExpandDecimals(2, 30),
	}
}

// assertUsdNear tolerates the documented sub-dollar pow approximation while
// still pinning the result to the exact expected value at test scale.
func assertUsdNear(t *testing.T, expected, actual *big.Int) {
	t.Helper()
	diff := new(big.Int).Sub(expected, actual)
	// 1e12 at 1e30 scale is 1e-18 USD
	assert.True(t, diff.CmpAbs(numeric.Pow10(12)) <= 0,
		"expected %s, got %s", expected, actual)
}

func TestEvaluateSameSideRebalance(t *testing.T) {
	tests := []struct {
		name        string
		currentLong *big.Int
		nextLong    *big.Int
		expected    *big.Int
	}{
		{
			// diff grows 100k -> 150k: negative curve, 2e-9*(1.5e5^2 - 1e5^2)
			name:        "worsening balance pays the negative curve",
			currentLong: usd30(1_000_000),
			nextLong:    usd30(1_050_000),
			expected:    usd30(-25),
		},
		{
			// diff shrinks 100k -> 50k on the positive curve
			name:        "improving balance earns the positive curve",
			currentLong: usd30(800_000),
			nextLong:    usd30(850_000),
			expected:    new(big.Int).Div(usd30(75), big.NewInt(10)),
		},
	}

	short := usd30(900_000)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.currentLong, short, tt.nextLong, short, testFactors())
			assertUsdNear(t, tt.expected, got)
		})
	}
}

func TestEvaluateCrossover(t *testing.T) {
	// long 900k/short 1M flips to long 1.2M/short 1M: positive leg at the
	// current 100k diff (10), negative leg at the next 200k diff (80)
	got := Evaluate(usd30(900_000), usd30(1_000_000), usd30(1_200_000), usd30(1_000_000), testFactors())
	assertUsdNear(t, usd30(-70), got)
}

func testSwapMarket() *markets.MarketInfo {
	dollar := numeric.Pow10(12) // $1 for an 18-decimals token
	long := &markets.Token{
		Address:  common.HexToAddress("0x11"),
		Decimals: 18,
		Prices:   markets.TokenPrices{Min: dollar, Max: dollar},
	}
	short := &markets.Token{
		Address:  common.HexToAddress("0x22"),
		Decimals: 18,
		Prices:   markets.TokenPrices{Min: dollar, Max: dollar},
	}
	f := testFactors()
	return &markets.MarketInfo{
		LongToken:                long,
		ShortToken:               short,
		SwapImpactFactorPositive: f.Positive,
		SwapImpactFactorNegative: f.Negative,
		SwapImpactExponentFactor: f.Exponent,
	}
}

func TestSwapPriceImpactUsd(t *testing.T) {
	m := testSwapMarket()
	impact, err := SwapPriceImpactUsd(SwapParams{
		Market:        m,
		LongPoolUsd:   usd30(1_000_000),
		ShortPoolUsd:  usd30(900_000),
		UsdDeltaLong:  usd30(50_000),
		UsdDeltaShort: usd30(-50_000),
	})
	require.NoError(t, err)
	// deltas move the diff from 100k to 200k: 2e-9*(4e10-1e10)
	assertUsdNear(t, usd30(-60), impact)
}

func TestSwapPriceImpactVirtualInventoryWorseWins(t *testing.T) {
	m := testSwapMarket()
	// the real pool is balanced but the cross-market inventory is not
	m.VirtualPoolAmountForLongToken = numeric.ExpandDecimals(2_000_000, 18)
	m.VirtualPoolAmountForShortToken = numeric.ExpandDecimals(1_000_000, 18)

	impact, err := SwapPriceImpactUsd(SwapParams{
		Market:        m,
		LongPoolUsd:   usd30(1_000_000),
		ShortPoolUsd:  usd30(1_000_000),
		UsdDeltaLong:  usd30(50_000),
		UsdDeltaShort: usd30(-50_000),
	})
	require.NoError(t, err)

	real := Evaluate(usd30(1_000_000), usd30(1_000_000), usd30(1_050_000), usd30(950_000), testFactors())
	virtual := Evaluate(usd30(2_000_000), usd30(1_000_000), usd30(2_050_000), usd30(950_000), testFactors())
	require.True(t, virtual.Cmp(real) < 0)
	assert.Equal(t, virtual, impact)
}

func TestSwapPriceImpactNegativePool(t *testing.T) {
	m := testSwapMarket()
	p := SwapParams{
		Market:        m,
		LongPoolUsd:   usd30(1_000_000),
		ShortPoolUsd:  usd30(1_000_000),
		UsdDeltaLong:  usd30(50_000),
		UsdDeltaShort: usd30(-2_000_000),
	}

	_, err := SwapPriceImpactUsd(p)
	assert.ErrorIs(t, err, ErrNegativePoolUsd)

	p.FallbackToZeroImpact = true
	impact, err := SwapPriceImpactUsd(p)
	require.NoError(t, err)
	assert.Equal(t, 0, impact.Sign())
}

func testPositionMarket() *markets.MarketInfo {
	f := testFactors()
	return &markets.MarketInfo{
		LongInterestUsd:              usd30(600_000),
		ShortInterestUsd:             usd30(400_000),
		PositionImpactFactorPositive: f.Positive,
		PositionImpactFactorNegative: f.Negative,
		PositionImpactExponentFactor: f.Exponent,
	}
}

func TestPositionPriceImpactUsd(t *testing.T) {
	m := testPositionMarket()

	// increasing the heavy side widens the diff from 200k to 300k
	assertUsdNear(t, usd30(-100), PositionPriceImpactUsd(m, usd30(100_000), true))
	// decreasing it narrows the diff back toward balance
	assertUsdNear(t, usd30(30), PositionPriceImpactUsd(m, usd30(-100_000), true))
}

func TestPositionPriceImpactVirtualInventory(t *testing.T) {
	m := testPositionMarket()
	// positive virtual inventory is net short exposure across markets
	m.VirtualInventoryForPositions = usd30(500_000)

	impact := PositionPriceImpactUsd(m, usd30(100_000), true)

	real := PositionPriceImpactUsd(testPositionMarket(), usd30(100_000), true)
	virtual := Evaluate(usd30(0), usd30(500_000), usd30(100_000), usd30(500_000), testFactors())
	expected := numeric.Min(real, virtual)
	assertUsdNear(t, expected, impact)
}

func TestCapPositionImpactUsd(t *testing.T) {
	dollar := numeric.Pow10(12)
	m := &markets.MarketInfo{
		IndexToken: &markets.Token{
			Decimals: 18,
			Prices:   markets.TokenPrices{Min: dollar, Max: dollar},
		},
		PositionImpactPoolAmount:        numeric.ExpandDecimals(50, 18),
		MaxPositionImpactFactorPositive: numeric.ExpandDecimals(5, 26), // 0.05%
	}

	capped, diff := CapPositionImpactUsd(m, usd30(100), usd30(20_000))
	assert.Equal(t, usd30(10), capped) // 0.05% of 20k undercuts the 50 pool cap
	assert.Equal(t, usd30(90), diff)

	// negative impact is never capped
	capped, diff = CapPositionImpactUsd(m, usd30(-100), usd30(20_000))
	assert.Equal(t, usd30(-100), capped)
	assert.Equal(t, 0, diff.Sign())
}
