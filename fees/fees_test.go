package fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub018/chains/arbitrum"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

func usd30(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), numeric.Precision)
}

func TestSwapFeeUsdTiers(t *testing.T) {
	m := &markets.MarketInfo{
		SwapFeeFactorForBalanceWasImproved:    numeric.ExpandDecimals(5, 26), // 0.05%
		SwapFeeFactorForBalanceWasNotImproved: numeric.ExpandDecimals(7, 26), // 0.07%
		AtomicSwapFeeFactor:                   numeric.ExpandDecimals(1, 27), // 0.1%
	}
	usdIn := usd30(10_000)

	assert.Equal(t, usd30(5), SwapFeeUsd(m, usdIn, true, false))
	assert.Equal(t, usd30(7), SwapFeeUsd(m, usdIn, false, false))
	// the atomic tier wins regardless of balance improvement
	assert.Equal(t, usd30(10), SwapFeeUsd(m, usdIn, true, true))

	m.AtomicSwapFeeFactor = nil
	assert.Equal(t, usd30(5), SwapFeeUsd(m, usdIn, true, true))
}

func TestPositionFeeUsd(t *testing.T) {
	m := &markets.MarketInfo{
		PositionFeeFactorForBalanceWasImproved:    numeric.ExpandDecimals(5, 26),
		PositionFeeFactorForBalanceWasNotImproved: numeric.ExpandDecimals(7, 26),
	}

	fee := PositionFeeUsd(m, usd30(100_000), false, nil, nil)
	assert.Equal(t, usd30(70), fee.FeeUsd)
	assert.Equal(t, 0, fee.DiscountUsd.Sign())
	assert.Equal(t, 0, fee.UIFeeUsd.Sign())
	assert.Equal(t, usd30(70), fee.TotalUsd())

	// 20% referral discount and a 0.01% ui fee
	fee = PositionFeeUsd(m, usd30(100_000), false,
		numeric.ExpandDecimals(2, 29), numeric.ExpandDecimals(1, 26))
	assert.Equal(t, usd30(56), fee.FeeUsd)
	assert.Equal(t, usd30(14), fee.DiscountUsd)
	assert.Equal(t, usd30(10), fee.UIFeeUsd)
	assert.Equal(t, usd30(66), fee.TotalUsd())

	// fee magnitude does not depend on the sign of the size delta
	decrease := PositionFeeUsd(m, usd30(-100_000), false, nil, nil)
	assert.Equal(t, usd30(70), decrease.FeeUsd)
}

func TestFundingFactorPerPeriod(t *testing.T) {
	// shorts pay 50%/s on a 10M short / 8M long book: shorts pay the nominal
	// rate, longs receive it scaled by the 10/8 book imbalance
	m := &markets.MarketInfo{
		FundingFactorPerSecond: numeric.ExpandDecimals(5, 29),
		LongsPayShorts:         false,
		LongInterestUsd:        usd30(8_000_000),
		ShortInterestUsd:       usd30(10_000_000),
	}

	short := FundingFactorPerPeriod(m, false, 1)
	assert.Equal(t, numeric.ExpandDecimals(-5, 29), short)

	long := FundingFactorPerPeriod(m, true, 1)
	assert.Equal(t, numeric.ExpandDecimals(625, 27), long)

	// paid-out funding never exceeds collected funding
	paid := new(big.Int).Mul(short, m.ShortInterestUsd)
	received := new(big.Int).Mul(long, m.LongInterestUsd)
	net := new(big.Int).Add(paid, received)
	assert.True(t, net.Sign() <= 0)
}

func TestFundingFactorZeroReceivingSide(t *testing.T) {
	m := &markets.MarketInfo{
		FundingFactorPerSecond: numeric.ExpandDecimals(5, 29),
		LongsPayShorts:         true,
		LongInterestUsd:        usd30(1_000_000),
		ShortInterestUsd:       usd30(0),
	}

	assert.Equal(t, 0, FundingFactorPerPeriod(m, false, 3600).Sign())
	assert.Equal(t, numeric.ExpandDecimals(-18, 32), FundingFactorPerPeriod(m, true, 3600))
}

func TestBorrowingFactorPerPeriod(t *testing.T) {
	m := &markets.MarketInfo{
		BorrowingFactorPerSecondForLongs:  big.NewInt(100),
		BorrowingFactorPerSecondForShorts: big.NewInt(250),
	}

	assert.Equal(t, big.NewInt(360_000), BorrowingFactorPerPeriod(m, true, 3600))
	assert.Equal(t, big.NewInt(900_000), BorrowingFactorPerPeriod(m, false, 3600))

	m.BorrowingFactorPerSecondForLongs = nil
	assert.Equal(t, 0, BorrowingFactorPerPeriod(m, true, 3600).Sign())
}

func TestOrderGasLimitEstimates(t *testing.T) {
	gasLimits := &GasLimitsConfig{
		IncreaseOrderGas: big.NewInt(4_000_000),
		DecreaseOrderGas: big.NewInt(4_500_000),
		SwapOrderGas:     big.NewInt(3_000_000),
		SingleSwapGas:    big.NewInt(1_000_000),
	}

	assert.Equal(t, big.NewInt(6_000_000), EstimateIncreaseOrderGasLimit(gasLimits, 2))
	assert.Equal(t, big.NewInt(3_000_000), EstimateSwapOrderGasLimit(gasLimits, 0))

	// a decrease that swaps its output pays for one extra hop
	assert.Equal(t, big.NewInt(5_500_000), EstimateDecreaseOrderGasLimit(gasLimits, 1, false))
	assert.Equal(t, big.NewInt(6_500_000), EstimateDecreaseOrderGasLimit(gasLimits, 1, true))
}

func TestGetExecutionFee(t *testing.T) {
	ctx := arbitrum.NewContext()
	gasLimits := &GasLimitsConfig{
		EstimatedGasFeeBaseAmount:     big.NewInt(600_000),
		EstimatedGasFeePerOraclePrice: big.NewInt(250_000),
		EstimatedFeeMultiplierFactor:  numeric.Precision,
	}
	nativePrice := numeric.ExpandDecimals(2, 12) // $2, 18-decimals token
	nativeToken := &markets.Token{
		Decimals: 18,
		Prices:   markets.TokenPrices{Min: nativePrice, Max: nativePrice},
	}

	fee := GetExecutionFee(ctx, gasLimits, nativeToken,
		big.NewInt(5_000_000), big.NewInt(2_750_000_001), 4)

	require.Equal(t, big.NewInt(6_600_000), fee.GasLimit)
	assert.Equal(t, big.NewInt(18_150_000_006_600_000), fee.FeeTokenAmount)
	expectedUsd := new(big.Int).Mul(big.NewInt(18_150_000_006_600_000), numeric.ExpandDecimals(2, 12))
	assert.Equal(t, expectedUsd, fee.FeeUsd)
	assert.False(t, fee.IsFeeHigh)
	assert.False(t, fee.IsFeeVeryHigh)
}

func TestGetExecutionFeeUsesMinPrice(t *testing.T) {
	ctx := arbitrum.NewContext()
	gasLimits := &GasLimitsConfig{EstimatedFeeMultiplierFactor: numeric.Precision}
	nativeToken := &markets.Token{
		Decimals: 18,
		Prices: markets.TokenPrices{
			Min: numeric.ExpandDecimals(2990, 12),
			Max: numeric.ExpandDecimals(3010, 12),
		},
	}

	fee := GetExecutionFee(ctx, gasLimits, nativeToken,
		big.NewInt(1_000_000), big.NewInt(1_000_000_000), 0)

	expectedUsd := markets.ConvertToUsd(fee.FeeTokenAmount, nativeToken.Prices.Min)
	assert.Equal(t, expectedUsd, fee.FeeUsd)
}

func TestGetExecutionFeeThresholds(t *testing.T) {
	ctx := arbitrum.NewContext()
	gasLimits := &GasLimitsConfig{EstimatedFeeMultiplierFactor: numeric.Precision}
	nativePrice := numeric.ExpandDecimals(3000, 12)
	nativeToken := &markets.Token{
		Decimals: 18,
		Prices:   markets.TokenPrices{Min: nativePrice, Max: nativePrice},
	}

	// 2,000,000 gas at 1 gwei on a $3000 native token is a $6 fee
	fee := GetExecutionFee(ctx, gasLimits, nativeToken,
		big.NewInt(2_000_000), big.NewInt(1_000_000_000), 0)
	assert.True(t, fee.IsFeeHigh)
	assert.False(t, fee.IsFeeVeryHigh)
}
