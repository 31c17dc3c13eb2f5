package trade

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

func testLongPosition() *Position {
	return &Position{
		MarketAddress:          ethUsdcMarketAddr,
		CollateralTokenAddress: usdcAddr,
		IsLong:                 true,
		// 1 WETH opened at $2800, collateral 1000 USDC
		SizeInUsd:        usd30(2800),
		SizeInTokens:     numeric.ExpandDecimals(1, 18),
		CollateralAmount: numeric.ExpandDecimals(1000, 6),

		PendingBorrowingFeesUsd: usd30(5),
		PendingFundingFeesUsd:   usd30(2),
	}
}

func TestGetDecreasePositionAmountsPartialClose(t *testing.T) {
	f := newFixture(t)

	amounts, err := GetDecreasePositionAmounts(DecreasePositionParams{
		Ctx:          f.ctx,
		MarketsData:  f.marketsData,
		TokensData:   f.tokensData,
		Position:     testLongPosition(),
		CloseSizeUsd: usd30(1400),
	})
	require.NoError(t, err)
	require.NotNil(t, amounts)

	assert.Equal(t, OrderMarketDecrease, amounts.OrderType)
	assert.Equal(t, usd30(1400), amounts.SizeDeltaUsd)
	assert.Equal(t, numeric.ExpandDecimals(5, 17), amounts.SizeDeltaInTokens)

	// mark $3000 vs $2800 entry on 1 WETH
	assert.Equal(t, usd30(200), amounts.EstimatedPnl)
	assert.Equal(t, usd30(100), amounts.RealizedPnl)

	assert.Equal(t, numeric.ExpandDecimals(500, 6), amounts.CollateralDeltaAmount)
	assert.Equal(t, usd30(500), amounts.CollateralDeltaUsd)

	// $500 collateral + $100 pnl - $0.70 fee - $5 borrowing - $2 funding
	expectedReceive := new(big.Int).Div(usd30(59_230), big.NewInt(100))
	assert.Equal(t, expectedReceive, amounts.ReceiveUsd)
	assert.Equal(t, big.NewInt(592_300_000), amounts.ReceiveTokenAmount)
	assert.Equal(t, usdcAddr, amounts.ReceiveTokenAddress)

	// long pnl arrives in WETH, the position settles in USDC
	assert.Equal(t, DecreaseSwapPnlTokenToCollateralToken, amounts.DecreaseSwapType)
}

func TestGetDecreasePositionAmountsFullClose(t *testing.T) {
	f := newFixture(t)

	amounts, err := GetDecreasePositionAmounts(DecreasePositionParams{
		Ctx:          f.ctx,
		MarketsData:  f.marketsData,
		TokensData:   f.tokensData,
		Position:     testLongPosition(),
		CloseSizeUsd: usd30(10_000), // clamped to the position size
	})
	require.NoError(t, err)

	assert.Equal(t, usd30(2800), amounts.SizeDeltaUsd)
	assert.Equal(t, numeric.ExpandDecimals(1, 18), amounts.SizeDeltaInTokens)
	assert.Equal(t, numeric.ExpandDecimals(1000, 6), amounts.CollateralDeltaAmount)
	assert.Equal(t, amounts.EstimatedPnl, amounts.RealizedPnl)
}

func TestGetDecreasePositionAmountsSlippageDirection(t *testing.T) {
	f := newFixture(t)

	amounts, err := GetDecreasePositionAmounts(DecreasePositionParams{
		Ctx:                f.ctx,
		MarketsData:        f.marketsData,
		TokensData:         f.tokensData,
		Position:           testLongPosition(),
		CloseSizeUsd:       usd30(1400),
		AllowedSlippageBps: 100,
	})
	require.NoError(t, err)

	// closing a long tolerates a lower price
	assert.Equal(t, numeric.ExpandDecimals(2970, 12), amounts.AcceptablePrice)
	assert.Equal(t, big.NewInt(-100), amounts.AcceptablePriceDeltaBps)
}

func TestGetDecreasePositionAmountsTriggerOrders(t *testing.T) {
	f := newFixture(t)
	receiveToken := usdcAddr

	tests := []struct {
		name         string
		triggerPrice *big.Int
		expected     OrderType
	}{
		{"take profit above mark", numeric.ExpandDecimals(3200, 12), OrderLimitDecrease},
		{"stop loss below mark", numeric.ExpandDecimals(2700, 12), OrderStopLossDecrease},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts, err := GetDecreasePositionAmounts(DecreasePositionParams{
				Ctx:                 f.ctx,
				MarketsData:         f.marketsData,
				TokensData:          f.tokensData,
				Position:            testLongPosition(),
				CloseSizeUsd:        usd30(1400),
				TriggerPrice:        tt.triggerPrice,
				IsTPSL:              true,
				ReceiveTokenAddress: &receiveToken,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, amounts.OrderType)
			assert.Equal(t, tt.triggerPrice, amounts.TriggerPrice)
		})
	}
}

func TestGetDecreasePositionAmountsRequiresReceiveToken(t *testing.T) {
	f := newFixture(t)

	_, err := GetDecreasePositionAmounts(DecreasePositionParams{
		Ctx:          f.ctx,
		MarketsData:  f.marketsData,
		TokensData:   f.tokensData,
		Position:     testLongPosition(),
		CloseSizeUsd: usd30(1400),
		TriggerPrice: numeric.ExpandDecimals(3200, 12),
		IsTPSL:       true,
	})
	assert.ErrorIs(t, err, ErrReceiveTokenRequired)
}

func TestPositionHelpers(t *testing.T) {
	pos := testLongPosition()
	markPrice := numeric.ExpandDecimals(3000, 12)

	assert.Equal(t, usd30(200), pos.PnlUsd(markPrice))
	assert.Equal(t, usd30(1000), pos.CollateralUsd(numeric.Pow10(24)))
	assert.Equal(t, big.NewInt(280_000), LeverageBps(pos.SizeInUsd, usd30(100)))
	assert.Equal(t, 0, LeverageBps(pos.SizeInUsd, big.NewInt(0)).Sign())

	short := testLongPosition()
	short.IsLong = false
	assert.Equal(t, usd30(-200), short.PnlUsd(markPrice))
}
