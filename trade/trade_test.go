package trade

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/chains/arbitrum"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/markets/graph"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
	"github.com/gmx-io/gmx-interface-sub018/swap"
)

var (
	wethAddr = common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	usdcAddr = common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	btcAddr  = common.HexToAddress("0x2f2a2543B76A4166549F7aaB2e75Bef0aefC5B0f")

	ethUsdcMarketAddr = common.HexToAddress("0x70d95587d40A2caf56bd97485aB3Eec10Bee6336")
	btcUsdcMarketAddr = common.HexToAddress("0x47c031236e19d024b42f8AE6780E44A573170703")
	btcEthMarketAddr  = common.HexToAddress("0x7C11F78Ce78768518D743E81Fdfa2F860C6b9A77")
)

func usd30(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), numeric.Precision)
}

type fixture struct {
	ctx         *chains.ChainContext
	tokensData  markets.TokensData
	marketsData markets.MarketsData
	graph       *graph.MarketsGraph
}

func newToken(addr common.Address, symbol string, decimals uint8, dollars int64) *markets.Token {
	price := new(big.Int).Mul(big.NewInt(dollars), numeric.Pow10(30-decimals))
	return &markets.Token{
		Address:  addr,
		Symbol:   symbol,
		Decimals: decimals,
		Prices:   markets.TokenPrices{Min: price, Max: price},
	}
}

// newFixture builds WETH($3000)-USDC, BTC($60000)-USDC and BTC-WETH markets
// with 0.05% fees and no price impact, connected in a routable graph.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := arbitrum.NewContext()
	weth := newToken(wethAddr, "WETH", 18, 3000)
	weth.IsWrapped = true
	usdc := newToken(usdcAddr, "USDC", 6, 1)
	btc := newToken(btcAddr, "BTC", 8, 60_000)
	native := newToken(chains.NativeTokenAddress, "ETH", 18, 3000)
	native.IsNative = true

	zero := big.NewInt(0)
	feeFactor := numeric.ExpandDecimals(5, 26)

	newMarket := func(marketAddr common.Address, name string, index, long, short *markets.Token, longAmount, shortAmount *big.Int) *markets.MarketInfo {
		return &markets.MarketInfo{
			Market: markets.Market{
				MarketTokenAddress: marketAddr,
				IndexTokenAddress:  index.Address,
				LongTokenAddress:   long.Address,
				ShortTokenAddress:  short.Address,
				Name:               name,
			},
			LongToken:  long,
			ShortToken: short,
			IndexToken: index,

			LongPoolAmount:  longAmount,
			ShortPoolAmount: shortAmount,

			SwapFeeFactorForBalanceWasImproved:    feeFactor,
			SwapFeeFactorForBalanceWasNotImproved: feeFactor,

			PositionFeeFactorForBalanceWasImproved:    feeFactor,
			PositionFeeFactorForBalanceWasNotImproved: feeFactor,

			SwapImpactExponentFactor: numeric.ExpandDecimals(2, 30),
			SwapImpactFactorPositive: zero,
			SwapImpactFactorNegative: zero,

			PositionImpactExponentFactor: numeric.ExpandDecimals(2, 30),
			PositionImpactFactorPositive: zero,
			PositionImpactFactorNegative: zero,
		}
	}

	marketsData := markets.MarketsData{
		ethUsdcMarketAddr: newMarket(ethUsdcMarketAddr, "ETH/USD [WETH-USDC]", weth, weth, usdc,
			numeric.ExpandDecimals(1000, 18), numeric.ExpandDecimals(3_000_000, 6)),
		btcUsdcMarketAddr: newMarket(btcUsdcMarketAddr, "BTC/USD [BTC-USDC]", btc, btc, usdc,
			numeric.ExpandDecimals(100, 8), numeric.ExpandDecimals(6_000_000, 6)),
		btcEthMarketAddr: newMarket(btcEthMarketAddr, "BTC/USD [BTC-WETH]", btc, btc, weth,
			numeric.ExpandDecimals(100, 8), numeric.ExpandDecimals(2000, 18)),
	}
	tokensData := markets.TokensData{
		wethAddr:                  weth,
		usdcAddr:                  usdc,
		btcAddr:                   btc,
		chains.NativeTokenAddress: native,
	}

	return &fixture{
		ctx:         ctx,
		tokensData:  tokensData,
		marketsData: marketsData,
		graph:       graph.Build(ctx, marketsData),
	}
}

func (f *fixture) router(t *testing.T, from, to common.Address) *swap.Router {
	t.Helper()
	r, err := swap.NewRouter(swap.RouterConfig{
		Ctx:              f.ctx,
		MarketsData:      f.marketsData,
		Graph:            f.graph,
		FromTokenAddress: from,
		ToTokenAddress:   to,
		Estimator:        swap.NewEstimator(f.ctx, f.marketsData),
	})
	require.NoError(t, err)
	return r
}
