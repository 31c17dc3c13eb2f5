package engine

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub018/markets"
)

func TestSnapshotIndexHydratesMarkets(t *testing.T) {
	wethAddr := common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1")
	usdcAddr := common.HexToAddress("0xaf88d065e77c8cC2239327C5EDb3A432268e5831")
	solAddr := common.HexToAddress("0x2bcC6D6CdBbDC0a4071e48bb3B969b06B3330c07")
	ethUsdcAddr := common.HexToAddress("0x70d95587d40A2caf56bd97485aB3Eec10Bee6336")
	solUsdcAddr := common.HexToAddress("0x09400D9DB990D5ed3f35D7be61DfAEB900Af03C9")

	snapshot := &Snapshot{
		ChainID: 42161,
		Tokens: []*markets.Token{
			{Address: wethAddr, Symbol: "WETH", Decimals: 18},
			{Address: usdcAddr, Symbol: "USDC", Decimals: 6},
		},
		Markets: []*markets.MarketInfo{
			{Market: markets.Market{
				MarketTokenAddress: ethUsdcAddr,
				IndexTokenAddress:  wethAddr,
				LongTokenAddress:   wethAddr,
				ShortTokenAddress:  usdcAddr,
			}},
			// References a token absent from the snapshot.
			{Market: markets.Market{
				MarketTokenAddress: solUsdcAddr,
				IndexTokenAddress:  solAddr,
				LongTokenAddress:   solAddr,
				ShortTokenAddress:  usdcAddr,
			}},
		},
	}

	tokens, mkts := snapshot.Index()
	assert.Len(t, tokens, 2)
	assert.Len(t, mkts, 2)

	ethUsdc, err := mkts.Get(ethUsdcAddr)
	require.NoError(t, err)
	assert.True(t, ethUsdc.IsHydrated())
	assert.Equal(t, "WETH", ethUsdc.LongToken.Symbol)
	assert.Equal(t, "USDC", ethUsdc.ShortToken.Symbol)

	solUsdc, err := mkts.Get(solUsdcAddr)
	require.NoError(t, err)
	assert.False(t, solUsdc.IsHydrated())
	assert.Nil(t, solUsdc.LongToken)
}

func TestSnapshotHasErrors(t *testing.T) {
	snapshot := &Snapshot{}
	assert.False(t, snapshot.HasErrors())

	snapshot.Errors = map[string]string{"oracle": "price feed lagging"}
	assert.True(t, snapshot.HasErrors())
}
