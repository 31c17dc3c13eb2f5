// Package arbitrum provides the Arbitrum One chain context.
package arbitrum

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

const ChainID = 42161

// NewContext returns the chain context for Arbitrum One.
func NewContext() *chains.ChainContext {
	return &chains.ChainContext{
		ChainID:             ChainID,
		Name:                "arbitrum",
		WrappedTokenAddress: common.HexToAddress("0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"), // WETH
		NativeTokenDecimals: 18,
		MaxSwapPathHops:     3,
		// $5 and $10, USD scaled 1e30
		HighExecutionFeeUsd:     numeric.ExpandDecimals(5, 30),
		VeryHighExecutionFeeUsd: numeric.ExpandDecimals(10, 30),
	}
}
