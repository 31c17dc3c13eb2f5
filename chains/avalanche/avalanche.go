// Package avalanche provides the Avalanche C-Chain context.
package avalanche

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

const ChainID = 43114

// NewContext returns the chain context for the Avalanche C-Chain.
func NewContext() *chains.ChainContext {
	return &chains.ChainContext{
		ChainID:                 ChainID,
		Name:                    "avalanche",
		WrappedTokenAddress:     common.HexToAddress("0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7"), // WAVAX
		NativeTokenDecimals:     18,
		MaxSwapPathHops:         3,
		HighExecutionFeeUsd:     numeric.ExpandDecimals(3, 30),
		VeryHighExecutionFeeUsd: numeric.ExpandDecimals(6, 30),
	}
}
