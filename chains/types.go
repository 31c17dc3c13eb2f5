// Package chains defines explicit chain configuration values. A ChainContext
// is threaded as a parameter into every function that needs chain-specific
// data; nothing in this module looks configuration up from ambient state.
package chains

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Logger defines a standard interface for structured, leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NativeTokenAddress is the placeholder address used for the chain's native
// token in token lists and user input.
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// ChainContext carries the per-chain configuration the computation core
// depends on. Values are immutable after construction.
type ChainContext struct {
	ChainID uint64
	Name    string

	// WrappedTokenAddress is the ERC-20 wrapper of the native token. Pools
	// always list the wrapped address; user input may use the native
	// placeholder.
	WrappedTokenAddress common.Address
	NativeTokenDecimals uint8

	// MaxSwapPathHops bounds path enumeration.
	MaxSwapPathHops int

	// Execution fee classification thresholds, USD scaled 1e30.
	HighExecutionFeeUsd     *big.Int
	VeryHighExecutionFeeUsd *big.Int
}

// NormalizeTokenAddress maps the native placeholder to the wrapped ERC-20
// address so graph lookups see a single identity per asset.
func (c *ChainContext) NormalizeTokenAddress(addr common.Address) common.Address {
	if addr == NativeTokenAddress {
		return c.WrappedTokenAddress
	}
	return addr
}

// IsWrapOrUnwrap reports whether a swap between the two addresses is a pure
// native<->wrapped conversion, which bypasses pools entirely.
func (c *ChainContext) IsWrapOrUnwrap(tokenIn, tokenOut common.Address) bool {
	if tokenIn == tokenOut {
		return false
	}
	return c.NormalizeTokenAddress(tokenIn) == c.NormalizeTokenAddress(tokenOut)
}

// EquivalentTokens reports whether the two addresses resolve to the same
// asset after wrap normalization.
func (c *ChainContext) EquivalentTokens(a, b common.Address) bool {
	return c.NormalizeTokenAddress(a) == c.NormalizeTokenAddress(b)
}
