package fees

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// GasLimitsConfig mirrors the on-chain gas accounting parameters. The values
// are supplied by the gas/fee parameter provider; this module only applies
// the contract's own formula so the UI estimate and the keeper requirement
// agree.
type GasLimitsConfig struct {
	EstimatedGasFeeBaseAmount     *big.Int `json:"estimatedGasFeeBaseAmount" yaml:"estimatedGasFeeBaseAmount"`
	EstimatedGasFeePerOraclePrice *big.Int `json:"estimatedGasFeePerOraclePrice" yaml:"estimatedGasFeePerOraclePrice"`
	EstimatedFeeMultiplierFactor  *big.Int `json:"estimatedFeeMultiplierFactor" yaml:"estimatedFeeMultiplierFactor"`

	IncreaseOrderGas *big.Int `json:"increaseOrderGas" yaml:"increaseOrderGas"`
	DecreaseOrderGas *big.Int `json:"decreaseOrderGas" yaml:"decreaseOrderGas"`
	SwapOrderGas     *big.Int `json:"swapOrderGas" yaml:"swapOrderGas"`
	SingleSwapGas    *big.Int `json:"singleSwapGas" yaml:"singleSwapGas"`
}

// ExecutionFee is the computed keeper fee for one order.
type ExecutionFee struct {
	GasLimit       *big.Int
	FeeTokenAmount *big.Int // native token, wei
	FeeUsd         *big.Int // 1e30
	IsFeeHigh      bool
	IsFeeVeryHigh  bool
}

func gasOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// EstimateIncreaseOrderGasLimit returns the raw gas estimate for an increase
// order routing through swapsCount hops.
func EstimateIncreaseOrderGasLimit(gasLimits *GasLimitsConfig, swapsCount int) *big.Int {
	total := new(big.Int).Set(gasOrZero(gasLimits.IncreaseOrderGas))
	return total.Add(total, new(big.Int).Mul(gasOrZero(gasLimits.SingleSwapGas), big.NewInt(int64(swapsCount))))
}

// EstimateDecreaseOrderGasLimit returns the raw gas estimate for a decrease
// order. A decrease that auto-swaps its output pays for one extra hop, the
// same plus-one rule the contract applies.
func EstimateDecreaseOrderGasLimit(gasLimits *GasLimitsConfig, swapsCount int, hasDecreaseSwap bool) *big.Int {
	if hasDecreaseSwap {
		swapsCount++
	}
	total := new(big.Int).Set(gasOrZero(gasLimits.DecreaseOrderGas))
	return total.Add(total, new(big.Int).Mul(gasOrZero(gasLimits.SingleSwapGas), big.NewInt(int64(swapsCount))))
}

// EstimateSwapOrderGasLimit returns the raw gas estimate for a standalone
// swap order routing through swapsCount hops.
func EstimateSwapOrderGasLimit(gasLimits *GasLimitsConfig, swapsCount int) *big.Int {
	total := new(big.Int).Set(gasOrZero(gasLimits.SwapOrderGas))
	return total.Add(total, new(big.Int).Mul(gasOrZero(gasLimits.SingleSwapGas), big.NewInt(int64(swapsCount))))
}

// AdjustGasLimitForEstimate converts a raw operation gas estimate into the
// keeper-charged gas limit:
// base + perOraclePrice*oraclePriceCount + applyFactor(estimate, multiplier).
func AdjustGasLimitForEstimate(gasLimits *GasLimitsConfig, estimatedGasLimit *big.Int, oraclePriceCount int) *big.Int {
	adjusted := new(big.Int).Set(gasOrZero(gasLimits.EstimatedGasFeeBaseAmount))
	adjusted.Add(adjusted, new(big.Int).Mul(gasOrZero(gasLimits.EstimatedGasFeePerOraclePrice), big.NewInt(int64(oraclePriceCount))))
	adjusted.Add(adjusted, numeric.ApplyFactor(estimatedGasLimit, gasOrZero(gasLimits.EstimatedFeeMultiplierFactor)))
	return adjusted
}

// GetExecutionFee converts a raw gas estimate and gas price into the native
// token amount and USD value of the keeper fee, classified against the
// chain's fee thresholds.
func GetExecutionFee(
	ctx *chains.ChainContext,
	gasLimits *GasLimitsConfig,
	nativeToken *markets.Token,
	estimatedGasLimit *big.Int,
	gasPrice *big.Int,
	oraclePriceCount int,
) *ExecutionFee {
	gasLimit := AdjustGasLimitForEstimate(gasLimits, estimatedGasLimit, oraclePriceCount)
	feeTokenAmount := new(big.Int).Mul(gasLimit, gasPrice)
	feeUsd := markets.ConvertToUsd(feeTokenAmount, nativeToken.Prices.Min)

	fee := &ExecutionFee{
		GasLimit:       gasLimit,
		FeeTokenAmount: feeTokenAmount,
		FeeUsd:         feeUsd,
	}
	if ctx.VeryHighExecutionFeeUsd != nil && feeUsd.Cmp(ctx.VeryHighExecutionFeeUsd) > 0 {
		fee.IsFeeVeryHigh = true
	}
	if ctx.HighExecutionFeeUsd != nil && feeUsd.Cmp(ctx.HighExecutionFeeUsd) > 0 {
		fee.IsFeeHigh = true
	}
	return fee
}
