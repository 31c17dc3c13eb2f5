package fees

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
)

// PositionFee is the fee breakdown of opening or closing position size.
type PositionFee struct {
	// FeeUsd is the protocol position fee after the referral discount.
	FeeUsd *big.Int
	// DiscountUsd is the part of the nominal fee waived by a referral code.
	DiscountUsd *big.Int
	// UIFeeUsd is the fee taken by the frontend, when configured.
	UIFeeUsd *big.Int
}

// TotalUsd is the full cost charged against the trade.
func (f *PositionFee) TotalUsd() *big.Int {
	return new(big.Int).Add(f.FeeUsd, f.UIFeeUsd)
}

// PositionFeeUsd computes the position fee for a size delta. The fee tier
// follows whether the trade improved the open-interest balance;
// referralDiscountFactor and uiFeeFactor are 1e30-scaled and may be nil.
func PositionFeeUsd(m *markets.MarketInfo, sizeDeltaUsd *big.Int, balanceWasImproved bool, referralDiscountFactor, uiFeeFactor *big.Int) *PositionFee {
	factor := m.PositionFeeFactorForBalanceWasNotImproved
	if balanceWasImproved {
		factor = m.PositionFeeFactorForBalanceWasImproved
	}

	feeUsd := numeric.ApplyFactor(numeric.Abs(sizeDeltaUsd), factor)

	discountUsd := new(big.Int)
	if referralDiscountFactor != nil && referralDiscountFactor.Sign() > 0 {
		discountUsd = numeric.ApplyFactor(feeUsd, referralDiscountFactor)
		feeUsd = feeUsd.Sub(feeUsd, discountUsd)
	}

	uiFeeUsd := new(big.Int)
	if uiFeeFactor != nil && uiFeeFactor.Sign() > 0 {
		uiFeeUsd = numeric.ApplyFactor(numeric.Abs(sizeDeltaUsd), uiFeeFactor)
	}

	return &PositionFee{
		FeeUsd:      feeUsd,
		DiscountUsd: discountUsd,
		UIFeeUsd:    uiFeeUsd,
	}
}
