package swap

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/markets"
)

// syntheticBalances are the simulated mid-price pool values of one market.
type syntheticBalances struct {
	longPoolUsd  *big.Int
	shortPoolUsd *big.Int
}

// SyntheticMarketOverlay is a copy-on-read wrapper over the snapshot's pool
// balances, keyed by market address. Scoring a multi-hop path writes the
// simulated post-hop balances here so later hops see them, while the shared
// snapshot stays untouched. An overlay is freshly allocated per scored path
// and discarded afterwards; it is not safe for concurrent use.
type SyntheticMarketOverlay struct {
	balances map[common.Address]*syntheticBalances
}

// NewSyntheticMarketOverlay creates an empty overlay.
func NewSyntheticMarketOverlay() *SyntheticMarketOverlay {
	return &SyntheticMarketOverlay{
		balances: make(map[common.Address]*syntheticBalances),
	}
}

// PoolUsd returns the market's current mid-price long/short pool values,
// preferring simulated balances over the snapshot. The returned values are
// copies; callers may do arithmetic on them freely.
func (o *SyntheticMarketOverlay) PoolUsd(m *markets.MarketInfo) (longUsd, shortUsd *big.Int) {
	if cached, ok := o.balances[m.MarketTokenAddress]; ok {
		return new(big.Int).Set(cached.longPoolUsd), new(big.Int).Set(cached.shortPoolUsd)
	}
	return m.MidPoolUsd(true), m.MidPoolUsd(false)
}

// Apply records the simulated post-hop balances for a market.
func (o *SyntheticMarketOverlay) Apply(marketAddress common.Address, longUsd, shortUsd *big.Int) {
	o.balances[marketAddress] = &syntheticBalances{
		longPoolUsd:  new(big.Int).Set(longUsd),
		shortPoolUsd: new(big.Int).Set(shortUsd),
	}
}
