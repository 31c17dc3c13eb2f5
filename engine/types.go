// Package engine defines the snapshot envelope broadcast by a state stream:
// one block's complete token and market view plus block metadata. Later
// snapshots fully replace earlier ones.
package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/markets"
)

// BlockSummary carries the identity of the block a snapshot was taken at.
type BlockSummary struct {
	Number    *big.Int    `json:"number" yaml:"number"`
	Hash      common.Hash `json:"hash" yaml:"hash"`
	Timestamp uint64      `json:"timestamp" yaml:"timestamp"`

	// ReceivedAt is the Unix nanosecond timestamp when the producer started
	// building the snapshot for this block.
	ReceivedAt int64 `json:"receivedAt" yaml:"receivedAt"`
}

// Snapshot is the unit delivered to subscribers. Tokens and Markets are flat
// lists on the wire; Index builds the address-keyed views consumers work
// with.
type Snapshot struct {
	ChainID   uint64                `json:"chainId" yaml:"chainId"`
	Timestamp uint64                `json:"timestamp" yaml:"timestamp"`
	Block     BlockSummary          `json:"block" yaml:"block"`
	Tokens    []*markets.Token      `json:"tokens" yaml:"tokens"`
	Markets   []*markets.MarketInfo `json:"markets" yaml:"markets"`

	// Errors is keyed by data source, e.g. "oracle" or "reader". A populated
	// entry means the matching part of the snapshot may be stale.
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// HasErrors reports whether any data source flagged this snapshot.
func (s *Snapshot) HasErrors() bool {
	return len(s.Errors) > 0
}

// Index builds the address-keyed token and market views and resolves each
// market's collateral and index token pointers against the token list.
// Markets referencing unknown tokens are kept but stay un-hydrated; the
// graph builder skips those.
func (s *Snapshot) Index() (markets.TokensData, markets.MarketsData) {
	tokens := make(markets.TokensData, len(s.Tokens))
	for _, t := range s.Tokens {
		tokens[t.Address] = t
	}
	mkts := make(markets.MarketsData, len(s.Markets))
	for _, m := range s.Markets {
		m.LongToken = tokens[m.LongTokenAddress]
		m.ShortToken = tokens[m.ShortTokenAddress]
		m.IndexToken = tokens[m.IndexTokenAddress]
		mkts[m.MarketTokenAddress] = m
	}
	return tokens, mkts
}
