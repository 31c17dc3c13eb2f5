// Package graph builds the ephemeral markets graph used for swap routing:
// token addresses are nodes, markets connecting a long/short collateral pair
// are edges. The graph is derived from a snapshot and rebuilt whenever the
// snapshot changes; it is never persisted and never mutated after Build.
package graph

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/markets"
)

// PairKey identifies an unordered token pair. The lower address (bytewise)
// always comes first so both traversal directions share one edge list.
type PairKey struct {
	A common.Address
	B common.Address
}

// NewPairKey builds the order-independent key for two token addresses.
func NewPairKey(a, b common.Address) PairKey {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// edge is an undirected connection between two token indices, served by one
// or more markets.
type edge struct {
	a, b    int
	markets []common.Address
}

// MarketsGraph is the derived adjacency structure. Tokens are assigned dense
// indices so traversal state can live in flat slices and bitsets.
type MarketsGraph struct {
	ctx *chains.ChainContext

	tokens       []common.Address
	tokenToIndex map[common.Address]int

	adjacency [][]int // token index -> edge indices
	edges     []edge

	edgesByPair map[PairKey][]common.Address

	// same-collateral markets keyed by their (single) collateral token.
	// They never participate in multi-hop edges; they only serve identity hops.
	spotByToken map[common.Address][]common.Address
}

// Build converts a flat market snapshot into an adjacency graph. Un-hydrated
// markets are skipped. An empty snapshot yields an empty graph.
func Build(ctx *chains.ChainContext, marketsData markets.MarketsData) *MarketsGraph {
	g := &MarketsGraph{
		ctx:          ctx,
		tokenToIndex: make(map[common.Address]int),
		edgesByPair:  make(map[PairKey][]common.Address),
		spotByToken:  make(map[common.Address][]common.Address),
	}

	edgeByPair := make(map[PairKey]int)

	for marketAddress, market := range marketsData {
		if market == nil || !market.IsHydrated() {
			continue
		}

		longToken := ctx.NormalizeTokenAddress(market.LongTokenAddress)
		shortToken := ctx.NormalizeTokenAddress(market.ShortTokenAddress)

		if longToken == shortToken {
			g.spotByToken[longToken] = append(g.spotByToken[longToken], marketAddress)
			continue
		}

		key := NewPairKey(longToken, shortToken)
		g.edgesByPair[key] = append(g.edgesByPair[key], marketAddress)

		aIdx := g.tokenIndex(longToken)
		bIdx := g.tokenIndex(shortToken)

		edgeIdx, exists := edgeByPair[key]
		if !exists {
			edgeIdx = len(g.edges)
			g.edges = append(g.edges, edge{a: aIdx, b: bIdx})
			edgeByPair[key] = edgeIdx
			g.adjacency[aIdx] = append(g.adjacency[aIdx], edgeIdx)
			g.adjacency[bIdx] = append(g.adjacency[bIdx], edgeIdx)
		}
		g.edges[edgeIdx].markets = append(g.edges[edgeIdx].markets, marketAddress)
	}

	return g
}

// tokenIndex returns the dense index for a token, assigning one on first use.
func (g *MarketsGraph) tokenIndex(token common.Address) int {
	if idx, exists := g.tokenToIndex[token]; exists {
		return idx
	}
	idx := len(g.tokens)
	g.tokens = append(g.tokens, token)
	g.tokenToIndex[token] = idx
	g.adjacency = append(g.adjacency, nil)
	return idx
}

// MarketsForPair returns the markets connecting the two tokens, after wrap
// normalization. Order of the arguments does not matter.
func (g *MarketsGraph) MarketsForPair(a, b common.Address) []common.Address {
	key := NewPairKey(g.ctx.NormalizeTokenAddress(a), g.ctx.NormalizeTokenAddress(b))
	return g.edgesByPair[key]
}

// SpotMarketsForToken returns the same-collateral markets whose single
// collateral is the given token.
func (g *MarketsGraph) SpotMarketsForToken(token common.Address) []common.Address {
	return g.spotByToken[g.ctx.NormalizeTokenAddress(token)]
}

// ReachableTokens returns the set of tokens directly reachable from the
// given token via some market.
func (g *MarketsGraph) ReachableTokens(token common.Address) []common.Address {
	idx, exists := g.tokenToIndex[g.ctx.NormalizeTokenAddress(token)]
	if !exists {
		return nil
	}
	neighbors := make([]common.Address, 0, len(g.adjacency[idx]))
	for _, edgeIdx := range g.adjacency[idx] {
		e := g.edges[edgeIdx]
		other := e.a
		if other == idx {
			other = e.b
		}
		neighbors = append(neighbors, g.tokens[other])
	}
	return neighbors
}
