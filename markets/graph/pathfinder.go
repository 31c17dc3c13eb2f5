package graph

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub018/bitset"
)

// SwapPath is an ordered sequence of market addresses. A zero-length path is
// valid and means no swap is required.
type SwapPath []common.Address

// findPathsState holds the traversal state of one enumeration so the
// recursion carries a single pointer.
type findPathsState struct {
	visited     bitset.BitSet // token index -> already on the current path
	marketStack []common.Address
	results     []SwapPath
	maxHops     int
	target      int
}

// FindAllSwapPaths enumerates all simple paths from fromToken to toToken up
// to maxHops edges, expanding every market that serves each traversed pair.
// Cycles are impossible: a token index is never revisited within one path.
// The finder makes no ordering guarantee; scoring and selection happen in
// the estimator.
func (g *MarketsGraph) FindAllSwapPaths(fromToken, toToken common.Address, maxHops int) []SwapPath {
	from := g.ctx.NormalizeTokenAddress(fromToken)
	to := g.ctx.NormalizeTokenAddress(toToken)

	if from == to {
		// identity after wrap normalization: a single empty path
		return []SwapPath{{}}
	}

	fromIdx, fromExists := g.tokenToIndex[from]
	toIdx, toExists := g.tokenToIndex[to]
	if !fromExists || !toExists {
		return nil
	}
	if maxHops <= 0 {
		return nil
	}

	state := &findPathsState{
		visited:     bitset.NewBitSet(uint64(len(g.tokens))),
		marketStack: make([]common.Address, 0, maxHops),
		maxHops:     maxHops,
		target:      toIdx,
	}
	state.visited.Set(uint64(fromIdx))

	g.walk(state, fromIdx)
	return state.results
}

// walk extends the current path from the given token index.
func (g *MarketsGraph) walk(state *findPathsState, current int) {
	for _, edgeIdx := range g.adjacency[current] {
		e := g.edges[edgeIdx]
		next := e.a
		if next == current {
			next = e.b
		}
		if state.visited.IsSet(uint64(next)) {
			continue
		}

		for _, marketAddress := range e.markets {
			state.marketStack = append(state.marketStack, marketAddress)

			if next == state.target {
				path := make(SwapPath, len(state.marketStack))
				copy(path, state.marketStack)
				state.results = append(state.results, path)
			} else if len(state.marketStack) < state.maxHops {
				state.visited.Set(uint64(next))
				g.walk(state, next)
				state.visited.Unset(uint64(next))
			}

			state.marketStack = state.marketStack[:len(state.marketStack)-1]
		}
	}
}
