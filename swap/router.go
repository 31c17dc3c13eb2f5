package swap

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	"github.com/gmx-io/gmx-interface-sub018/markets/graph"
)

// OrderBy is a path ordering criterion.
type OrderBy string

const (
	// OrderByLength prefers paths with fewer hops.
	OrderByLength OrderBy = "length"
	// OrderByLiquidity prefers the path whose bottleneck hop has the
	// largest available liquidity.
	OrderByLiquidity OrderBy = "liquidity"
)

// FindOptions tune one routing decision. A nil/empty Order means the
// default market-order policy: best net usdOut, liquidity-exhausted paths
// excluded entirely.
type FindOptions struct {
	Order []OrderBy
}

// RouterConfig wires a Router for one token pair over one snapshot.
type RouterConfig struct {
	Ctx         *chains.ChainContext
	MarketsData markets.MarketsData
	Graph       *graph.MarketsGraph

	FromTokenAddress common.Address
	ToTokenAddress   common.Address

	Estimator *Estimator

	// Optional observability; either may be nil.
	Registry prometheus.Registerer
	Logger   chains.Logger
}

func (c *RouterConfig) validate() error {
	if c.Ctx == nil {
		return errors.New("config: Ctx is required")
	}
	if c.MarketsData == nil {
		return errors.New("config: MarketsData is required")
	}
	if c.Graph == nil {
		return errors.New("config: Graph is required")
	}
	if c.Estimator == nil {
		return errors.New("config: Estimator is required")
	}
	return nil
}

// Router scores the candidate paths for one from/to token pair. Candidates
// are enumerated once at construction; FindSwapPath may then be called for
// any number of input sizes (e.g. per keystroke).
type Router struct {
	ctx       *chains.ChainContext
	markets   markets.MarketsData
	estimator *Estimator
	logger    chains.Logger
	metrics   *Metrics

	fromTokenAddress common.Address
	toTokenAddress   common.Address
	allPaths         []graph.SwapPath
}

// NewRouter enumerates the candidate paths for the pair and returns a
// reusable router. An unknown pair simply yields a router with no
// candidates; FindSwapPath then reports no route.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Router{
		ctx:              cfg.Ctx,
		markets:          cfg.MarketsData,
		estimator:        cfg.Estimator,
		logger:           cfg.Logger,
		fromTokenAddress: cfg.FromTokenAddress,
		toTokenAddress:   cfg.ToTokenAddress,
		allPaths:         cfg.Graph.FindAllSwapPaths(cfg.FromTokenAddress, cfg.ToTokenAddress, cfg.Ctx.MaxSwapPathHops),
	}
	if cfg.Registry != nil {
		r.metrics = NewMetrics(cfg.Registry)
	}
	return r, nil
}

// FindSwapPath scores every candidate and returns the best PathStats under
// the requested ordering, or nil when no route exists. "No route right now"
// is an expected UI state, not an error.
func (r *Router) FindSwapPath(usdIn *big.Int, opts *FindOptions) *PathStats {
	if r.metrics != nil {
		timer := prometheus.NewTimer(r.metrics.findDuration.WithLabelValues())
		defer timer.ObserveDuration()
	}

	if len(r.allPaths) == 0 {
		r.countNoRoute()
		return nil
	}

	preferShortest := false
	if opts != nil {
		for _, order := range opts.Order {
			if order == OrderByLength {
				preferShortest = true
			}
		}
	}

	var best *PathStats
	var bestLiquidity *big.Int

	for _, path := range r.allPaths {
		if r.metrics != nil {
			r.metrics.candidatePaths.Inc()
		}

		stats, err := r.estimator.EstimatePath(path, r.fromTokenAddress, r.toTokenAddress, usdIn)
		if err != nil {
			// a single broken candidate must not break the routing decision
			if r.logger != nil {
				r.logger.Warn("skipping candidate path", "error", err)
			}
			r.countDisqualified()
			continue
		}

		if preferShortest {
			liquidity := r.bottleneckLiquidity(path)
			if best == nil ||
				len(stats.SwapPath) < len(best.SwapPath) ||
				(len(stats.SwapPath) == len(best.SwapPath) && liquidity.Cmp(bestLiquidity) > 0) {
				best = stats
				bestLiquidity = liquidity
			}
			continue
		}

		// market-order policy: liquidity-exhausted paths are excluded, not down-ranked
		if stats.IsOutLiquidity {
			r.countDisqualified()
			continue
		}
		if best == nil || stats.UsdOut.Cmp(best.UsdOut) > 0 {
			best = stats
		}
	}

	if best == nil {
		r.countNoRoute()
	}
	return best
}

// bottleneckLiquidity returns the smallest available out-side liquidity
// along a path, evaluated against the untouched snapshot.
func (r *Router) bottleneckLiquidity(path graph.SwapPath) *big.Int {
	if len(path) == 0 {
		return new(big.Int)
	}

	var bottleneck *big.Int
	currentToken := r.fromTokenAddress

	for _, marketAddress := range path {
		market, err := r.markets.Get(marketAddress)
		if err != nil {
			return new(big.Int)
		}
		tokenOut, err := market.OppositeCollateral(r.ctx, currentToken)
		if err != nil {
			return new(big.Int)
		}
		outIsLong := market.TokenPoolType(r.ctx, tokenOut.Address) == markets.PoolLong

		liquidity := market.AvailableSwapLiquidityUsd(outIsLong)
		if bottleneck == nil || liquidity.Cmp(bottleneck) < 0 {
			bottleneck = liquidity
		}
		currentToken = tokenOut.Address
	}
	return bottleneck
}

func (r *Router) countDisqualified() {
	if r.metrics != nil {
		r.metrics.disqualifiedPaths.Inc()
	}
}

func (r *Router) countNoRoute() {
	if r.metrics != nil {
		r.metrics.noRouteResolutions.Inc()
	}
}
