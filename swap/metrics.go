package swap

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the router's path selection.
type Metrics struct {
	findDuration       *prometheus.HistogramVec
	candidatePaths     prometheus.Counter
	disqualifiedPaths  prometheus.Counter
	noRouteResolutions prometheus.Counter
}

// NewMetrics registers the router metrics on the given registry. Routers
// are built per token pair over the same registry, so collectors already
// registered by an earlier router are reused.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		findDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swap",
			Subsystem: "router",
			Name:      "find_duration_seconds",
			Help:      "Time spent scoring candidate paths for one routing decision.",
			Buckets:   prometheus.DefBuckets,
		}, []string{}),
		candidatePaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swap",
			Subsystem: "router",
			Name:      "candidate_paths_total",
			Help:      "Candidate paths scored.",
		}),
		disqualifiedPaths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swap",
			Subsystem: "router",
			Name:      "disqualified_paths_total",
			Help:      "Candidate paths disqualified by liquidity or estimation failure.",
		}),
		noRouteResolutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "swap",
			Subsystem: "router",
			Name:      "no_route_total",
			Help:      "Routing decisions that resolved to no route.",
		}),
	}
	m.findDuration = registerOrReuse(registry, m.findDuration)
	m.candidatePaths = registerOrReuse(registry, m.candidatePaths)
	m.disqualifiedPaths = registerOrReuse(registry, m.disqualifiedPaths)
	m.noRouteResolutions = registerOrReuse(registry, m.noRouteResolutions)
	return m
}

func registerOrReuse[T prometheus.Collector](registry prometheus.Registerer, collector T) T {
	err := registry.Register(collector)
	if err == nil {
		return collector
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		return already.ExistingCollector.(T)
	}
	panic(err)
}
