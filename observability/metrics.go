package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type engineMetrics struct {
	swaps         *prometheus.CounterVec
	swapVolume    prometheus.Counter
	liquidityAdds prometheus.Counter
	htlc          *prometheus.CounterVec
	plays         *prometheus.CounterVec
}

var (
	engineMetricsOnce sync.Once
	engineRegistry    *engineMetrics
)

// Engine returns the lazily-initialised metrics registry tracking engine
// activity.
func Engine() *engineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &engineMetrics{
			swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "fizzdex",
				Subsystem: "amm",
				Name:      "swaps_total",
				Help:      "Total executed swaps segmented by pool pair.",
			}, []string{"pair"}),
			swapVolume: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "fizzdex",
				Subsystem: "amm",
				Name:      "swap_volume_total",
				Help:      "Cumulative input-side swap volume in base units.",
			}),
			liquidityAdds: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "fizzdex",
				Subsystem: "amm",
				Name:      "liquidity_adds_total",
				Help:      "Total successful liquidity deposits.",
			}),
			htlc: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "fizzdex",
				Subsystem: "htlc",
				Name:      "transitions_total",
				Help:      "Atomic swap state transitions segmented by target state.",
			}, []string{"state"}),
			plays: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "fizzdex",
				Subsystem: "rewards",
				Name:      "plays_total",
				Help:      "Fizz Caps plays segmented by reward tier.",
			}, []string{"tier"}),
		}
		prometheus.MustRegister(
			engineRegistry.swaps,
			engineRegistry.swapVolume,
			engineRegistry.liquidityAdds,
			engineRegistry.htlc,
			engineRegistry.plays,
		)
	})
	return engineRegistry
}

// RecordSwap increments the swap counter for a pool pair and adds the input
// amount to the cumulative volume counter.
func (m *engineMetrics) RecordSwap(pair string, amountIn uint64) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(pair).Inc()
	m.swapVolume.Add(float64(amountIn))
}

// RecordLiquidityAdd increments the deposit counter.
func (m *engineMetrics) RecordLiquidityAdd() {
	if m == nil {
		return
	}
	m.liquidityAdds.Inc()
}

// RecordHTLCTransition increments the transition counter for the target
// state ("initiated", "completed" or "refunded").
func (m *engineMetrics) RecordHTLCTransition(state string) {
	if m == nil {
		return
	}
	m.htlc.WithLabelValues(state).Inc()
}

// RecordPlay increments the play counter for a reward tier.
func (m *engineMetrics) RecordPlay(tier string) {
	if m == nil {
		return
	}
	m.plays.WithLabelValues(tier).Inc()
}
