package keeper

import (
	"math/big"
	"sync"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SwapMetrics holds all Prometheus metrics for the swap module
type SwapMetrics struct {
	// Swap metrics
	SwapsTotal        *prometheus.CounterVec
	SwapVolume        *prometheus.CounterVec
	SwapFeesCollected *prometheus.CounterVec
	SwapLatency       prometheus.Histogram

	// Liquidity metrics
	LiquidityAdded   *prometheus.CounterVec
	LiquidityRemoved *prometheus.CounterVec
	PoolReserves     *prometheus.GaugeVec
	ShareSupply      *prometheus.GaugeVec

	// Pool metrics
	PoolsTotal prometheus.Gauge
	PoolSyncs  *prometheus.CounterVec

	// Safety metrics
	InvariantViolations *prometheus.CounterVec
}

var (
	swapMetricsOnce sync.Once
	swapMetrics     *SwapMetrics
)

// NewSwapMetrics creates and registers swap metrics (singleton pattern)
func NewSwapMetrics() *SwapMetrics {
	swapMetricsOnce.Do(func() {
		swapMetrics = &SwapMetrics{
			SwapsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "swaps_total",
					Help:      "Total number of swaps attempted",
				},
				[]string{"pool_id", "kind", "status"},
			),
			SwapVolume: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "swap_volume_total",
					Help:      "Total swap input volume in base units",
				},
				[]string{"pool_id", "denom"},
			),
			SwapFeesCollected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "swap_fees_collected_total",
					Help:      "Total swap fees retained by pools",
				},
				[]string{"pool_id", "denom"},
			),
			SwapLatency: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "swap_latency_seconds",
					Help:      "Swap execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
			),

			LiquidityAdded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "liquidity_added_total",
					Help:      "Total liquidity added to pools",
				},
				[]string{"pool_id", "denom"},
			),
			LiquidityRemoved: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "liquidity_removed_total",
					Help:      "Total liquidity removed from pools",
				},
				[]string{"pool_id", "denom"},
			),
			PoolReserves: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "pool_reserves",
					Help:      "Current pool reserves",
				},
				[]string{"pool_id", "denom"},
			),
			ShareSupply: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "share_supply",
					Help:      "LP share supply per pool",
				},
				[]string{"pool_id"},
			),

			PoolsTotal: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "pools_total",
					Help:      "Number of pools",
				},
			),
			PoolSyncs: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "pool_syncs_total",
					Help:      "Reserve reconciliations that absorbed a balance drift",
				},
				[]string{"pool_id"},
			),

			InvariantViolations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "swapper",
					Subsystem: "swap",
					Name:      "invariant_violations_total",
					Help:      "Operations rejected because an invariant would break",
				},
				[]string{"invariant"},
			),
		}
	})
	return swapMetrics
}

// toFloat converts a base-unit amount for a gauge or counter. Precision loss is fine here.
func toFloat(v math.Int) float64 {
	f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
	return f
}
