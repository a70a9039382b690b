// Package metrics provides Prometheus metrics for the market maker
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 价差分布直方图桶（basis points）。
var spreadBuckets = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500}

var (
	// QuotesGenerated 按方向统计生成的报价。
	QuotesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mm_quotes_generated_total",
		Help: "策略报价次数",
	}, []string{"side"})

	// FillsApplied 按方向统计入账的成交。
	FillsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mm_fills_applied_total",
		Help: "入账成交数量",
	}, []string{"side"})

	// QuoteErrors 按错误类别统计被拒绝的计算。
	QuoteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mm_quote_errors_total",
		Help: "报价与账本更新错误数量",
	}, []string{"kind"})

	// ReservationPrice 最近一次保留价。
	ReservationPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_reservation_price",
		Help: "库存调整后的保留价",
	})

	// SpreadBps 最近一次报价价差（basis points）。
	SpreadBps = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_spread_bps",
		Help: "当前报价价差(bps)",
	})

	// MidPrice 策略使用的中间价。
	MidPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_mid_price",
		Help: "策略使用的 mid 价格",
	})

	// PositionNet 当前净仓位。
	PositionNet = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_position_net",
		Help: "当前净仓位",
	})

	// AvgEntryPrice 加权平均开仓价。
	AvgEntryPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_avg_entry_price",
		Help: "加权平均开仓价",
	})

	// PnLRealized 累计已实现盈亏。
	PnLRealized = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_pnl_realized",
		Help: "累计已实现盈亏",
	})

	// PnLUnrealized 按标记价计的未实现盈亏。
	PnLUnrealized = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_pnl_unrealized",
		Help: "当前未实现盈亏",
	})

	// PnLTotal 总盈亏。
	PnLTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_pnl_total",
		Help: "总盈亏(已实现+未实现)",
	})

	// MaxDrawdownRatio 峰值以来的最大回撤比例。
	MaxDrawdownRatio = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_max_drawdown_ratio",
		Help: "权益峰值以来的最大回撤比例",
	})

	// BreakerState 熔断状态(0=normal,1=tripped,2=cooldown)。
	BreakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mm_breaker_state",
		Help: "熔断状态(0=normal,1=tripped,2=cooldown)",
	})

	// SpreadDistribution 报价价差分布。
	SpreadDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mm_spread_distribution_bps",
		Help:    "报价价差分布(bps)",
		Buckets: spreadBuckets,
	})
)

// UpdateQuoteMetrics 每轮报价后刷新策略侧指标。
func UpdateQuoteMetrics(reservation, spreadBps, mid float64) {
	ReservationPrice.Set(reservation)
	SpreadBps.Set(spreadBps)
	MidPrice.Set(mid)
	SpreadDistribution.Observe(spreadBps)
}

// UpdatePositionMetrics 成交入账后刷新仓位指标。
func UpdatePositionMetrics(size, avgEntry float64) {
	PositionNet.Set(size)
	AvgEntryPrice.Set(avgEntry)
}

// UpdatePnLMetrics 刷新盈亏指标。
func UpdatePnLMetrics(realized, unrealized float64) {
	PnLRealized.Set(realized)
	PnLUnrealized.Set(unrealized)
	PnLTotal.Set(realized + unrealized)
}

// UpdateRiskMetrics 刷新风控指标。
func UpdateRiskMetrics(drawdown float64, breakerState int) {
	MaxDrawdownRatio.Set(drawdown)
	BreakerState.Set(float64(breakerState))
}

// IncrementQuotes side 取 "bid" 或 "ask"。
func IncrementQuotes(side string) {
	QuotesGenerated.WithLabelValues(side).Inc()
}

// IncrementFills side 取 "buy" 或 "sell"。
func IncrementFills(side string) {
	FillsApplied.WithLabelValues(side).Inc()
}

// IncrementQuoteErrors kind 为错误类别名，如 "invalid_market_state"。
func IncrementQuoteErrors(kind string) {
	QuoteErrors.WithLabelValues(kind).Inc()
}

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
