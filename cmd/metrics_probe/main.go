package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"market-maker-core/metrics"
)

func main() {
	addr := flag.String("metricsAddr", ":9100", "Prometheus 指标监听地址")
	mid := flag.Float64("mid", 2000.0, "模拟中间价")
	spreadBps := flag.Float64("spreadBps", 12.5, "模拟报价价差(bps)")
	position := flag.Float64("position", 1.5, "模拟净仓位")
	realized := flag.Float64("realized", 25.0, "模拟已实现盈亏")
	unrealized := flag.Float64("unrealized", -3.0, "模拟未实现盈亏")
	drawdown := flag.Float64("drawdown", 0.01, "模拟最大回撤比例")
	flag.Parse()

	metrics.StartMetricsServer(*addr)
	fmt.Printf("metrics_probe started at %s\n", *addr)

	// 额外注册一个探针指标，确保 /metrics 可见 mm_* 前缀
	probe := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "mm_probe_test",
		Help: "Probe test metric",
	})
	prometheus.MustRegister(probe)
	probe.Set(1)

	// 初始设置一批核心指标，便于 Prometheus/Grafana 验证
	metrics.UpdateQuoteMetrics(*mid, *spreadBps, *mid)
	metrics.UpdatePositionMetrics(*position, *mid)
	metrics.UpdatePnLMetrics(*realized, *unrealized)
	metrics.UpdateRiskMetrics(*drawdown, 0)
	metrics.IncrementQuotes("bid")
	metrics.IncrementQuotes("ask")

	// 周期性微调，观察值变化
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	drift := 0.0
	for range ticker.C {
		drift += 0.1
		metrics.UpdateQuoteMetrics(*mid+drift, *spreadBps, *mid+drift)
		metrics.UpdatePnLMetrics(*realized+drift, *unrealized)
		metrics.IncrementQuotes("bid")
		metrics.IncrementQuotes("ask")
	}
}
