// Package posttrade 统计成交后的 markout：以成交价为基准，看中间价在固定
// 视界后向哪个方向走了多少。负值代表被逆向选择。仅作诊断，不回写交易链路。
package posttrade

import (
	"sort"
	"sync"
	"time"

	"market-maker-core/types"
)

// DefaultHorizons 默认观察视界。
var DefaultHorizons = []time.Duration{time.Second, 5 * time.Second}

// pendingFill 尚未观察完所有视界的成交。
type pendingFill struct {
	side     types.Side
	price    float64
	ts       time.Time
	observed []bool
	left     int
}

// HorizonStats 单个视界的汇总。
type HorizonStats struct {
	Horizon       time.Duration
	Count         int
	AvgMarkoutBps float64 // 平均 markout（基点），买入后涨、卖出后跌为正
	AdverseRate   float64 // markout < 0 的占比
}

// Stats 分析器汇总。
type Stats struct {
	TotalFills int
	Pending    int
	Horizons   []HorizonStats
}

// Analyzer 按事件时间累计 markout。成交与行情都由调用方推送，时间戳
// 由调用方给定，因此回测与实盘共用同一套逻辑。
type Analyzer struct {
	horizons []time.Duration

	mu      sync.Mutex
	pending []*pendingFill
	total   int
	sum     []float64
	count   []int
	adverse []int
}

// NewAnalyzer 创建分析器。不传视界时使用 DefaultHorizons；视界会排序去零。
func NewAnalyzer(horizons ...time.Duration) *Analyzer {
	hs := make([]time.Duration, 0, len(horizons))
	for _, h := range horizons {
		if h > 0 {
			hs = append(hs, h)
		}
	}
	if len(hs) == 0 {
		hs = append(hs, DefaultHorizons...)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return &Analyzer{
		horizons: hs,
		sum:      make([]float64, len(hs)),
		count:    make([]int, len(hs)),
		adverse:  make([]int, len(hs)),
	}
}

// RecordFill 登记一笔成交。价格非正或方向非法时忽略。
func (a *Analyzer) RecordFill(side types.Side, price float64, ts time.Time) {
	if price <= 0 || !side.Valid() {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.total++
	a.pending = append(a.pending, &pendingFill{
		side:     side,
		price:    price,
		ts:       ts,
		observed: make([]bool, len(a.horizons)),
		left:     len(a.horizons),
	})
}

// Observe 推送一次中间价观测。每个视界取首个到达该视界的观测值；
// 所有视界观察完的成交并入汇总后丢弃。
func (a *Analyzer) Observe(mid float64, ts time.Time) {
	if mid <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.pending[:0]
	for _, f := range a.pending {
		age := ts.Sub(f.ts)
		for j, h := range a.horizons {
			if f.observed[j] {
				continue
			}
			if age < h {
				break // 视界升序，后面的更远
			}
			ratio := f.side.Sign() * (mid - f.price) / f.price
			a.sum[j] += ratio
			a.count[j]++
			if ratio < 0 {
				a.adverse[j]++
			}
			f.observed[j] = true
			f.left--
		}
		if f.left > 0 {
			kept = append(kept, f)
		}
	}
	a.pending = kept
}

// Stats 当前汇总快照。
func (a *Analyzer) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := Stats{
		TotalFills: a.total,
		Pending:    len(a.pending),
		Horizons:   make([]HorizonStats, len(a.horizons)),
	}
	for j, h := range a.horizons {
		hs := HorizonStats{Horizon: h, Count: a.count[j]}
		if a.count[j] > 0 {
			hs.AvgMarkoutBps = a.sum[j] / float64(a.count[j]) * 10000
			hs.AdverseRate = float64(a.adverse[j]) / float64(a.count[j])
		}
		st.Horizons[j] = hs
	}
	return st
}

// Reset 清空所有成交与汇总，视界保持不变。
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = nil
	a.total = 0
	for j := range a.horizons {
		a.sum[j] = 0
		a.count[j] = 0
		a.adverse[j] = 0
	}
}
