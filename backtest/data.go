// Package backtest 将历史行情回放进报价会话：tick 穿过挂出的买卖价即产生
// 成交，跑完后给出报价/成交/盈亏汇总。
package backtest

import "time"

// Tick 一笔盘口快照。BidQty/AskQty 为 0 表示数量未知。
type Tick struct {
	Ts     time.Time
	Bid    float64
	Ask    float64
	BidQty float64
	AskQty float64
}

// Mid 盘口中间价。
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Spread 绝对价差。
func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// SpreadBps 价差（基点）。mid 非正时返回 0。
func (t Tick) SpreadBps() float64 {
	mid := t.Mid()
	if mid <= 0 {
		return 0
	}
	return t.Spread() / mid * 10000
}

// Liquidity 盘口两侧挂单量之和。
func (t Tick) Liquidity() float64 {
	return t.BidQty + t.AskQty
}

// Imbalance 盘口不平衡度，(bid-ask)/(bid+ask)，区间 [-1, 1]。
// 两侧数量都为 0 时返回 0。
func (t Tick) Imbalance() float64 {
	total := t.Liquidity()
	if total <= 0 {
		return 0
	}
	return (t.BidQty - t.AskQty) / total
}

// Bar 一根 OHLCV K 线。
type Bar struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range 最高价到最低价的跨度。
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// Body 实体长度 |close-open|。
func (b Bar) Body() float64 {
	body := b.Close - b.Open
	if body < 0 {
		return -body
	}
	return body
}

// IsBullish 收盘高于开盘。
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish 收盘低于开盘。
func (b Bar) IsBearish() bool {
	return b.Close < b.Open
}

// TypicalPrice (high+low+close)/3，常用作 VWAP 的近似。
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Source 按时间顺序吐出 tick 的数据源。
type Source interface {
	// Next 返回下一笔 tick 并前移游标；数据耗尽返回 false。
	Next() (Tick, bool)
	// Peek 返回下一笔 tick 但不前移游标。
	Peek() (Tick, bool)
	// Reset 把游标拨回开头。
	Reset()
	// Len 数据源内 tick 总数。
	Len() int
	// Remaining 尚未读取的 tick 数。
	Remaining() int
}

// SliceSource 基于内存切片的 Source 实现。
type SliceSource struct {
	ticks []Tick
	idx   int
}

// NewSliceSource 用给定 tick 序列构造数据源，游标在开头。
func NewSliceSource(ticks []Tick) *SliceSource {
	return &SliceSource{ticks: ticks}
}

// Push 在尾部追加一笔 tick。
func (s *SliceSource) Push(t Tick) {
	s.ticks = append(s.ticks, t)
}

// Next 实现 Source。
func (s *SliceSource) Next() (Tick, bool) {
	if s.idx >= len(s.ticks) {
		return Tick{}, false
	}
	t := s.ticks[s.idx]
	s.idx++
	return t, true
}

// Peek 实现 Source。
func (s *SliceSource) Peek() (Tick, bool) {
	if s.idx >= len(s.ticks) {
		return Tick{}, false
	}
	return s.ticks[s.idx], true
}

// Reset 实现 Source。
func (s *SliceSource) Reset() {
	s.idx = 0
}

// Len 实现 Source。
func (s *SliceSource) Len() int {
	return len(s.ticks)
}

// Remaining 实现 Source。
func (s *SliceSource) Remaining() int {
	return len(s.ticks) - s.idx
}

// Index 当前游标位置。
func (s *SliceSource) Index() int {
	return s.idx
}

// TimeRange 首尾 tick 的时间戳；数据为空时 ok 为 false。
func (s *SliceSource) TimeRange() (first, last time.Time, ok bool) {
	if len(s.ticks) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.ticks[0].Ts, s.ticks[len(s.ticks)-1].Ts, true
}
