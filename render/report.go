// Package render 把报价、持仓、盈亏的核心数值整理成给人看的文本和给机器
// 看的 JSON。只读核心类型，不回写。
package render

import (
	"time"

	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/risk"
	"market-maker-core/strategy/asmm"
)

// QuoteReport 一次报价的展示快照。
type QuoteReport struct {
	Symbol      string    `json:"symbol"`
	Ts          time.Time `json:"ts"`
	Mid         float64   `json:"mid"`
	Reservation float64   `json:"reservation"`
	Bid         float64   `json:"bid"`
	Ask         float64   `json:"ask"`
	Spread      float64   `json:"spread"`
	SpreadBps   float64   `json:"spreadBps"`
	Size        float64   `json:"size"`
}

// NewQuoteReport 从市场状态和报价构建展示快照。报价中点即保留价格。
func NewQuoteReport(symbol string, st market.State, q asmm.Quote, size float64) QuoteReport {
	return QuoteReport{
		Symbol:      symbol,
		Ts:          time.Now().UTC(),
		Mid:         st.MidPrice,
		Reservation: q.Mid(),
		Bid:         q.Bid,
		Ask:         q.Ask,
		Spread:      q.Spread(),
		SpreadBps:   q.SpreadBps(),
		Size:        size,
	}
}

// PositionReport 当前持仓的展示快照。
type PositionReport struct {
	Symbol        string    `json:"symbol"`
	Ts            time.Time `json:"ts"`
	Direction     string    `json:"direction"` // long/short/flat
	Size          float64   `json:"size"`
	AvgEntryPrice float64   `json:"avgEntryPrice"`
	Mark          float64   `json:"mark"`
	Notional      float64   `json:"notional"`
	Unrealized    float64   `json:"unrealized"`
}

// NewPositionReport 按给定标记价构建持仓快照。
func NewPositionReport(symbol string, pos inventory.Position, mark float64) PositionReport {
	direction := "flat"
	if pos.IsLong() {
		direction = "long"
	} else if pos.IsShort() {
		direction = "short"
	}
	size := pos.Size
	if size < 0 {
		size = -size
	}
	return PositionReport{
		Symbol:        symbol,
		Ts:            time.Now().UTC(),
		Direction:     direction,
		Size:          pos.Size,
		AvgEntryPrice: pos.AvgEntryPrice,
		Mark:          mark,
		Notional:      size * mark,
		Unrealized:    inventory.Unrealized(pos, mark),
	}
}

// PnLReport 盈亏展示快照。Equity/DailyPnL/MaxDrawdown 仅在从监控器
// 构建时填充。
type PnLReport struct {
	Symbol      string    `json:"symbol"`
	Ts          time.Time `json:"ts"`
	Realized    float64   `json:"realized"`
	Unrealized  float64   `json:"unrealized"`
	Total       float64   `json:"total"`
	Equity      float64   `json:"equity,omitempty"`
	DailyPnL    float64   `json:"dailyPnL,omitempty"`
	MaxDrawdown float64   `json:"maxDrawdown,omitempty"`

	hasEquity bool
}

// NewPnLReport 从账本盈亏构建快照。
func NewPnLReport(symbol string, pnl inventory.PnL) PnLReport {
	return PnLReport{
		Symbol:     symbol,
		Ts:         time.Now().UTC(),
		Realized:   pnl.Realized,
		Unrealized: pnl.Unrealized,
		Total:      pnl.Total(),
	}
}

// NewPnLReportFromMetrics 从风控监控器的指标构建快照，带权益与回撤。
func NewPnLReportFromMetrics(symbol string, m risk.PnLMetrics, equity float64) PnLReport {
	return PnLReport{
		Symbol:      symbol,
		Ts:          time.Now().UTC(),
		Realized:    m.RealizedPnL,
		Unrealized:  m.UnrealizedPnL,
		Total:       m.TotalPnL,
		Equity:      equity,
		DailyPnL:    m.DailyPnL,
		MaxDrawdown: m.MaxDrawdown,
		hasEquity:   true,
	}
}
