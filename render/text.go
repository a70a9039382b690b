package render

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Options 控制文本输出的小数位。零值字段落回默认。
type Options struct {
	PriceScale int32 // 价格小数位，默认 4
	QtyScale   int32 // 数量小数位，默认 4
	PnLScale   int32 // 盈亏小数位，默认 6
}

// DefaultOptions 返回默认小数位。
func DefaultOptions() Options {
	return Options{PriceScale: 4, QtyScale: 4, PnLScale: 6}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.PriceScale <= 0 {
		o.PriceScale = def.PriceScale
	}
	if o.QtyScale <= 0 {
		o.QtyScale = def.QtyScale
	}
	if o.PnLScale <= 0 {
		o.PnLScale = def.PnLScale
	}
	return o
}

type field struct {
	label string
	value string
}

// Report 可渲染的展示快照，实现集固定在本包内。
type Report interface {
	title() string
	fields(o Options) []field
}

// Text 将报告按对齐字段写成多行文本。
func Text(w io.Writer, r Report, o Options) error {
	o = o.normalized()
	if _, err := fmt.Fprintln(w, r.title()); err != nil {
		return err
	}
	rows := r.fields(o)
	width := 0
	for _, row := range rows {
		if len(row.label) > width {
			width = len(row.label)
		}
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "  %-*s  %s\n", width, row.label, row.value); err != nil {
			return err
		}
	}
	return nil
}

// fixed 按小数位截断显示，四舍五入。
func fixed(v float64, scale int32) string {
	return decimal.NewFromFloat(v).StringFixed(scale)
}

func percent(ratio float64) string {
	return decimal.NewFromFloat(ratio * 100).StringFixed(2) + "%"
}

func (r QuoteReport) title() string {
	return "quote " + r.Symbol
}

func (r QuoteReport) fields(o Options) []field {
	return []field{
		{"mid", fixed(r.Mid, o.PriceScale)},
		{"reservation", fixed(r.Reservation, o.PriceScale)},
		{"bid", fixed(r.Bid, o.PriceScale)},
		{"ask", fixed(r.Ask, o.PriceScale)},
		{"spread", fmt.Sprintf("%s (%s bps)", fixed(r.Spread, o.PriceScale), fixed(r.SpreadBps, 2))},
		{"size", fixed(r.Size, o.QtyScale)},
	}
}

func (r PositionReport) title() string {
	return "position " + r.Symbol
}

func (r PositionReport) fields(o Options) []field {
	rows := []field{
		{"direction", r.Direction},
		{"size", fixed(r.Size, o.QtyScale)},
	}
	if r.Direction != "flat" {
		rows = append(rows,
			field{"avg entry", fixed(r.AvgEntryPrice, o.PriceScale)},
			field{"mark", fixed(r.Mark, o.PriceScale)},
			field{"notional", fixed(r.Notional, o.PnLScale)},
			field{"unrealized", fixed(r.Unrealized, o.PnLScale)},
		)
	}
	return rows
}

func (r PnLReport) title() string {
	return "pnl " + r.Symbol
}

func (r PnLReport) fields(o Options) []field {
	rows := []field{
		{"realized", fixed(r.Realized, o.PnLScale)},
		{"unrealized", fixed(r.Unrealized, o.PnLScale)},
		{"total", fixed(r.Total, o.PnLScale)},
	}
	if r.hasEquity {
		rows = append(rows,
			field{"equity", fixed(r.Equity, o.PnLScale)},
			field{"daily pnl", fixed(r.DailyPnL, o.PnLScale)},
			field{"max drawdown", percent(r.MaxDrawdown)},
		)
	}
	return rows
}
