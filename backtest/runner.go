package backtest

import (
	"errors"

	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/risk"
	"market-maker-core/session"
	"market-maker-core/strategy/asmm"
	"market-maker-core/types"
)

// Runner 把数据源按 tick 回放进会话：先用当前 tick 对上一轮挂出的报价
// 撮合（tick 买价打穿我方卖价即卖出成交，反之买入），再刷新报价。
// tick 序号映射到 [0, Horizon) 作为策略的已过时间。
type Runner struct {
	Session *session.Session
	Source  Source
	Horizon float64
}

// Result 一次回放的汇总。
type Result struct {
	Ticks    int // 消费的 tick 数
	Skipped  int // 价格非法被跳过的 tick 数
	Quotes   int // 成功刷新的报价次数
	Fills    int // 成交笔数
	Buys     int
	Sells    int
	Rejected int     // 被风控拒绝的成交
	Errors   int     // 其他报价/记账错误
	Volume   float64 // 成交数量合计

	MidMin  float64
	MidMax  float64
	MidMean float64

	FirstQuote asmm.Quote
	LastQuote  asmm.Quote
	HasQuote   bool

	Halted bool // 会话在回放途中停止
	Final  session.Summary
}

// Run 从头回放整个数据源。会话停止（触发日亏/回撤限制）时提前返回，
// 剩余 tick 留在数据源里。
func (r *Runner) Run() (Result, error) {
	if r.Session == nil || r.Source == nil {
		return Result{}, errors.New("runner not initialized")
	}
	if r.Horizon <= 0 {
		return Result{}, errors.New("horizon must be > 0")
	}
	r.Source.Reset()
	steps := r.Source.Len()
	if steps == 0 {
		return Result{}, errors.New("empty data source")
	}

	var res Result
	quoteSize := r.Session.Config().QuoteSize
	var resting asmm.Quote
	hasResting := false
	midSum := 0.0
	midCount := 0

	for i := 0; ; i++ {
		tick, ok := r.Source.Next()
		if !ok {
			break
		}
		res.Ticks++

		if tick.Bid <= 0 || tick.Ask <= 0 {
			res.Skipped++
			continue
		}
		mid := tick.Mid()

		// 先撮合：上一轮报价还挂在场内，本 tick 打穿即成交。
		if hasResting {
			if tick.Bid >= resting.Ask {
				r.applyFill(&res, inventory.Fill{
					Side:     types.Sell,
					Quantity: fillQuantity(quoteSize, tick.BidQty),
					Price:    resting.Ask,
				})
			}
			if tick.Ask <= resting.Bid {
				r.applyFill(&res, inventory.Fill{
					Side:     types.Buy,
					Quantity: fillQuantity(quoteSize, tick.AskQty),
					Price:    resting.Bid,
				})
			}
		}

		if mid < res.MidMin || midCount == 0 {
			res.MidMin = mid
		}
		if mid > res.MidMax {
			res.MidMax = mid
		}
		midSum += mid
		midCount++

		elapsed := r.Horizon * float64(i) / float64(steps)
		st, err := market.NewState(mid, elapsed, r.Horizon)
		if err != nil {
			res.Skipped++
			continue
		}

		quote, err := r.Session.OnTick(st)
		if err != nil {
			// 报价失败视同撤单，下一 tick 不再撮合旧价。
			hasResting = false
			if errors.Is(err, session.ErrHalted) {
				res.Halted = true
				break
			}
			res.Errors++
			continue
		}
		if !res.HasQuote {
			res.FirstQuote = quote
			res.HasQuote = true
		}
		res.LastQuote = quote
		res.Quotes++
		resting = quote
		hasResting = true
	}

	if midCount > 0 {
		res.MidMean = midSum / float64(midCount)
	}
	res.Final = r.Session.Snapshot()
	return res, nil
}

func (r *Runner) applyFill(res *Result, f inventory.Fill) {
	if _, err := r.Session.OnFill(f); err != nil {
		if errors.Is(err, risk.ErrPositionLimit) || errors.Is(err, risk.ErrNotionalLimit) {
			res.Rejected++
		} else {
			res.Errors++
		}
		return
	}
	res.Fills++
	res.Volume += f.Quantity
	if f.Side == types.Buy {
		res.Buys++
	} else {
		res.Sells++
	}
}

// fillQuantity 成交数量取报价数量与对手盘显示数量的较小者；
// 对手盘数量未知（0）时按全额成交。
func fillQuantity(quoteSize, available float64) float64 {
	if available > 0 && available < quoteSize {
		return available
	}
	return quoteSize
}
