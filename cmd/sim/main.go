package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"market-maker-core/infrastructure/logger"
	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/metrics"
	"market-maker-core/risk"
	"market-maker-core/session"
	"market-maker-core/strategy/asmm"
	"market-maker-core/types"
)

// 本地模拟：种子化随机游走生成行情，tick 打穿挂出的报价即成交。
// 不连接任何交易所，仅用于观察策略与风控行为。
func main() {
	symbol := flag.String("symbol", "ETHUSDC", "trading symbol")
	ticks := flag.Int("ticks", 100, "number of ticks to simulate")
	seed := flag.Int64("seed", 1, "random seed")
	base := flag.Float64("base", 100.0, "starting mid price")
	vol := flag.Float64("vol", 1.0, "per-tick price stddev")
	mktSpreadBps := flag.Float64("mktSpreadBps", 5, "market bid/ask spread in bps")
	gamma := flag.Float64("gamma", 0.1, "risk aversion γ")
	sigma := flag.Float64("sigma", 2.0, "volatility σ")
	k := flag.Float64("k", 1.5, "order arrival intensity κ")
	size := flag.Float64("size", 1.0, "quote size per side")
	equity := flag.Float64("equity", 10000, "initial equity for pnl tracking")
	maxPos := flag.Float64("maxPos", 10, "risk: max net position (0 to disable)")
	maxNotional := flag.Float64("maxNotional", 0, "risk: max notional (0 to disable)")
	dailyLoss := flag.Float64("dailyLoss", 0, "risk: daily loss halt (0 to disable)")
	verbose := flag.Bool("v", false, "log session events to stdout")
	metricsAddr := flag.String("metricsAddr", "", "serve /metrics on this address (empty to disable)")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	logCfg.Outputs = nil
	if *verbose {
		logCfg.Outputs = []string{"stdout"}
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fatal(err)
	}
	defer log.Close()

	cfg, err := asmm.NewConfig(*gamma, *sigma, *k, 1.0)
	if err != nil {
		fatal(err)
	}
	model, err := asmm.NewModel(cfg)
	if err != nil {
		fatal(err)
	}

	sess, err := session.New(session.Config{Symbol: *symbol, QuoteSize: *size}, session.Components{
		Strategy: model,
		Ledger:   inventory.NewLedger(),
		Limits:   risk.NewLimitChecker(risk.Limits{MaxPositionUnits: *maxPos, MaxNotional: *maxNotional}),
		Monitor:  risk.NewPnLMonitor(risk.PnLLimits{DailyLossLimit: *dailyLoss}, *equity),
		Logger:   log,
	})
	if err != nil {
		fatal(err)
	}

	if *metricsAddr != "" {
		metrics.StartMetricsServer(*metricsAddr)
	}

	rng := rand.New(rand.NewSource(*seed))
	mid := *base
	var resting asmm.Quote
	hasResting := false

	for i := 0; i < *ticks; i++ {
		mid += rng.NormFloat64() * *vol
		if mid < 1 {
			mid = 1
		}
		half := mid * *mktSpreadBps / 2 / 10000
		tapeBid, tapeAsk := mid-half, mid+half

		if hasResting {
			if tapeBid >= resting.Ask {
				applyFill(sess, types.Sell, *size, resting.Ask)
			}
			if tapeAsk <= resting.Bid {
				applyFill(sess, types.Buy, *size, resting.Bid)
			}
		}

		elapsed := float64(i) / float64(*ticks)
		st, err := market.NewState(mid, elapsed, 1.0)
		if err != nil {
			fmt.Printf("tick %3d mid=%.4f skipped: %v\n", i, mid, err)
			continue
		}
		quote, err := sess.OnTick(st)
		if err != nil {
			hasResting = false
			if errors.Is(err, session.ErrHalted) {
				fmt.Printf("tick %3d session halted: %v\n", i, err)
				break
			}
			fmt.Printf("tick %3d mid=%.4f no quote: %v\n", i, mid, err)
			continue
		}
		resting = quote
		hasResting = true
		pos := sess.Snapshot().Position
		fmt.Printf("tick %3d mid=%.4f bid=%.4f ask=%.4f inv=%+.4f\n",
			i, mid, quote.Bid, quote.Ask, pos.Size)
	}

	sum := sess.Snapshot()
	fmt.Println("---")
	fmt.Printf("ticks=%d quotes=%d fills=%d rejected+errors=%d\n",
		sum.Stats.TotalTicks, sum.Stats.TotalQuotes, sum.Stats.TotalFills, sum.Stats.TotalErrors)
	fmt.Printf("position=%+.4f avg=%.4f\n", sum.Position.Size, sum.Position.AvgEntryPrice)
	fmt.Printf("realized=%.6f unrealized=%.6f total=%.6f equity=%.2f\n",
		sum.PnL.Realized, sum.PnL.Unrealized, sum.PnL.Total(), sum.Equity)
	if sum.HaltReason != "" {
		fmt.Printf("halted: %s\n", sum.HaltReason)
	}
}

func applyFill(sess *session.Session, side types.Side, qty, price float64) {
	if _, err := sess.OnFill(inventory.Fill{Side: side, Quantity: qty, Price: price}); err != nil {
		fmt.Printf("  fill %s %.4f @ %.4f rejected: %v\n", side, qty, price, err)
		return
	}
	fmt.Printf("  fill %s %.4f @ %.4f\n", side, qty, price)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "sim: %v\n", err)
	os.Exit(1)
}
