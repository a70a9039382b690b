package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"market-maker-core/backtest"
	"market-maker-core/config"
	"market-maker-core/infrastructure/logger"
	"market-maker-core/inventory"
	"market-maker-core/risk"
	"market-maker-core/session"
	"market-maker-core/strategy/asmm"
)

// 配置驱动的回测脚本：CSV tick 数据喂给完整的报价会话（含限额、熔断、
// 盈亏监控），输出回放汇总。
// 用法：
//
//	go run ./cmd/backtest -config configs/config.yaml -data data/ticks.csv -out summary.csv
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	dataPath := flag.String("data", "data/ticks.csv", "tick CSV 路径（bid,ask 或 ts,bid,ask,bid_qty,ask_qty）")
	outPath := flag.String("out", "", "若指定则写入 CSV 汇总")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	ticks, err := backtest.LoadCSV(*dataPath)
	if err != nil {
		log.Fatalf("读取 %s 失败: %v", *dataPath, err)
	}
	if len(ticks) == 0 {
		log.Fatalf("数据为空: %s", *dataPath)
	}

	sess, err := buildSession(cfg)
	if err != nil {
		log.Fatalf("初始化会话失败: %v", err)
	}

	runner := backtest.Runner{
		Session: sess,
		Source:  backtest.NewSliceSource(ticks),
		Horizon: cfg.Strategy.TimeHorizon,
	}
	start := time.Now()
	res, err := runner.Run()
	if err != nil {
		log.Fatalf("回放失败: %v", err)
	}

	log.Printf("symbol=%s ticks=%d quotes=%d fills=%d rejected=%d errors=%d elapsed=%s",
		cfg.Session.Symbol, res.Ticks, res.Quotes, res.Fills, res.Rejected, res.Errors,
		time.Since(start).Round(time.Millisecond))
	log.Printf("mid min=%.4f max=%.4f mean=%.4f", res.MidMin, res.MidMax, res.MidMean)
	log.Printf("position=%+.4f realized=%.6f unrealized=%.6f total=%.6f equity=%.2f",
		res.Final.Position.Size, res.Final.PnL.Realized, res.Final.PnL.Unrealized,
		res.Final.PnL.Total(), res.Final.Equity)
	if res.Halted {
		log.Printf("会话中途停止: %s（剩余 %d tick 未回放）", res.Final.HaltReason, runner.Source.Remaining())
	}

	if *outPath != "" {
		if err := writeSummaryCSV(*outPath, cfg.Session.Symbol, res); err != nil {
			log.Printf("写入汇总 CSV 失败: %v", err)
		} else {
			log.Printf("已写入汇总: %s", *outPath)
		}
	}
}

// buildSession 按配置组装会话，风控组件在对应限额全为零时省略。
func buildSession(cfg config.AppConfig) (*session.Session, error) {
	logCfg := logger.DefaultConfig()
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logCfg.Outputs = nil // 回测期间事件日志保持安静
	eventLog, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}

	model, err := asmm.NewModel(asmm.Config{
		Gamma:       cfg.Strategy.Gamma,
		Sigma:       cfg.Strategy.Sigma,
		K:           cfg.Strategy.K,
		TimeHorizon: cfg.Strategy.TimeHorizon,
	})
	if err != nil {
		return nil, err
	}

	comp := session.Components{
		Strategy: model,
		Ledger:   inventory.NewLedger(),
		Logger:   eventLog,
	}
	if lim := cfg.Risk.Limits; lim.MaxPositionUnits > 0 || lim.MaxNotional > 0 {
		comp.Limits = risk.NewLimitChecker(risk.Limits{
			MaxPositionUnits: lim.MaxPositionUnits,
			MaxNotional:      lim.MaxNotional,
			OrderScale:       lim.OrderScale,
		})
	}
	if br := cfg.Risk.Breaker; br.MaxDailyLoss > 0 || br.MaxConsecutiveLosses > 0 || br.RapidDrawdownPct > 0 {
		comp.Breaker = risk.NewCircuitBreaker(risk.BreakerConfig{
			MaxDailyLoss:         br.MaxDailyLoss,
			MaxConsecutiveLosses: br.MaxConsecutiveLosses,
			RapidDrawdownPct:     br.RapidDrawdownPct,
			DrawdownWindow:       time.Duration(br.DrawdownWindowSec) * time.Second,
			Cooldown:             time.Duration(br.CooldownSec) * time.Second,
		}, nil)
	}
	comp.Monitor = risk.NewPnLMonitor(risk.PnLLimits{
		DailyLossLimit:   cfg.Risk.PnL.DailyLossLimit,
		MaxDrawdownLimit: cfg.Risk.PnL.MaxDrawdownLimit,
		MinPnLThreshold:  cfg.Risk.PnL.MinPnLThreshold,
	}, cfg.Session.InitialEquity)

	return session.New(session.Config{
		Symbol:        cfg.Session.Symbol,
		QuoteSize:     cfg.Session.QuoteSize,
		QuoteInterval: time.Duration(cfg.Session.QuoteIntervalMs) * time.Millisecond,
	}, comp)
}

func writeSummaryCSV(path, symbol string, res backtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	header := []string{
		"symbol", "ticks", "quotes", "fills", "rejected",
		"midMin", "midMax", "midMean",
		"position", "realized", "unrealized", "total", "halted",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	record := []string{
		symbol,
		fmt.Sprintf("%d", res.Ticks),
		fmt.Sprintf("%d", res.Quotes),
		fmt.Sprintf("%d", res.Fills),
		fmt.Sprintf("%d", res.Rejected),
		fmt.Sprintf("%.6f", res.MidMin),
		fmt.Sprintf("%.6f", res.MidMax),
		fmt.Sprintf("%.6f", res.MidMean),
		fmt.Sprintf("%.6f", res.Final.Position.Size),
		fmt.Sprintf("%.6f", res.Final.PnL.Realized),
		fmt.Sprintf("%.6f", res.Final.PnL.Unrealized),
		fmt.Sprintf("%.6f", res.Final.PnL.Total()),
		fmt.Sprintf("%t", res.Halted),
	}
	return w.Write(record)
}
