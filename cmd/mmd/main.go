package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"go.uber.org/zap"

	"market-maker-core/config"
	"market-maker-core/infrastructure/logger"
	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/metrics"
	"market-maker-core/posttrade"
	"market-maker-core/risk"
	"market-maker-core/session"
	"market-maker-core/strategy/asmm"
	"market-maker-core/types"
)

// mmd：常驻纸面报价进程。内置随机游走行情源（不连接交易所），持续
// 生成双边报价并撮合穿价成交，暴露 Prometheus 指标与结构化日志。
// 策略参数支持配置文件热更新；systemd 下汇报就绪与看门狗心跳。
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	base := flag.Float64("base", 100.0, "行情源起始中间价")
	feedVol := flag.Float64("feedVol", 0, "行情源每 tick 波动（0 按策略 σ 推导）")
	feedSpreadBps := flag.Float64("feedSpreadBps", 5, "行情源盘口价差（基点）")
	flag.Parse()

	cfg, err := config.LoadWithEnvOverrides(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	eventLog, err := buildLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer eventLog.Close()

	sess, err := buildSession(cfg, eventLog)
	if err != nil {
		log.Fatalf("初始化会话失败: %v", err)
	}
	markout := posttrade.NewAnalyzer()

	if cfg.Metrics.Enabled {
		metrics.StartMetricsServer(cfg.Metrics.Addr)
		eventLog.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 热更新只吸收策略参数，风控与会话配置需重启生效
	watcher, err := config.NewWatcher(*cfgPath, 2*time.Second, func(next config.AppConfig) {
		err := sess.UpdateStrategy(asmm.Config{
			Gamma:       next.Strategy.Gamma,
			Sigma:       next.Strategy.Sigma,
			K:           next.Strategy.K,
			TimeHorizon: next.Strategy.TimeHorizon,
		})
		if err != nil {
			eventLog.LogError(err, map[string]interface{}{
				"symbol": cfg.Session.Symbol,
				"stage":  "hot_reload",
			})
		}
	})
	if err != nil {
		log.Fatalf("初始化配置监听失败: %v", err)
	}
	watcher.OnError(func(err error) {
		eventLog.LogError(err, map[string]interface{}{"stage": "config_watch"})
	})
	if err := watcher.Start(ctx); err != nil {
		log.Fatalf("启动配置监听失败: %v", err)
	}
	defer watcher.Stop()

	go quoteLoop(ctx, cfg, sess, markout, eventLog, *base, *feedVol, *feedSpreadBps)
	go snapshotLoop(ctx, cfg.Session.Symbol, sess, markout, eventLog)

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		eventLog.Warn("sd_notify ready failed", zap.Error(err))
	}
	if interval, err := daemon.SdWatchdogEnabled(false); err == nil && interval > 0 {
		go watchdogLoop(ctx, interval)
	}
	eventLog.Info("mmd started",
		zap.String("symbol", cfg.Session.Symbol),
		zap.String("config", *cfgPath),
		zap.Float64("gamma", cfg.Strategy.Gamma),
		zap.Float64("sigma", cfg.Strategy.Sigma))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	daemon.SdNotify(false, daemon.SdNotifyStopping)
	cancel()

	sum := sess.Snapshot()
	eventLog.Info("mmd exit",
		zap.String("symbol", sum.Symbol),
		zap.Int64("ticks", sum.Stats.TotalTicks),
		zap.Int64("fills", sum.Stats.TotalFills),
		zap.Float64("position", sum.Position.Size),
		zap.Float64("realized", sum.PnL.Realized),
		zap.Float64("equity", sum.Equity))
}

func buildLogger(lp config.LoggingParams) (*logger.Logger, error) {
	logCfg := logger.DefaultConfig()
	if lp.Level != "" {
		logCfg.Level = lp.Level
	}
	if lp.File != "" {
		logCfg.Outputs = []string{"stdout", "file"}
		logCfg.OutputFile = lp.File
	}
	return logger.New(logCfg)
}

func buildSession(cfg config.AppConfig, eventLog *logger.Logger) (*session.Session, error) {
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

// quoteLoop 行情源与报价主循环。UTC 日内进度映射到策略的 [0, T)，
// 尾盘价差收敛，跨日由会话自行重置日内计数。
func quoteLoop(ctx context.Context, cfg config.AppConfig, sess *session.Session,
	markout *posttrade.Analyzer, eventLog *logger.Logger,
	base, feedVol, feedSpreadBps float64) {

	interval := sess.Config().QuoteInterval
	horizon := cfg.Strategy.TimeHorizon
	if feedVol <= 0 {
		dt := horizon * interval.Seconds() / 86400
		feedVol = cfg.Strategy.Sigma * math.Sqrt(dt)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	mid := base
	var resting asmm.Quote
	hasResting := false
	wasHalted := false

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now().UTC()
			mid += rng.NormFloat64() * feedVol
			if mid < 1 {
				mid = 1
			}
			half := mid * feedSpreadBps / 2 / 10000
			tapeBid, tapeAsk := mid-half, mid+half

			if hasResting {
				if tapeBid >= resting.Ask {
					paperFill(sess, markout, types.Sell, sess.Config().QuoteSize, resting.Ask, now)
				}
				if tapeAsk <= resting.Bid {
					paperFill(sess, markout, types.Buy, sess.Config().QuoteSize, resting.Bid, now)
				}
			}
			markout.Observe(mid, now)

			elapsed := dayFraction(now) * horizon
			st, err := market.NewState(mid, elapsed, horizon)
			if err != nil {
				eventLog.LogError(err, map[string]interface{}{"stage": "feed"})
				continue
			}
			quote, err := sess.OnTick(st)
			if err != nil {
				hasResting = false
				if errors.Is(err, session.ErrHalted) {
					if !wasHalted {
						eventLog.Warn("quoting halted, awaiting manual resume", zap.Error(err))
						wasHalted = true
					}
					continue
				}
				continue // 熔断等情况已在会话内记录
			}
			wasHalted = false
			resting = quote
			hasResting = true
		}
	}
}

func paperFill(sess *session.Session, markout *posttrade.Analyzer,
	side types.Side, qty, price float64, ts time.Time) {
	if _, err := sess.OnFill(inventory.Fill{Side: side, Quantity: qty, Price: price}); err != nil {
		return // 拒单已在会话内记录
	}
	markout.RecordFill(side, price, ts)
}

// snapshotLoop 周期性输出盈亏与 markout 快照日志。
func snapshotLoop(ctx context.Context, symbol string, sess *session.Session,
	markout *posttrade.Analyzer, eventLog *logger.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sum := sess.Snapshot()
			eventLog.LogPnL("pnl_snapshot", map[string]interface{}{
				"symbol":     symbol,
				"realized":   sum.PnL.Realized,
				"unrealized": sum.PnL.Unrealized,
				"total":      sum.PnL.Total(),
				"equity":     sum.Equity,
				"position":   sum.Position.Size,
			})
			st := markout.Stats()
			if st.TotalFills > 0 {
				fields := map[string]interface{}{
					"symbol":  symbol,
					"fills":   st.TotalFills,
					"pending": st.Pending,
				}
				for _, h := range st.Horizons {
					key := fmt.Sprintf("markout_%s_bps", h.Horizon)
					fields[key] = h.AvgMarkoutBps
				}
				eventLog.LogPnL("markout_snapshot", fields)
			}
		}
	}
}

func watchdogLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			daemon.SdNotify(false, daemon.SdNotifyWatchdog)
		}
	}
}

// dayFraction 返回 UTC 日内已过比例 [0, 1)。
func dayFraction(now time.Time) float64 {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return now.Sub(midnight).Seconds() / 86400
}
