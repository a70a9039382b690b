// Package session ties the quoting model, the position ledger and the risk
// guards into one single-symbol trading session.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"market-maker-core/infrastructure/logger"
	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/metrics"
	"market-maker-core/risk"
	"market-maker-core/strategy/asmm"
	"market-maker-core/types"
)

// ErrHalted 会话因风控限制或人工操作停止报价。
var ErrHalted = errors.New("session halted")

// Config 会话配置
type Config struct {
	Symbol        string        // 交易对
	QuoteSize     float64       // 每侧报价数量
	QuoteInterval time.Duration // 报价周期，由调用方的循环使用
}

// Components 会话依赖组件。风控组件为 nil 时对应检查关闭。
type Components struct {
	Strategy asmm.Strategy
	Ledger   *inventory.Ledger
	Limits   *risk.LimitChecker
	Breaker  *risk.CircuitBreaker
	Monitor  *risk.PnLMonitor
	Logger   *logger.Logger
}

// Statistics 会话统计信息
type Statistics struct {
	StartTime     time.Time
	TotalTicks    int64
	TotalQuotes   int64
	TotalFills    int64
	TotalErrors   int64
	LastTickTime  time.Time
	LastQuoteTime time.Time
	LastFillTime  time.Time
}

// Summary 会话快照
type Summary struct {
	Symbol       string
	Position     inventory.Position
	PnL          inventory.PnL
	Equity       float64
	BreakerState string
	HaltReason   string
	Stats        Statistics
}

// Session 单交易对报价会话。OnTick/OnFill 串行化所有内部状态。
type Session struct {
	cfg      Config
	strategy asmm.Strategy
	ledger   *inventory.Ledger
	limits   *risk.LimitChecker
	breaker  *risk.CircuitBreaker
	monitor  *risk.PnLMonitor
	logger   *logger.Logger

	mu         sync.RWMutex
	halted     bool
	haltReason string
	stats      Statistics
	lastQuote  asmm.Quote
	hasQuote   bool
}

// New 创建会话
func New(cfg Config, comp Components) (*Session, error) {
	if cfg.Symbol == "" {
		return nil, errors.New("symbol is required")
	}
	if cfg.QuoteSize <= 0 {
		return nil, errors.New("quote size must be > 0")
	}
	if comp.Strategy == nil {
		return nil, errors.New("strategy is required")
	}
	if comp.Ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if comp.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.QuoteInterval <= 0 {
		cfg.QuoteInterval = time.Second
	}

	return &Session{
		cfg:      cfg,
		strategy: comp.Strategy,
		ledger:   comp.Ledger,
		limits:   comp.Limits,
		breaker:  comp.Breaker,
		monitor:  comp.Monitor,
		logger:   comp.Logger,
		stats:    Statistics{StartTime: time.Now()},
	}, nil
}

// OnTick 用最新市场状态刷新报价：先按 mid 重估持仓，再经熔断闸门生成
// 双边报价。返回的报价由调用方决定如何展示或挂出。
func (s *Session) OnTick(st market.State) (asmm.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalTicks++
	s.stats.LastTickTime = time.Now()

	s.rolloverDaily()

	// 重估持仓并推送权益
	unrealized, err := s.ledger.MarkToMarket(st.MidPrice)
	if err != nil {
		s.recordError(err)
		return asmm.Quote{}, err
	}
	pnl := s.ledger.PnL()
	if s.monitor != nil {
		s.monitor.UpdateUnrealized(unrealized)
		if s.breaker != nil {
			s.breaker.OnEquity(s.monitor.GetTotalEquity())
		}
		metrics.UpdateRiskMetrics(s.monitor.GetDrawdown(), int(s.breakerState()))
	}
	metrics.UpdatePnLMetrics(pnl.Realized, pnl.Unrealized)

	if s.halted {
		return asmm.Quote{}, fmt.Errorf("%w: %s", ErrHalted, s.haltReason)
	}
	if s.breaker != nil && !s.breaker.Allow() {
		err := fmt.Errorf("%w: %s", risk.ErrBreakerOpen, s.breaker.Reason())
		s.logger.LogRisk("breaker_open", map[string]interface{}{
			"symbol": s.cfg.Symbol,
			"reason": s.breaker.Reason(),
		})
		s.recordError(err)
		return asmm.Quote{}, err
	}

	pos := s.ledger.Position()
	quote, err := s.strategy.Quotes(st, pos.Size)
	if err != nil {
		s.logger.LogError(err, map[string]interface{}{
			"symbol":    s.cfg.Symbol,
			"mid":       st.MidPrice,
			"inventory": pos.Size,
		})
		s.recordError(err)
		return asmm.Quote{}, err
	}

	s.stats.TotalQuotes++
	s.stats.LastQuoteTime = time.Now()
	s.lastQuote = quote
	s.hasQuote = true

	metrics.IncrementQuotes("bid")
	metrics.IncrementQuotes("ask")
	metrics.UpdateQuoteMetrics(quote.Mid(), quote.SpreadBps(), st.MidPrice)

	s.logger.LogQuote("quote_refreshed", map[string]interface{}{
		"symbol":     s.cfg.Symbol,
		"bid":        quote.Bid,
		"ask":        quote.Ask,
		"mid":        st.MidPrice,
		"inventory":  pos.Size,
		"spread_bps": quote.SpreadBps(),
	})

	return quote, nil
}

// OnFill 将一笔成交入账：限额预检、账本过账、风控与指标联动。
// 任一环节失败都不会修改账本。
func (s *Session) OnFill(f inventory.Fill) (inventory.FillResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.ledger.Position()
	if s.limits != nil {
		if err := s.limits.PreTrade(pos.Size, f.SignedQuantity(), f.Price); err != nil {
			s.logger.LogRisk("fill_rejected", map[string]interface{}{
				"symbol": s.cfg.Symbol,
				"side":   string(f.Side),
				"qty":    f.Quantity,
				"price":  f.Price,
				"reason": err.Error(),
			})
			s.recordError(err)
			return inventory.FillResult{}, err
		}
	}

	res, err := s.ledger.ApplyFill(f)
	if err != nil {
		s.logger.LogError(err, map[string]interface{}{
			"symbol": s.cfg.Symbol,
			"side":   string(f.Side),
			"qty":    f.Quantity,
			"price":  f.Price,
		})
		s.recordError(err)
		return inventory.FillResult{}, err
	}

	s.stats.TotalFills++
	s.stats.LastFillTime = time.Now()

	if s.breaker != nil {
		s.breaker.OnFill(res.Realized)
	}
	if s.monitor != nil {
		s.monitor.UpdateRealized(res.Realized)
	}

	pnl := s.ledger.PnL()
	metrics.IncrementFills(string(f.Side))
	metrics.UpdatePositionMetrics(res.Position.Size, res.Position.AvgEntryPrice)
	metrics.UpdatePnLMetrics(pnl.Realized, pnl.Unrealized)

	s.logger.LogFill("fill_applied", map[string]interface{}{
		"symbol":   s.cfg.Symbol,
		"side":     string(f.Side),
		"qty":      f.Quantity,
		"price":    f.Price,
		"realized": res.Realized,
		"size":     res.Position.Size,
		"avg":      res.Position.AvgEntryPrice,
	})

	// 盈亏限制触发后停止报价，需人工 Resume
	if s.monitor != nil {
		if err := s.monitor.CheckLimits(); err != nil {
			s.haltLocked(err.Error())
		} else if s.monitor.ShouldAlert() {
			s.logger.LogRisk("pnl_below_threshold", map[string]interface{}{
				"symbol": s.cfg.Symbol,
				"total":  pnl.Total(),
			})
		}
	}

	return res, nil
}

// Halt 人工停止报价。幂等。
func (s *Session) Halt(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked(reason)
}

// Resume 恢复报价。幂等。
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.halted {
		return
	}
	s.halted = false
	s.haltReason = ""
	s.logger.Info("session resumed", zap.String("symbol", s.cfg.Symbol))
}

// Halted 返回是否处于停止状态及原因。
func (s *Session) Halted() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.halted, s.haltReason
}

// LastQuote 返回最近一次成功的报价。
func (s *Session) LastQuote() (asmm.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastQuote, s.hasQuote
}

// UpdateStrategy 热更新模型参数。无效参数保持原模型不变。
func (s *Session) UpdateStrategy(cfg asmm.Config) error {
	model, err := asmm.NewModel(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategy = model
	s.logger.Info("strategy parameters updated",
		zap.String("symbol", s.cfg.Symbol),
		zap.Float64("gamma", cfg.Gamma),
		zap.Float64("sigma", cfg.Sigma),
		zap.Float64("k", cfg.K),
		zap.Float64("time_horizon", cfg.TimeHorizon))
	return nil
}

// Snapshot 返回当前会话快照。
func (s *Session) Snapshot() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.ledger.Snapshot()
	sum := Summary{
		Symbol:       s.cfg.Symbol,
		Position:     snap.Position,
		PnL:          snap.PnL,
		BreakerState: s.breakerState().String(),
		HaltReason:   s.haltReason,
		Stats:        s.stats,
	}
	if s.monitor != nil {
		sum.Equity = s.monitor.GetTotalEquity()
	}
	return sum
}

// Config 返回会话配置。
func (s *Session) Config() Config { return s.cfg }

// haltLocked 调用前需持有写锁。
func (s *Session) haltLocked(reason string) {
	if s.halted {
		return
	}
	s.halted = true
	s.haltReason = reason
	s.logger.LogRisk("session_halted", map[string]interface{}{
		"symbol": s.cfg.Symbol,
		"reason": reason,
	})
}

// rolloverDaily 跨天时重置日内计数。调用前需持有写锁。
func (s *Session) rolloverDaily() {
	if s.monitor == nil || !s.monitor.ShouldCheckDailyReset() {
		return
	}
	s.monitor.ResetDaily()
	if s.breaker != nil {
		s.breaker.ResetDaily()
	}
	s.logger.Info("daily counters reset", zap.String("symbol", s.cfg.Symbol))
}

func (s *Session) breakerState() risk.BreakerState {
	if s.breaker == nil {
		return risk.BreakerNormal
	}
	return s.breaker.State()
}

// recordError 调用前需持有写锁。
func (s *Session) recordError(err error) {
	s.stats.TotalErrors++
	metrics.IncrementQuoteErrors(errorKind(err))
}

// errorKind 将错误映射为指标标签。
func errorKind(err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, types.ErrInvalidMarketState):
		return "invalid_market_state"
	case errors.Is(err, types.ErrInvalidPositionUpdate):
		return "invalid_position_update"
	case errors.Is(err, types.ErrInvalidQuote):
		return "invalid_quote"
	case errors.Is(err, types.ErrNumerical):
		return "numerical"
	case errors.Is(err, risk.ErrPositionLimit):
		return "position_limit"
	case errors.Is(err, risk.ErrNotionalLimit):
		return "notional_limit"
	case errors.Is(err, risk.ErrBreakerOpen):
		return "breaker_open"
	case errors.Is(err, risk.ErrDailyLoss):
		return "daily_loss"
	case errors.Is(err, risk.ErrMaxDrawdown):
		return "max_drawdown"
	case errors.Is(err, ErrHalted):
		return "halted"
	default:
		return "internal"
	}
}
