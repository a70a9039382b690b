package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"market-maker-core/infrastructure/logger"
	"market-maker-core/inventory"
	"market-maker-core/market"
	"market-maker-core/risk"
	"market-maker-core/session"
	"market-maker-core/strategy/asmm"
	"market-maker-core/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	// 无输出目标，测试期间保持安静
	log, err := logger.New(logger.Config{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

func newTestModel(t *testing.T) *asmm.Model {
	t.Helper()
	model, err := asmm.NewModel(asmm.DefaultConfig())
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return model
}

func newTestSession(t *testing.T, comp session.Components) *session.Session {
	t.Helper()
	if comp.Strategy == nil {
		comp.Strategy = newTestModel(t)
	}
	if comp.Ledger == nil {
		comp.Ledger = inventory.NewLedger()
	}
	if comp.Logger == nil {
		comp.Logger = newTestLogger(t)
	}
	sess, err := session.New(session.Config{Symbol: "ETHUSDC", QuoteSize: 1}, comp)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func mustState(t *testing.T, mid, elapsed float64) market.State {
	t.Helper()
	st, err := market.NewState(mid, elapsed, 1.0)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return st
}

func TestNewSessionValidation(t *testing.T) {
	log := newTestLogger(t)
	model := newTestModel(t)
	ledger := inventory.NewLedger()

	cases := []struct {
		name string
		cfg  session.Config
		comp session.Components
	}{
		{"missing symbol", session.Config{QuoteSize: 1}, session.Components{Strategy: model, Ledger: ledger, Logger: log}},
		{"zero quote size", session.Config{Symbol: "ETHUSDC"}, session.Components{Strategy: model, Ledger: ledger, Logger: log}},
		{"missing strategy", session.Config{Symbol: "ETHUSDC", QuoteSize: 1}, session.Components{Ledger: ledger, Logger: log}},
		{"missing ledger", session.Config{Symbol: "ETHUSDC", QuoteSize: 1}, session.Components{Strategy: model, Logger: log}},
		{"missing logger", session.Config{Symbol: "ETHUSDC", QuoteSize: 1}, session.Components{Strategy: model, Ledger: ledger}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := session.New(tc.cfg, tc.comp)
			assert.Error(t, err)
		})
	}
}

// TestQuoteFillQuoteFlow 验证报价-成交-再报价的库存联动
func TestQuoteFillQuoteFlow(t *testing.T) {
	sess := newTestSession(t, session.Components{})
	st := mustState(t, 100, 0)

	q1, err := sess.OnTick(st)
	assert.NoError(t, err)
	assert.Less(t, q1.Bid, q1.Ask)
	assert.InDelta(t, 100.0, q1.Mid(), 1e-9, "flat quotes center on mid")

	res, err := sess.OnFill(inventory.Fill{Side: types.Buy, Quantity: 2, Price: q1.Bid})
	assert.NoError(t, err)
	assert.Equal(t, 2.0, res.Position.Size)
	assert.Equal(t, q1.Bid, res.Position.AvgEntryPrice)
	assert.Equal(t, 0.0, res.Realized)

	q2, err := sess.OnTick(st)
	assert.NoError(t, err)
	assert.Less(t, q2.Mid(), q1.Mid(), "long inventory skews quotes down")

	sum := sess.Snapshot()
	assert.Equal(t, int64(2), sum.Stats.TotalTicks)
	assert.Equal(t, int64(2), sum.Stats.TotalQuotes)
	assert.Equal(t, int64(1), sum.Stats.TotalFills)
	assert.Equal(t, 2.0, sum.Position.Size)

	last, ok := sess.LastQuote()
	assert.True(t, ok)
	assert.Equal(t, q2, last)
}

// TestPreTradeLimitRejectsFill 限额拒单时账本保持不变
func TestPreTradeLimitRejectsFill(t *testing.T) {
	sess := newTestSession(t, session.Components{
		Limits: risk.NewLimitChecker(risk.Limits{MaxPositionUnits: 1}),
	})

	_, err := sess.OnFill(inventory.Fill{Side: types.Buy, Quantity: 2, Price: 100})
	assert.ErrorIs(t, err, risk.ErrPositionLimit)

	sum := sess.Snapshot()
	assert.True(t, sum.Position.IsFlat(), "rejected fill must not touch the ledger")
	assert.Equal(t, int64(1), sum.Stats.TotalErrors)
	assert.Equal(t, int64(0), sum.Stats.TotalFills)
}

// TestBreakerGatesQuoting 熔断打开时拒绝报价，冷却后恢复
func TestBreakerGatesQuoting(t *testing.T) {
	clk := &risk.ManualClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	breaker := risk.NewCircuitBreaker(risk.BreakerConfig{MaxDailyLoss: 5, Cooldown: time.Minute}, clk)
	sess := newTestSession(t, session.Components{Breaker: breaker})
	st := mustState(t, 100, 0)

	// 亏损往返：105买入，95卖出，实现-10
	_, err := sess.OnFill(inventory.Fill{Side: types.Buy, Quantity: 1, Price: 105})
	assert.NoError(t, err)
	_, err = sess.OnFill(inventory.Fill{Side: types.Sell, Quantity: 1, Price: 95})
	assert.NoError(t, err)
	assert.Equal(t, risk.BreakerTripped, breaker.State())

	_, err = sess.OnTick(st)
	assert.ErrorIs(t, err, risk.ErrBreakerOpen)

	clk.Advance(2 * time.Minute)
	_, err = sess.OnTick(st)
	assert.NoError(t, err, "breaker re-arms after cooldown")
}

// TestDailyLossHaltsSession 日亏超限后会话自动停止，Resume 恢复
func TestDailyLossHaltsSession(t *testing.T) {
	monitor := risk.NewPnLMonitor(risk.PnLLimits{DailyLossLimit: 5}, 10000)
	sess := newTestSession(t, session.Components{Monitor: monitor})
	st := mustState(t, 100, 0)

	_, err := sess.OnFill(inventory.Fill{Side: types.Buy, Quantity: 1, Price: 105})
	assert.NoError(t, err)
	_, err = sess.OnFill(inventory.Fill{Side: types.Sell, Quantity: 1, Price: 95})
	assert.NoError(t, err, "the offending fill itself still books")

	halted, reason := sess.Halted()
	assert.True(t, halted)
	assert.Contains(t, reason, "daily loss")

	_, err = sess.OnTick(st)
	assert.ErrorIs(t, err, session.ErrHalted)

	sess.Resume()
	_, err = sess.OnTick(st)
	assert.NoError(t, err)

	sum := sess.Snapshot()
	assert.Equal(t, 9990.0, sum.Equity)
	assert.Equal(t, -10.0, sum.PnL.Realized)
}

// TestUpdateStrategySwapsModel 热更新替换模型，非法参数不生效
func TestUpdateStrategySwapsModel(t *testing.T) {
	sess := newTestSession(t, session.Components{})
	st := mustState(t, 100, 0)

	q1, err := sess.OnTick(st)
	assert.NoError(t, err)

	wider := asmm.DefaultConfig()
	wider.Gamma = 0.5
	assert.NoError(t, sess.UpdateStrategy(wider))

	q2, err := sess.OnTick(st)
	assert.NoError(t, err)
	assert.Greater(t, q2.Spread(), q1.Spread(), "higher gamma widens the spread")

	bad := asmm.DefaultConfig()
	bad.Sigma = -1
	assert.ErrorIs(t, sess.UpdateStrategy(bad), types.ErrInvalidConfiguration)

	q3, err := sess.OnTick(st)
	assert.NoError(t, err)
	assert.InDelta(t, q2.Spread(), q3.Spread(), 1e-12, "rejected update keeps the running model")
}

// TestManualHalt 人工停止与恢复
func TestManualHalt(t *testing.T) {
	sess := newTestSession(t, session.Components{})
	st := mustState(t, 100, 0)

	sess.Halt("operator pause")
	_, err := sess.OnTick(st)
	assert.ErrorIs(t, err, session.ErrHalted)

	halted, reason := sess.Halted()
	assert.True(t, halted)
	assert.Equal(t, "operator pause", reason)

	sess.Resume()
	_, err = sess.OnTick(st)
	assert.NoError(t, err)
}
