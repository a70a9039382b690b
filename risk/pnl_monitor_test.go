package risk_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"market-maker-core/risk"
)

func TestPnLMonitor_DailyLossLimit(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{DailyLossLimit: 100}, 10000)

	m.UpdateRealized(-50)
	assert.NoError(t, m.CheckLimits())

	// 再亏60，当日累计-110，超限
	m.UpdateRealized(-60)
	assert.ErrorIs(t, m.CheckLimits(), risk.ErrDailyLoss)
}

func TestPnLMonitor_MaxDrawdownLimit(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{MaxDrawdownLimit: 0.05}, 10000)

	// 峰值11000后回撤
	m.UpdateRealized(1000)
	m.UpdateRealized(-400) // 回撤 400/11000 ≈ 3.6%
	assert.NoError(t, m.CheckLimits())

	m.UpdateRealized(-200) // 回撤 600/11000 ≈ 5.45%
	assert.ErrorIs(t, m.CheckLimits(), risk.ErrMaxDrawdown)
}

func TestPnLMonitor_DrawdownTracksPeak(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{}, 10000)

	assert.Equal(t, 0.0, m.GetDrawdown())

	m.UpdateRealized(200)
	m.UpdateRealized(-150)
	want := 150.0 / 10200.0
	assert.InDelta(t, want, m.GetDrawdown(), 1e-9)

	// 回撤只增不减
	m.UpdateRealized(300)
	assert.InDelta(t, want, m.GetDrawdown(), 1e-9)
}

func TestPnLMonitor_UnrealizedReplaced(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{}, 10000)

	m.UpdateUnrealized(100)
	m.UpdateUnrealized(-50)

	metrics := m.GetMetrics()
	assert.Equal(t, -50.0, metrics.UnrealizedPnL)
	assert.Equal(t, -50.0, metrics.TotalPnL)
	assert.Equal(t, 10100.0, metrics.PeakEquity)
}

func TestPnLMonitor_ShouldAlert(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{MinPnLThreshold: -50}, 10000)

	m.UpdateRealized(-40)
	assert.False(t, m.ShouldAlert())

	m.UpdateRealized(-30)
	assert.True(t, m.ShouldAlert())
}

func TestPnLMonitor_ResetDaily(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{DailyLossLimit: 100}, 10000)

	m.UpdateRealized(-90)
	m.ResetDaily()

	assert.Equal(t, 0.0, m.GetDailyPnL())
	// 累计已实现盈亏不受影响
	assert.Equal(t, -90.0, m.GetMetrics().RealizedPnL)

	m.UpdateRealized(-90)
	assert.NoError(t, m.CheckLimits())
}

func TestPnLMonitor_Reset(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{}, 10000)

	m.UpdateRealized(200)
	m.UpdateUnrealized(50)
	m.UpdateRealized(-100)

	m.Reset(15000)

	metrics := m.GetMetrics()
	assert.Equal(t, 0.0, metrics.RealizedPnL)
	assert.Equal(t, 0.0, metrics.UnrealizedPnL)
	assert.Equal(t, 0.0, metrics.MaxDrawdown)
	assert.Equal(t, 0.0, metrics.DailyPnL)
	assert.Equal(t, 15000.0, metrics.PeakEquity)
	assert.Equal(t, 15000.0, m.GetTotalEquity())
}

func TestPnLMonitor_TotalEquity(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{}, 10000)

	m.UpdateRealized(150)
	m.UpdateUnrealized(50)
	assert.Equal(t, 10200.0, m.GetTotalEquity())
}

func TestPnLMonitor_ConcurrentAccess(t *testing.T) {
	m := risk.NewPnLMonitor(risk.PnLLimits{DailyLossLimit: 1000, MaxDrawdownLimit: 0.1}, 10000)

	done := make(chan bool)
	const updates = 100

	go func() {
		for i := 0; i < updates; i++ {
			m.UpdateRealized(1.0)
		}
		done <- true
	}()
	go func() {
		for i := 0; i < updates; i++ {
			m.UpdateUnrealized(float64(i))
		}
		done <- true
	}()
	go func() {
		for i := 0; i < updates; i++ {
			_ = m.GetMetrics()
			_ = m.CheckLimits()
			_ = m.GetTotalEquity()
		}
		done <- true
	}()

	for i := 0; i < 3; i++ {
		<-done
	}

	assert.Equal(t, float64(updates), m.GetMetrics().RealizedPnL)
}
