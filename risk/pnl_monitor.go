package risk

import (
	"fmt"
	"sync"
	"time"
)

// PnLLimits 定义PnL相关的风控限制。Zero disables a limit.
type PnLLimits struct {
	DailyLossLimit   float64 // 日内最大亏损（绝对额）
	MaxDrawdownLimit float64 // 最大回撤比例，0.03 = 3%
	MinPnLThreshold  float64 // 低于该总盈亏时仅告警
}

// PnLMetrics PnL指标快照。
type PnLMetrics struct {
	RealizedPnL   float64
	UnrealizedPnL float64
	TotalPnL      float64
	MaxDrawdown   float64
	PeakEquity    float64
	DailyPnL      float64
	LastUpdate    time.Time
}

// PnLMonitor tracks equity, peak and drawdown from the ledger's realized
// deltas and marked unrealized value. Safe for concurrent readers.
type PnLMonitor struct {
	limits PnLLimits

	realizedPnL   float64
	unrealizedPnL float64
	maxDrawdown   float64
	peakEquity    float64
	dailyPnL      float64
	initialEquity float64
	todayStart    float64
	lastResetTime time.Time

	mu sync.RWMutex
}

// NewPnLMonitor 创建PnL监控器。
func NewPnLMonitor(limits PnLLimits, initialEquity float64) *PnLMonitor {
	return &PnLMonitor{
		limits:        limits,
		initialEquity: initialEquity,
		peakEquity:    initialEquity,
		todayStart:    initialEquity,
		lastResetTime: time.Now(),
	}
}

// UpdateRealized 累加一笔已实现盈亏（成交时调用）。
func (m *PnLMonitor) UpdateRealized(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.realizedPnL += pnl
	m.dailyPnL += pnl
	m.updateDrawdown()
}

// UpdateUnrealized 以最新标记值替换未实现盈亏。
func (m *PnLMonitor) UpdateUnrealized(unrealizedPnL float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unrealizedPnL = unrealizedPnL
	m.updateDrawdown()
}

// updateDrawdown 调用前需持有写锁。
func (m *PnLMonitor) updateDrawdown() {
	totalEquity := m.initialEquity + m.realizedPnL + m.unrealizedPnL

	if totalEquity > m.peakEquity {
		m.peakEquity = totalEquity
	}
	if m.peakEquity > 0 {
		currentDrawdown := (m.peakEquity - totalEquity) / m.peakEquity
		if currentDrawdown > m.maxDrawdown {
			m.maxDrawdown = currentDrawdown
		}
	}
}

// CheckLimits 检查是否违反风控限制。
func (m *PnLMonitor) CheckLimits() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.limits.DailyLossLimit > 0 && m.dailyPnL < -m.limits.DailyLossLimit {
		return fmt.Errorf("%w: %.2f < -%.2f", ErrDailyLoss, m.dailyPnL, m.limits.DailyLossLimit)
	}
	if m.limits.MaxDrawdownLimit > 0 && m.maxDrawdown > m.limits.MaxDrawdownLimit {
		return fmt.Errorf("%w: %.4f > %.4f", ErrMaxDrawdown, m.maxDrawdown, m.limits.MaxDrawdownLimit)
	}
	return nil
}

// ShouldAlert 总盈亏跌破阈值时提示告警（不熔断）。
func (m *PnLMonitor) ShouldAlert() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.limits.MinPnLThreshold == 0 {
		return false
	}
	return m.realizedPnL+m.unrealizedPnL < m.limits.MinPnLThreshold
}

// GetMetrics 获取当前PnL指标。
func (m *PnLMonitor) GetMetrics() PnLMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return PnLMetrics{
		RealizedPnL:   m.realizedPnL,
		UnrealizedPnL: m.unrealizedPnL,
		TotalPnL:      m.realizedPnL + m.unrealizedPnL,
		MaxDrawdown:   m.maxDrawdown,
		PeakEquity:    m.peakEquity,
		DailyPnL:      m.dailyPnL,
		LastUpdate:    time.Now(),
	}
}

// GetTotalEquity 当前总权益。
func (m *PnLMonitor) GetTotalEquity() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialEquity + m.realizedPnL + m.unrealizedPnL
}

// GetDailyPnL 当日已实现盈亏。
func (m *PnLMonitor) GetDailyPnL() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.dailyPnL
}

// GetDrawdown 获取当前最大回撤比例。
func (m *PnLMonitor) GetDrawdown() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.maxDrawdown
}

// ShouldCheckDailyReset 跨天（UTC）后返回true。
func (m *PnLMonitor) ShouldCheckDailyReset() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now().UTC()
	last := m.lastResetTime.UTC()
	return now.Day() != last.Day() || now.Month() != last.Month()
}

// ResetDaily 每日重置（通常在UTC 00:00调用）。
func (m *PnLMonitor) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dailyPnL = 0
	m.todayStart = m.initialEquity + m.realizedPnL + m.unrealizedPnL
	m.lastResetTime = time.Now()
}

// Reset 完全重置监控器（谨慎使用）。
func (m *PnLMonitor) Reset(newInitialEquity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.realizedPnL = 0
	m.unrealizedPnL = 0
	m.maxDrawdown = 0
	m.dailyPnL = 0
	m.initialEquity = newInitialEquity
	m.peakEquity = newInitialEquity
	m.todayStart = newInitialEquity
	m.lastResetTime = time.Now()
}
