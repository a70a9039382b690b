package risk

import (
	"fmt"
	"time"
)

// BreakerState describes whether quoting is allowed.
type BreakerState int

const (
	BreakerNormal BreakerState = iota
	BreakerTripped
	BreakerCooldown
)

func (s BreakerState) String() string {
	switch s {
	case BreakerNormal:
		return "normal"
	case BreakerTripped:
		return "tripped"
	case BreakerCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// BreakerConfig 熔断阈值。Zero disables the corresponding trigger.
type BreakerConfig struct {
	MaxDailyLoss         float64 // 当日亏损上限（绝对额）
	MaxConsecutiveLosses int     // 连续亏损成交次数
	RapidDrawdownPct     float64 // 窗口内权益回撤比例
	DrawdownWindow       time.Duration
	Cooldown             time.Duration // 熔断后的冷却时间
}

type equityPoint struct {
	ts time.Time
	v  float64
}

// CircuitBreaker halts quoting on daily loss, consecutive losing fills, or a
// rapid equity drawdown, then re-arms after the cooldown. Not safe for
// concurrent use; the owning session serialises access.
type CircuitBreaker struct {
	cfg    BreakerConfig
	clock  Clock
	state  BreakerState
	reason string

	trippedAt   time.Time
	consecutive int
	dailyPnL    float64
	equity      []equityPoint
}

// NewCircuitBreaker builds a breaker; a nil clock uses wall time.
func NewCircuitBreaker(cfg BreakerConfig, clock Clock) *CircuitBreaker {
	if clock == nil {
		clock = NowUTC
	}
	return &CircuitBreaker{
		cfg:    cfg,
		clock:  clock,
		equity: make([]equityPoint, 0, 128),
	}
}

// OnFill records one realized PnL delta.
func (cb *CircuitBreaker) OnFill(realized float64) {
	cb.dailyPnL += realized
	switch {
	case realized < 0:
		cb.consecutive++
	case realized > 0:
		cb.consecutive = 0
	}

	if cb.state != BreakerNormal {
		return
	}
	if cb.cfg.MaxDailyLoss > 0 && cb.dailyPnL < -cb.cfg.MaxDailyLoss {
		cb.trip(fmt.Sprintf("daily loss %.2f beyond %.2f", cb.dailyPnL, cb.cfg.MaxDailyLoss))
		return
	}
	if cb.cfg.MaxConsecutiveLosses > 0 && cb.consecutive >= cb.cfg.MaxConsecutiveLosses {
		cb.trip(fmt.Sprintf("%d consecutive losing fills", cb.consecutive))
	}
}

// OnEquity records total equity for rapid-drawdown detection.
func (cb *CircuitBreaker) OnEquity(total float64) {
	now := cb.clock.Now()
	cb.equity = append(cb.equity, equityPoint{ts: now, v: total})
	cb.trimWindow(now)

	if cb.state != BreakerNormal || cb.cfg.RapidDrawdownPct <= 0 || len(cb.equity) < 2 {
		return
	}
	peak := cb.equity[0].v
	for _, p := range cb.equity {
		if p.v > peak {
			peak = p.v
		}
	}
	if peak <= 0 {
		return
	}
	dd := (peak - total) / peak
	if dd >= cb.cfg.RapidDrawdownPct {
		cb.trip(fmt.Sprintf("equity down %.2f%% inside %s", dd*100, cb.cfg.DrawdownWindow))
	}
}

func (cb *CircuitBreaker) trimWindow(now time.Time) {
	if cb.cfg.DrawdownWindow <= 0 {
		return
	}
	cutoff := now.Add(-cb.cfg.DrawdownWindow)
	i := 0
	for ; i < len(cb.equity); i++ {
		if cb.equity[i].ts.After(cutoff) {
			break
		}
	}
	if i > 0 {
		cb.equity = cb.equity[i:]
	}
}

func (cb *CircuitBreaker) trip(reason string) {
	cb.state = BreakerTripped
	cb.reason = reason
	cb.trippedAt = cb.clock.Now()
}

// Allow reports whether quoting may proceed. A tripped breaker moves into
// cooldown and re-arms once the cooldown lapses.
func (cb *CircuitBreaker) Allow() bool {
	if cb.state == BreakerNormal {
		return true
	}
	if cb.clock.Now().Sub(cb.trippedAt) >= cb.cfg.Cooldown {
		cb.state = BreakerNormal
		cb.reason = ""
		cb.consecutive = 0
		return true
	}
	cb.state = BreakerCooldown
	return false
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() BreakerState { return cb.state }

// Reason returns what tripped the breaker, empty while normal.
func (cb *CircuitBreaker) Reason() string { return cb.reason }

// ResetDaily zeroes the daily loss accumulator, typically at UTC midnight.
func (cb *CircuitBreaker) ResetDaily() { cb.dailyPnL = 0 }
