package risk

import "time"

// Clock 抽象时间便于测试。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NowUTC 默认使用 UTC 时间。
var NowUTC Clock = realClock{}

// ManualClock is stepped explicitly; tests use it to walk through cooldown
// and drawdown windows deterministically.
type ManualClock struct {
	T time.Time
}

func (m *ManualClock) Now() time.Time { return m.T }

func (m *ManualClock) Advance(d time.Duration) { m.T = m.T.Add(d) }
