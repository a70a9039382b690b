package risk

import (
	"strings"
	"testing"
	"time"
)

func testBreaker(t *testing.T, cfg BreakerConfig) (*CircuitBreaker, *ManualClock) {
	t.Helper()
	clk := &ManualClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	return NewCircuitBreaker(cfg, clk), clk
}

func TestBreakerDailyLossTrip(t *testing.T) {
	cb, _ := testBreaker(t, BreakerConfig{MaxDailyLoss: 100, Cooldown: time.Minute})

	cb.OnFill(-40)
	if cb.State() != BreakerNormal {
		t.Fatalf("state = %v, want normal", cb.State())
	}
	cb.OnFill(-70)
	if cb.State() != BreakerTripped {
		t.Fatalf("state = %v, want tripped", cb.State())
	}
	if !strings.Contains(cb.Reason(), "daily loss") {
		t.Fatalf("reason = %q", cb.Reason())
	}
	if cb.Allow() {
		t.Fatalf("tripped breaker must not allow quoting")
	}
}

func TestBreakerConsecutiveLosses(t *testing.T) {
	cb, _ := testBreaker(t, BreakerConfig{MaxConsecutiveLosses: 3, Cooldown: time.Minute})

	cb.OnFill(-1)
	cb.OnFill(-1)
	cb.OnFill(2) // a winner resets the streak
	cb.OnFill(-1)
	cb.OnFill(-1)
	if cb.State() != BreakerNormal {
		t.Fatalf("state = %v, want normal", cb.State())
	}
	cb.OnFill(-1)
	if cb.State() != BreakerTripped {
		t.Fatalf("state = %v, want tripped", cb.State())
	}
	if !strings.Contains(cb.Reason(), "consecutive") {
		t.Fatalf("reason = %q", cb.Reason())
	}
}

func TestBreakerRapidDrawdown(t *testing.T) {
	cb, clk := testBreaker(t, BreakerConfig{
		RapidDrawdownPct: 0.05,
		DrawdownWindow:   time.Minute,
		Cooldown:         time.Minute,
	})

	cb.OnEquity(10000)
	clk.Advance(10 * time.Second)
	cb.OnEquity(9800)
	if cb.State() != BreakerNormal {
		t.Fatalf("2%% dip tripped early: %v", cb.Reason())
	}
	clk.Advance(10 * time.Second)
	cb.OnEquity(9400)
	if cb.State() != BreakerTripped {
		t.Fatalf("state = %v, want tripped", cb.State())
	}
	if !strings.Contains(cb.Reason(), "equity down") {
		t.Fatalf("reason = %q", cb.Reason())
	}
}

func TestBreakerDrawdownOutsideWindow(t *testing.T) {
	cb, clk := testBreaker(t, BreakerConfig{
		RapidDrawdownPct: 0.05,
		DrawdownWindow:   time.Minute,
	})

	// 峰值滑出窗口后不再计入回撤
	cb.OnEquity(10000)
	clk.Advance(2 * time.Minute)
	cb.OnEquity(9400)
	if cb.State() != BreakerNormal {
		t.Fatalf("slow drift tripped: %v", cb.Reason())
	}
}

func TestBreakerCooldownReArm(t *testing.T) {
	cb, clk := testBreaker(t, BreakerConfig{MaxDailyLoss: 50, Cooldown: time.Minute})

	cb.OnFill(-60)
	if cb.State() != BreakerTripped {
		t.Fatalf("state = %v, want tripped", cb.State())
	}

	clk.Advance(30 * time.Second)
	if cb.Allow() {
		t.Fatalf("allowed inside cooldown")
	}
	if cb.State() != BreakerCooldown {
		t.Fatalf("state = %v, want cooldown", cb.State())
	}

	clk.Advance(31 * time.Second)
	if !cb.Allow() {
		t.Fatalf("breaker did not re-arm after cooldown")
	}
	if cb.State() != BreakerNormal {
		t.Fatalf("state = %v, want normal", cb.State())
	}
	if cb.Reason() != "" {
		t.Fatalf("reason not cleared: %q", cb.Reason())
	}
}

func TestBreakerResetDaily(t *testing.T) {
	cb, _ := testBreaker(t, BreakerConfig{MaxDailyLoss: 100, Cooldown: time.Minute})

	cb.OnFill(-90)
	cb.ResetDaily()
	cb.OnFill(-90)
	if cb.State() != BreakerNormal {
		t.Fatalf("daily counter did not reset: %v", cb.Reason())
	}
}

func TestBreakerStateString(t *testing.T) {
	for st, want := range map[BreakerState]string{
		BreakerNormal:   "normal",
		BreakerTripped:  "tripped",
		BreakerCooldown: "cooldown",
	} {
		if got := st.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", st, got, want)
		}
	}
}
