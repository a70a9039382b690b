package risk

import (
	"errors"
	"testing"
)

func TestPreTradeWithinLimits(t *testing.T) {
	lc := NewLimitChecker(Limits{MaxPositionUnits: 10, MaxNotional: 5000})

	if err := lc.PreTrade(2, 3, 100); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	// 减仓后净头寸回到限额内
	if err := lc.PreTrade(9.5, -4, 100); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestPreTradePositionLimit(t *testing.T) {
	lc := NewLimitChecker(Limits{MaxPositionUnits: 10})

	err := lc.PreTrade(8, 3, 100)
	if !errors.Is(err, ErrPositionLimit) {
		t.Fatalf("want ErrPositionLimit, got %v", err)
	}
	// short side uses the same absolute cap
	err = lc.PreTrade(-8, -3, 100)
	if !errors.Is(err, ErrPositionLimit) {
		t.Fatalf("want ErrPositionLimit, got %v", err)
	}
}

func TestPreTradeNotionalLimit(t *testing.T) {
	lc := NewLimitChecker(Limits{MaxNotional: 1000})

	err := lc.PreTrade(0, 5, 300)
	if !errors.Is(err, ErrNotionalLimit) {
		t.Fatalf("want ErrNotionalLimit, got %v", err)
	}
	if err := lc.PreTrade(0, 3, 300); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestPreTradeZeroDisables(t *testing.T) {
	lc := NewLimitChecker(Limits{})

	if err := lc.PreTrade(1e6, 1e6, 1e6); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestScaledSize(t *testing.T) {
	lc := NewLimitChecker(Limits{OrderScale: 0.5})
	if got := lc.ScaledSize(4); got != 2 {
		t.Fatalf("ScaledSize = %v, want 2", got)
	}

	// 比例越界时不缩放
	lc = NewLimitChecker(Limits{OrderScale: 1.5})
	if got := lc.ScaledSize(4); got != 4 {
		t.Fatalf("ScaledSize = %v, want 4", got)
	}
	lc = NewLimitChecker(Limits{})
	if got := lc.ScaledSize(4); got != 4 {
		t.Fatalf("ScaledSize = %v, want 4", got)
	}
}
