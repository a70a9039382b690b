package risk

import (
	"fmt"
	"math"
)

// Limits 仓位与名义敞口上限。Zero disables a cap.
type Limits struct {
	MaxPositionUnits float64 // 最大净持仓（绝对值）
	MaxNotional      float64 // 最大名义敞口
	OrderScale       float64 // size scaling in (0,1], 1 = full size
}

// LimitChecker validates would-be fills against the configured caps before
// the ledger accepts them.
type LimitChecker struct {
	limits Limits
}

func NewLimitChecker(limits Limits) *LimitChecker {
	return &LimitChecker{limits: limits}
}

// PreTrade checks the position the ledger would hold after a signed delta
// executes at price.
func (lc *LimitChecker) PreTrade(current, delta, price float64) error {
	next := current + delta
	if lc.limits.MaxPositionUnits > 0 && math.Abs(next) > lc.limits.MaxPositionUnits {
		return fmt.Errorf("%w: |%.4f| > %.4f", ErrPositionLimit, next, lc.limits.MaxPositionUnits)
	}
	if lc.limits.MaxNotional > 0 {
		notional := math.Abs(next) * price
		if notional > lc.limits.MaxNotional {
			return fmt.Errorf("%w: %.2f > %.2f", ErrNotionalLimit, notional, lc.limits.MaxNotional)
		}
	}
	return nil
}

// ScaledSize applies the order scaling factor to a desired quote size.
// Factors outside (0,1] leave the size unchanged.
func (lc *LimitChecker) ScaledSize(size float64) float64 {
	if lc.limits.OrderScale <= 0 || lc.limits.OrderScale > 1 {
		return size
	}
	return size * lc.limits.OrderScale
}
