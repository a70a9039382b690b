package market

import (
	"fmt"

	"market-maker-core/types"
)

// State is one validated point-in-time view of the market: the mid price and
// the time elapsed since the quoting session opened, in the same unit as the
// session's time horizon. A State is created fresh per tick and replaced,
// never mutated.
type State struct {
	MidPrice    float64
	TimeElapsed float64
}

// NewState validates and builds a State. horizon is the terminal time T of
// the session configuration; elapsed must lie within [0, horizon].
func NewState(mid, elapsed, horizon float64) (State, error) {
	if err := checkStateInputs(mid, elapsed, horizon); err != nil {
		return State{}, err
	}
	return State{MidPrice: mid, TimeElapsed: elapsed}, nil
}

func checkStateInputs(mid, elapsed, horizon float64) error {
	if !types.IsFinite(mid) || !types.IsFinite(elapsed) || !types.IsFinite(horizon) {
		return fmt.Errorf("%w: non-finite input (mid=%v elapsed=%v horizon=%v)",
			types.ErrInvalidMarketState, mid, elapsed, horizon)
	}
	if mid <= 0 {
		return fmt.Errorf("%w: mid price must be positive, got %v", types.ErrInvalidMarketState, mid)
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: time elapsed must be non-negative, got %v", types.ErrInvalidMarketState, elapsed)
	}
	if elapsed > horizon {
		return fmt.Errorf("%w: time elapsed %v exceeds horizon %v", types.ErrInvalidMarketState, elapsed, horizon)
	}
	return nil
}
