// Package asmm implements the Avellaneda-Stoikov quoting model: an
// inventory-adjusted reservation price and the closed-form optimal spread,
// from which the bid/ask pair is derived.
package asmm

import (
	"fmt"
	"math"

	"market-maker-core/market"
	"market-maker-core/types"
)

// timeRemaining returns T−t. The state carries its own horizon check at
// construction, but config and state are validated independently, so the
// pairing is re-checked here.
func timeRemaining(cfg Config, st market.State) (float64, error) {
	tau := cfg.TimeHorizon - st.TimeElapsed
	if tau < 0 {
		return 0, fmt.Errorf("%w: time elapsed %v exceeds horizon %v",
			types.ErrInvalidMarketState, st.TimeElapsed, cfg.TimeHorizon)
	}
	return tau, nil
}

// ReservationPrice computes the inventory-adjusted fair value
//
//	r = mid − q·γ·σ²·(T−t)
//
// Zero inventory returns the mid unchanged; a long book prices below mid to
// shed exposure, a short book above it.
func ReservationPrice(cfg Config, st market.State, inventory float64) (float64, error) {
	if err := types.CheckFinite("reservation price input", inventory); err != nil {
		return 0, err
	}
	tau, err := timeRemaining(cfg, st)
	if err != nil {
		return 0, err
	}
	r := st.MidPrice - inventory*cfg.Gamma*math.Pow(cfg.Sigma, 2)*tau
	if err := types.CheckFinite("reservation price", r); err != nil {
		return 0, err
	}
	if r <= 0 {
		return 0, fmt.Errorf("%w: reservation price %v non-positive (inventory %v overwhelms mid %v)",
			types.ErrNumerical, r, inventory, st.MidPrice)
	}
	return r, nil
}

// OptimalSpread computes the total quoted width
//
//	δ = γ·σ²·(T−t) + (2/γ)·ln(1 + γ/κ)
//
// The first term prices inventory risk over the remaining session, the log
// term is the closed-form arrival-intensity solution and is computed exactly.
func OptimalSpread(cfg Config, st market.State) (float64, error) {
	tau, err := timeRemaining(cfg, st)
	if err != nil {
		return 0, err
	}
	ratio := cfg.Gamma / cfg.K
	if err := types.CheckFinite("intensity ratio", ratio); err != nil {
		return 0, err
	}
	// Unreachable for validated parameters; guards the log all the same.
	if 1+ratio <= 0 {
		return 0, fmt.Errorf("%w: log argument %v non-positive", types.ErrNumerical, 1+ratio)
	}
	spread := cfg.Gamma*math.Pow(cfg.Sigma, 2)*tau + (2/cfg.Gamma)*math.Log(1+ratio)
	if err := types.CheckFinite("optimal spread", spread); err != nil {
		return 0, err
	}
	if spread <= 0 {
		return 0, fmt.Errorf("%w: derived spread %v non-positive", types.ErrInvalidConfiguration, spread)
	}
	return spread, nil
}

// Quotes centers the optimal spread on the reservation price:
// bid = r − δ/2, ask = r + δ/2.
func Quotes(cfg Config, st market.State, inventory float64) (Quote, error) {
	r, err := ReservationPrice(cfg, st, inventory)
	if err != nil {
		return Quote{}, err
	}
	spread, err := OptimalSpread(cfg, st)
	if err != nil {
		return Quote{}, err
	}
	q := Quote{Bid: r - spread/2, Ask: r + spread/2}
	if err := q.validate(); err != nil {
		return Quote{}, err
	}
	return q, nil
}
