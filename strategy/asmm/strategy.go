package asmm

import (
	"market-maker-core/market"
)

// Strategy produces two-sided quotes from a market state and the current
// signed inventory.
type Strategy interface {
	Quotes(st market.State, inventory float64) (Quote, error)
	ReservationPrice(st market.State, inventory float64) (float64, error)
	OptimalSpread(st market.State) (float64, error)
}

// Model is the closed-form Avellaneda-Stoikov strategy bound to a validated
// Config. Methods are stateless and safe for concurrent callers.
type Model struct {
	cfg Config
}

// NewModel validates cfg and builds a Model.
func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg}, nil
}

// Config returns the bound parameters.
func (m *Model) Config() Config {
	return m.cfg
}

// Quotes implements Strategy.
func (m *Model) Quotes(st market.State, inventory float64) (Quote, error) {
	return Quotes(m.cfg, st, inventory)
}

// ReservationPrice implements Strategy.
func (m *Model) ReservationPrice(st market.State, inventory float64) (float64, error) {
	return ReservationPrice(m.cfg, st, inventory)
}

// OptimalSpread implements Strategy.
func (m *Model) OptimalSpread(st market.State) (float64, error) {
	return OptimalSpread(m.cfg, st)
}
