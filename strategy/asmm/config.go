package asmm

import (
	"fmt"

	"market-maker-core/types"
)

// Config holds the Avellaneda-Stoikov model parameters. All four must be
// strictly positive and finite; build through NewConfig, the zero value is
// unusable. Config is a plain value: copies are independent, so scenario
// comparison is a struct copy away.
type Config struct {
	Gamma       float64 `json:"gamma"`       // risk aversion γ
	Sigma       float64 `json:"sigma"`       // volatility σ
	K           float64 `json:"k"`           // order-arrival intensity κ
	TimeHorizon float64 `json:"timeHorizon"` // terminal time T
}

// DefaultConfig returns a parameter set suitable for experimentation.
func DefaultConfig() Config {
	return Config{
		Gamma:       0.1,
		Sigma:       2.0,
		K:           1.5,
		TimeHorizon: 1.0,
	}
}

// NewConfig validates and builds a Config.
func NewConfig(gamma, sigma, k, timeHorizon float64) (Config, error) {
	c := Config{Gamma: gamma, Sigma: sigma, K: k, TimeHorizon: timeHorizon}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks every parameter for finiteness and strict positivity.
func (c Config) Validate() error {
	params := []struct {
		name string
		v    float64
	}{
		{"gamma", c.Gamma},
		{"sigma", c.Sigma},
		{"k", c.K},
		{"time horizon", c.TimeHorizon},
	}
	for _, p := range params {
		if !types.IsFinite(p.v) {
			return fmt.Errorf("%w: %s must be finite, got %v", types.ErrInvalidConfiguration, p.name, p.v)
		}
		if p.v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", types.ErrInvalidConfiguration, p.name, p.v)
		}
	}
	return nil
}
