package asmm

import (
	"errors"
	"math"
	"testing"

	"market-maker-core/types"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(0.1, 2.0, 1.5, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gamma != 0.1 || cfg.Sigma != 2.0 || cfg.K != 1.5 || cfg.TimeHorizon != 1.0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewConfigRejects(t *testing.T) {
	cases := []struct {
		name                    string
		gamma, sigma, k, horizon float64
	}{
		{"zero gamma", 0, 2.0, 1.5, 1.0},
		{"negative gamma", -0.1, 2.0, 1.5, 1.0},
		{"zero sigma", 0.1, 0, 1.5, 1.0},
		{"negative sigma", 0.1, -2.0, 1.5, 1.0},
		{"zero k", 0.1, 2.0, 0, 1.0},
		{"negative k", 0.1, 2.0, -1.5, 1.0},
		{"zero horizon", 0.1, 2.0, 1.5, 0},
		{"negative horizon", 0.1, 2.0, 1.5, -1.0},
		{"nan gamma", math.NaN(), 2.0, 1.5, 1.0},
		{"inf sigma", 0.1, math.Inf(1), 1.5, 1.0},
		{"nan horizon", 0.1, 2.0, 1.5, math.NaN()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewConfig(c.gamma, c.sigma, c.k, c.horizon)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, types.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestConfigCopyIsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg
	clone.Gamma = 99
	if cfg.Gamma == 99 {
		t.Fatalf("copy should not affect original")
	}
}
