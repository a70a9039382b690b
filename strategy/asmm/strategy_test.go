package asmm

import (
	"errors"
	"testing"

	"market-maker-core/types"
)

var _ Strategy = (*Model)(nil)

func TestNewModel(t *testing.T) {
	m, err := NewModel(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil {
		t.Fatalf("expected model")
	}
	if m.Config() != DefaultConfig() {
		t.Fatalf("model should hold the supplied config")
	}
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	bad := DefaultConfig()
	bad.Gamma = 0
	if _, err := NewModel(bad); !errors.Is(err, types.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestModelMatchesPackageFunctions(t *testing.T) {
	cfg := testConfig(t)
	st := testState(t, 100, 0.25)
	m, err := NewModel(cfg)
	if err != nil {
		t.Fatalf("model: %v", err)
	}

	wantQ, err := Quotes(cfg, st, 3)
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	gotQ, err := m.Quotes(st, 3)
	if err != nil {
		t.Fatalf("model quotes: %v", err)
	}
	if gotQ != wantQ {
		t.Fatalf("model quotes diverge: %+v vs %+v", gotQ, wantQ)
	}

	wantR, _ := ReservationPrice(cfg, st, 3)
	gotR, err := m.ReservationPrice(st, 3)
	if err != nil || gotR != wantR {
		t.Fatalf("model reservation diverges: %v vs %v (err=%v)", gotR, wantR, err)
	}

	wantS, _ := OptimalSpread(cfg, st)
	gotS, err := m.OptimalSpread(st)
	if err != nil || gotS != wantS {
		t.Fatalf("model spread diverges: %v vs %v (err=%v)", gotS, wantS, err)
	}
}
