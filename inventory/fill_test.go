package inventory

import (
	"errors"
	"math"
	"testing"

	"market-maker-core/types"
)

func TestFillValidate(t *testing.T) {
	ok := Fill{Side: types.Buy, Quantity: 1, Price: 100}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		fill Fill
	}{
		{"zero quantity", Fill{Side: types.Buy, Quantity: 0, Price: 100}},
		{"negative quantity", Fill{Side: types.Sell, Quantity: -1, Price: 100}},
		{"nan quantity", Fill{Side: types.Buy, Quantity: math.NaN(), Price: 100}},
		{"zero price", Fill{Side: types.Buy, Quantity: 1, Price: 0}},
		{"negative price", Fill{Side: types.Sell, Quantity: 1, Price: -5}},
		{"inf price", Fill{Side: types.Buy, Quantity: 1, Price: math.Inf(1)}},
		{"unknown side", Fill{Side: "hold", Quantity: 1, Price: 100}},
		{"empty side", Fill{Quantity: 1, Price: 100}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.fill.Validate()
			if !errors.Is(err, types.ErrInvalidPositionUpdate) {
				t.Fatalf("expected ErrInvalidPositionUpdate, got %v", err)
			}
		})
	}
}

func TestFillSignedQuantity(t *testing.T) {
	buy := Fill{Side: types.Buy, Quantity: 3, Price: 100}
	if buy.SignedQuantity() != 3 {
		t.Fatalf("buy should be positive, got %v", buy.SignedQuantity())
	}
	sell := Fill{Side: types.Sell, Quantity: 3, Price: 100}
	if sell.SignedQuantity() != -3 {
		t.Fatalf("sell should be negative, got %v", sell.SignedQuantity())
	}
}
