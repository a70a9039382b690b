package inventory

import (
	"fmt"

	"market-maker-core/types"
)

// Fill is one executed trade handed to the ledger. It is transient: the
// ledger folds it into the position and does not retain it.
type Fill struct {
	Side     types.Side `json:"side"`
	Quantity float64    `json:"quantity"`
	Price    float64    `json:"price"`
}

// Validate gates the fill before it can touch the ledger.
func (f Fill) Validate() error {
	if !f.Side.Valid() {
		return fmt.Errorf("%w: unknown side %q", types.ErrInvalidPositionUpdate, f.Side)
	}
	if !types.IsFinite(f.Quantity) || f.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive and finite, got %v",
			types.ErrInvalidPositionUpdate, f.Quantity)
	}
	if !types.IsFinite(f.Price) || f.Price <= 0 {
		return fmt.Errorf("%w: price must be positive and finite, got %v",
			types.ErrInvalidPositionUpdate, f.Price)
	}
	return nil
}

// SignedQuantity returns +Quantity for buys and −Quantity for sells.
func (f Fill) SignedQuantity() float64 {
	return f.Side.Sign() * f.Quantity
}
