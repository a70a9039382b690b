package asmm

import (
	"fmt"

	"market-maker-core/types"
)

// Quote is one two-sided quote handed back to the caller.
type Quote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Mid returns the midpoint between bid and ask.
func (q Quote) Mid() float64 {
	return (q.Bid + q.Ask) / 2
}

// Spread returns the quoted width.
func (q Quote) Spread() float64 {
	return q.Ask - q.Bid
}

// SpreadBps returns the quoted width in basis points of the quote mid.
func (q Quote) SpreadBps() float64 {
	m := q.Mid()
	if m == 0 {
		return 0
	}
	return (q.Ask - q.Bid) / m * 10000
}

// validate enforces bid < ask with a positive bid. The comparison is exact:
// ask − bid equals the derived spread by construction, so a violation means
// the arithmetic degenerated upstream, not that the market did something odd.
func (q Quote) validate() error {
	if err := types.CheckFinite("quote derivation", q.Bid, q.Ask); err != nil {
		return err
	}
	if q.Bid >= q.Ask {
		return fmt.Errorf("%w: bid %v crosses ask %v", types.ErrInvalidQuote, q.Bid, q.Ask)
	}
	if q.Bid <= 0 {
		return fmt.Errorf("%w: bid %v is non-positive", types.ErrInvalidQuote, q.Bid)
	}
	return nil
}
