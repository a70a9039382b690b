package inventory

import (
	"math"

	"market-maker-core/types"
)

// Ledger tracks one instrument's position and PnL through a sequence of
// fills. It has exactly one owner — the trading session — and carries no
// lock; give every session its own Ledger.
type Ledger struct {
	pos Position
	pnl PnL
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// FillResult reports the effect of one applied fill.
type FillResult struct {
	Realized float64  // realized PnL delta from the closed portion, zero on increases
	Position Position // position after the fill
}

// Snapshot is a point-in-time view of the ledger.
type Snapshot struct {
	Position Position `json:"position"`
	PnL      PnL      `json:"pnl"`
}

// ApplyFill folds one fill into the position. Four transitions exist: an
// increase extends the weighted-average entry price, a partial reduction
// realizes PnL on the reduced quantity and keeps the average, an exact
// flatten realizes the whole position and resets the average, and a larger
// opposite fill flips the position, opening the remainder at the fill price.
// A failed update leaves the ledger untouched.
func (l *Ledger) ApplyFill(f Fill) (FillResult, error) {
	if err := f.Validate(); err != nil {
		return FillResult{}, err
	}
	next, realized := transition(l.pos, f)
	if err := types.CheckFinite("fill application", next.Size, next.AvgEntryPrice, realized); err != nil {
		return FillResult{}, err
	}
	l.pos = next
	l.pnl.Realized += realized
	return FillResult{Realized: realized, Position: next}, nil
}

// transition computes the post-fill position and the realized delta without
// touching ledger state.
func transition(pos Position, f Fill) (Position, float64) {
	s := pos.Size
	d := f.SignedQuantity()

	if s == 0 || (s > 0) == (d > 0) {
		// Increase: size-weighted average over old position and fill.
		size := s + d
		avg := (math.Abs(s)*pos.AvgEntryPrice + math.Abs(d)*f.Price) / math.Abs(size)
		return Position{Size: size, AvgEntryPrice: avg}, 0
	}

	closed := math.Min(math.Abs(d), math.Abs(s))
	realized := sign(s) * closed * (f.Price - pos.AvgEntryPrice)

	switch {
	case math.Abs(d) < math.Abs(s):
		// Partial reduction keeps the entry price of what stays open.
		return Position{Size: s + d, AvgEntryPrice: pos.AvgEntryPrice}, realized
	case math.Abs(d) == math.Abs(s):
		// Exact flatten. The average resets with the position.
		return Position{}, realized
	default:
		// Flip: the excess reopens on the other side at the fill price.
		return Position{Size: s + d, AvgEntryPrice: f.Price}, realized
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Position returns a copy of the current position.
func (l *Ledger) Position() Position {
	return l.pos
}

// PnL returns a copy of the current PnL.
func (l *Ledger) PnL() PnL {
	return l.pnl
}

// Snapshot returns position and PnL as one consistent view.
func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{Position: l.pos, PnL: l.pnl}
}
