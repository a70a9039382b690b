package inventory

// PnL accumulates realized profit across fills and carries the latest
// mark-to-market value of the open position. Unrealized is replaced on every
// recomputation, never summed.
type PnL struct {
	Realized   float64 `json:"realized"`
	Unrealized float64 `json:"unrealized"`
}

// Total returns realized plus unrealized.
func (p PnL) Total() float64 {
	return p.Realized + p.Unrealized
}
