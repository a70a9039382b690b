package inventory

import (
	"market-maker-core/types"
)

// Unrealized 基于标记价计算未实现盈亏：size·(mark − avg)，flat 时为 0。
// Pure function of the position, no ledger state involved.
func Unrealized(pos Position, mark float64) float64 {
	if pos.IsFlat() {
		return 0
	}
	return pos.Size * (mark - pos.AvgEntryPrice)
}

// MarkToMarket revalues the open position at mark and replaces the stored
// unrealized PnL wholesale. Calling it repeatedly with the same mark yields
// the same value; nothing accumulates.
func (l *Ledger) MarkToMarket(mark float64) (float64, error) {
	if err := types.CheckFinite("mark price", mark); err != nil {
		return 0, err
	}
	u := Unrealized(l.pos, mark)
	if err := types.CheckFinite("unrealized pnl", u); err != nil {
		return 0, err
	}
	l.pnl.Unrealized = u
	return u, nil
}
