package inventory

// Position 当前净持仓与加权平均开仓价。
// AvgEntryPrice is only meaningful while Size != 0; flattening resets it
// to zero.
type Position struct {
	Size          float64 `json:"size"`
	AvgEntryPrice float64 `json:"avgEntryPrice"`
}

func (p Position) IsFlat() bool { return p.Size == 0 }

func (p Position) IsLong() bool { return p.Size > 0 }

func (p Position) IsShort() bool { return p.Size < 0 }
