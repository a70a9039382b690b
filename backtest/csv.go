package backtest

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// LoadCSV 从 CSV 读取 tick 序列。每行两列为 bid,ask；三列以上为
// ts_ms,bid,ask[,bid_qty,ask_qty]。表头与解析失败的行直接跳过。
func LoadCSV(path string) ([]Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	out := make([]Tick, 0, len(rows))
	for _, row := range rows {
		t, ok := parseTickRow(row)
		if !ok {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func parseTickRow(row []string) (Tick, bool) {
	if len(row) < 2 {
		return Tick{}, false
	}
	fields := make([]float64, 0, len(row))
	for _, cell := range row {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return Tick{}, false
		}
		fields = append(fields, v)
	}
	var t Tick
	switch {
	case len(fields) == 2:
		t.Bid, t.Ask = fields[0], fields[1]
	default:
		t.Ts = time.UnixMilli(int64(fields[0])).UTC()
		t.Bid, t.Ask = fields[1], fields[2]
		if len(fields) >= 5 {
			t.BidQty, t.AskQty = fields[3], fields[4]
		}
	}
	return t, true
}
