package posttrade

import (
	"math"
	"testing"
	"time"

	"market-maker-core/types"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMarkoutBuyThenRally(t *testing.T) {
	a := NewAnalyzer()
	a.RecordFill(types.Buy, 100, t0)

	// 视界未到，不产生观测
	a.Observe(100.5, t0.Add(500*time.Millisecond))
	st := a.Stats()
	if st.Pending != 1 || st.Horizons[0].Count != 0 {
		t.Fatalf("premature observation: %+v", st)
	}

	// 1s 视界：买入后涨 1%，markout +100bps
	a.Observe(101, t0.Add(time.Second))
	// 5s 视界：继续涨到 +2%
	a.Observe(102, t0.Add(5*time.Second))

	st = a.Stats()
	if st.TotalFills != 1 || st.Pending != 0 {
		t.Fatalf("fills/pending: %+v", st)
	}
	if st.Horizons[0].Count != 1 || math.Abs(st.Horizons[0].AvgMarkoutBps-100) > 1e-9 {
		t.Fatalf("1s horizon: %+v", st.Horizons[0])
	}
	if math.Abs(st.Horizons[1].AvgMarkoutBps-200) > 1e-9 {
		t.Fatalf("5s horizon: %+v", st.Horizons[1])
	}
	if st.Horizons[0].AdverseRate != 0 {
		t.Fatalf("favorable fill counted adverse: %+v", st.Horizons[0])
	}
}

func TestMarkoutSellAdverse(t *testing.T) {
	a := NewAnalyzer(time.Second)
	a.RecordFill(types.Sell, 100, t0)

	// 卖出后价格上行 3%，空头方向的 markout 为负
	a.Observe(103, t0.Add(time.Second))

	st := a.Stats()
	h := st.Horizons[0]
	if h.Count != 1 {
		t.Fatalf("count = %d", h.Count)
	}
	if math.Abs(h.AvgMarkoutBps-(-300)) > 1e-9 {
		t.Fatalf("markout = %v, want -300", h.AvgMarkoutBps)
	}
	if h.AdverseRate != 1 {
		t.Fatalf("adverse rate = %v, want 1", h.AdverseRate)
	}
}

func TestMarkoutFirstObservationWins(t *testing.T) {
	a := NewAnalyzer(time.Second)
	a.RecordFill(types.Buy, 100, t0)

	a.Observe(102, t0.Add(time.Second))
	// 第二次观测同一视界不再计入
	a.Observe(90, t0.Add(2*time.Second))

	st := a.Stats()
	if st.Horizons[0].Count != 1 {
		t.Fatalf("count = %d, want 1", st.Horizons[0].Count)
	}
	if math.Abs(st.Horizons[0].AvgMarkoutBps-200) > 1e-9 {
		t.Fatalf("markout = %v, want 200", st.Horizons[0].AvgMarkoutBps)
	}
}

func TestMarkoutAggregatesAcrossFills(t *testing.T) {
	a := NewAnalyzer(time.Second)
	a.RecordFill(types.Buy, 100, t0)
	a.RecordFill(types.Buy, 100, t0.Add(time.Second))
	// 第一笔到视界时 +100bps，第二笔 -100bps
	a.Observe(101, t0.Add(time.Second))
	a.Observe(99, t0.Add(2*time.Second))

	st := a.Stats()
	h := st.Horizons[0]
	if h.Count != 2 {
		t.Fatalf("count = %d, want 2", h.Count)
	}
	if math.Abs(h.AvgMarkoutBps) > 1e-9 {
		t.Fatalf("avg markout = %v, want 0", h.AvgMarkoutBps)
	}
	if math.Abs(h.AdverseRate-0.5) > 1e-9 {
		t.Fatalf("adverse rate = %v, want 0.5", h.AdverseRate)
	}
}

func TestAnalyzerIgnoresBadInput(t *testing.T) {
	a := NewAnalyzer(time.Second)
	a.RecordFill(types.Buy, -1, t0)
	a.RecordFill(types.Side("hold"), 100, t0)
	a.Observe(0, t0.Add(time.Second))

	st := a.Stats()
	if st.TotalFills != 0 || st.Pending != 0 {
		t.Fatalf("bad input recorded: %+v", st)
	}
}

func TestAnalyzerHorizonNormalization(t *testing.T) {
	// 乱序与非正视界：排序、剔除，全部非法时落回默认
	a := NewAnalyzer(5*time.Second, 0, time.Second)
	st := a.Stats()
	if len(st.Horizons) != 2 || st.Horizons[0].Horizon != time.Second {
		t.Fatalf("horizons: %+v", st.Horizons)
	}

	d := NewAnalyzer(-time.Second)
	if len(d.Stats().Horizons) != len(DefaultHorizons) {
		t.Fatalf("default horizons not applied: %+v", d.Stats().Horizons)
	}
}

func TestAnalyzerReset(t *testing.T) {
	a := NewAnalyzer(time.Second)
	a.RecordFill(types.Buy, 100, t0)
	a.Observe(101, t0.Add(time.Second))
	a.RecordFill(types.Sell, 100, t0.Add(2*time.Second))

	a.Reset()
	st := a.Stats()
	if st.TotalFills != 0 || st.Pending != 0 || st.Horizons[0].Count != 0 {
		t.Fatalf("reset incomplete: %+v", st)
	}
}
