package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"market-maker-core/inventory"
	"market-maker-core/render"
	"market-maker-core/types"
)

// pnl_report：离线扫描 mmd/sim 的结构化日志，按 fill_applied 事件重放
// 账本，核对日志内的逐笔 realized 与重放结果，输出仓位与盈亏报告。
func main() {
	logPath := flag.String("log", "/var/log/market-maker/mmd.log", "结构化日志路径")
	symbol := flag.String("symbol", "", "仅统计指定交易对 (默认取首个出现的)")
	sinceStr := flag.String("since", "", "仅统计此时间之后的记录 (RFC3339，例如 2026-08-01T00:00:00Z)")
	mark := flag.Float64("mark", 0, "重放后按此价格重估未实现盈亏 (0 跳过)")
	asJSON := flag.Bool("json", false, "以 JSON 输出报告")
	flag.Parse()

	var since time.Time
	var err error
	if *sinceStr != "" {
		since, err = time.Parse(time.RFC3339Nano, *sinceStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "解析 since 参数失败: %v\n", err)
			os.Exit(1)
		}
	}

	f, err := os.Open(*logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法读取日志: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ledger := inventory.NewLedger()
	sym := *symbol
	fills := 0
	skipped := 0
	var buyNotional, sellNotional, loggedRealized float64

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		idx := strings.Index(line, "{")
		if idx == -1 {
			continue
		}
		var evt map[string]interface{}
		if err := json.Unmarshal([]byte(line[idx:]), &evt); err != nil {
			continue
		}
		if name, _ := evt["event"].(string); name != "fill_applied" {
			continue
		}
		evtSym, _ := evt["symbol"].(string)
		if sym == "" {
			sym = evtSym
		}
		if evtSym != sym {
			continue
		}
		if !since.IsZero() {
			if tsStr, ok := evt["ts"].(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, tsStr); err == nil && ts.Before(since) {
					continue
				}
			}
		}

		fill := inventory.Fill{
			Side:     types.Side(fmt.Sprint(evt["side"])),
			Quantity: toFloat(evt["qty"]),
			Price:    toFloat(evt["price"]),
		}
		if _, err := ledger.ApplyFill(fill); err != nil {
			skipped++
			continue
		}
		fills++
		loggedRealized += toFloat(evt["realized"])
		notional := fill.Quantity * fill.Price
		if fill.Side == types.Buy {
			buyNotional += notional
		} else {
			sellNotional += notional
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "读取日志出错: %v\n", err)
		os.Exit(1)
	}

	// 未给 mark 时按成本价重估，未实现盈亏为 0
	markPx := *mark
	if markPx <= 0 {
		markPx = ledger.Position().AvgEntryPrice
	}
	if markPx > 0 {
		if _, err := ledger.MarkToMarket(markPx); err != nil {
			fmt.Fprintf(os.Stderr, "重估失败: %v\n", err)
			os.Exit(1)
		}
	}

	pos := render.NewPositionReport(sym, ledger.Position(), markPx)
	pnl := render.NewPnLReport(sym, ledger.PnL())
	if *asJSON {
		for _, r := range []render.Report{pos, pnl} {
			out, err := render.JSON(r)
			if err != nil {
				fmt.Fprintf(os.Stderr, "序列化失败: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(out))
		}
		return
	}

	fmt.Printf("统计文件: %s\n", *logPath)
	if !since.IsZero() {
		fmt.Printf("起始时间: %s\n", since.Format(time.RFC3339))
	}
	fmt.Printf("成交笔数: %d (跳过 %d)\n", fills, skipped)
	fmt.Printf("买单名义: %.4f\n", buyNotional)
	fmt.Printf("卖单名义: %.4f\n", sellNotional)
	if drift := ledger.PnL().Realized - loggedRealized; drift > 1e-6 || drift < -1e-6 {
		fmt.Printf("警告: 重放 realized 与日志累计相差 %.6f，日志可能缺行\n", drift)
	}
	fmt.Println()
	opts := render.DefaultOptions()
	if err := render.Text(os.Stdout, pos, opts); err != nil {
		fmt.Fprintf(os.Stderr, "输出失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	if err := render.Text(os.Stdout, pnl, opts); err != nil {
		fmt.Fprintf(os.Stderr, "输出失败: %v\n", err)
		os.Exit(1)
	}
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, _ := strconv.ParseFloat(val, 64)
		return f
	default:
		return 0
	}
}
