package main

import (
	"flag"
	"fmt"
	"os"

	"market-maker-core/market"
	"market-maker-core/render"
	"market-maker-core/strategy/asmm"
)

// 单次报价计算：给定模型参数与市场状态，输出双边报价。
// 用法：
//
//	go run ./cmd/quote -mid 3000 -inv 1.5 -gamma 0.1 -sigma 2 -k 1.5
func main() {
	symbol := flag.String("symbol", "ETHUSDC", "trading symbol (display only)")
	gamma := flag.Float64("gamma", 0.1, "risk aversion γ")
	sigma := flag.Float64("sigma", 2.0, "volatility σ")
	k := flag.Float64("k", 1.5, "order arrival intensity κ")
	horizon := flag.Float64("horizon", 1.0, "terminal time T")
	mid := flag.Float64("mid", 100.0, "mid price")
	elapsed := flag.Float64("elapsed", 0.0, "time elapsed since session open, in [0, horizon]")
	inv := flag.Float64("inv", 0.0, "current inventory (signed units)")
	size := flag.Float64("size", 1.0, "quote size per side (display only)")
	format := flag.String("format", "text", "output format: text|json")
	scale := flag.Int("scale", 4, "price decimal places for text output")
	flag.Parse()

	cfg, err := asmm.NewConfig(*gamma, *sigma, *k, *horizon)
	if err != nil {
		fatal(err)
	}
	model, err := asmm.NewModel(cfg)
	if err != nil {
		fatal(err)
	}
	st, err := market.NewState(*mid, *elapsed, *horizon)
	if err != nil {
		fatal(err)
	}
	quote, err := model.Quotes(st, *inv)
	if err != nil {
		fatal(err)
	}

	rep := render.NewQuoteReport(*symbol, st, quote, *size)
	switch *format {
	case "json":
		raw, err := render.JSON(rep)
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(raw))
	case "text":
		opts := render.DefaultOptions()
		opts.PriceScale = int32(*scale)
		if err := render.Text(os.Stdout, rep, opts); err != nil {
			fatal(err)
		}
	default:
		fatal(fmt.Errorf("unknown format %q", *format))
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "quote: %v\n", err)
	os.Exit(1)
}
