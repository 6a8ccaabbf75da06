package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
)

type jsonResult struct {
	RunID     string             `json:"run_id"`
	Code      string             `json:"code"`
	Strategy  string             `json:"strategy"`
	Kind      strategy.Kind      `json:"kind"`
	Params    strategy.Params    `json:"params"`
	Warmup    int                `json:"warmup_bars"`
	ResultSet backtest.ResultSet `json:"result"`
}

func toJSON(res *backtest.Result) jsonResult {
	return jsonResult{
		RunID:     res.RunID.String(),
		Code:      res.Code,
		Strategy:  res.Strategy,
		Kind:      res.Kind,
		Params:    res.Params,
		Warmup:    res.Indicators.WarmupBars(),
		ResultSet: res.ResultSet,
	}
}

func printJSON(w io.Writer, v *backtest.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(v))
}

func printResult(w io.Writer, res *backtest.Result) {
	rs := res.ResultSet

	fmt.Fprintln(w, "=== MOCHA Backtest ===")
	fmt.Fprintf(w, "Code:       %s\n", res.Code)
	fmt.Fprintf(w, "Strategy:   %s (%s)\n", res.Strategy, res.Params)
	if n := len(res.Ledger); n > 0 {
		fmt.Fprintf(w, "Period:     %s to %s (%d bars, %d warm-up)\n",
			res.Ledger[0].Date.Format(core.DateLayout),
			res.Ledger[n-1].Date.Format(core.DateLayout),
			n, res.Indicators.WarmupBars())
	}
	fmt.Fprintf(w, "Investment: %.2f per trade\n", rs.InitialInvestment)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-12s %10s  %-12s %10s %12s\n", "BUY DATE", "BUY", "SELL DATE", "SELL", "PROFIT")
	for i, t := range res.Trades {
		fmt.Fprintf(w, "%-12s %10.2f  %-12s %10.2f %12.2f\n",
			t.BuyDate.Format(core.DateLayout), t.BuyPrice,
			t.SellDate.Format(core.DateLayout), t.SellPrice,
			rs.TotalProfitPerTrade[i])
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Trades:          %d (%d profit, %d loss)\n", rs.TotalNumberOfTrades, rs.NumberProfitTrades, rs.NumberLossTrades)
	fmt.Fprintf(w, "Win / loss:      %.2f%% / %.2f%%\n", rs.PctWin, rs.PctLoss)
	fmt.Fprintf(w, "Total profit:    %.2f\n", rs.TotalProfit)
	fmt.Fprintf(w, "ROI:             %.2f%%\n", rs.StrategyROI)
	fmt.Fprintf(w, "Greatest profit: %.2f\n", rs.GreatestProfit)
	fmt.Fprintf(w, "Greatest loss:   %.2f\n", rs.GreatestLoss)
}

func printJSONSets(w io.Writer, sets []backtest.ResultSet) error {
	if sets == nil {
		sets = []backtest.ResultSet{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sets)
}

func printSummary(w io.Writer, sets []backtest.ResultSet) {
	fmt.Fprintf(w, "%-10s %-24s %7s %8s %12s %9s\n", "CODE", "STRATEGY", "TRADES", "WIN%", "PROFIT", "ROI%")
	for _, rs := range sets {
		fmt.Fprintf(w, "%-10s %-24s %7d %8.2f %12.2f %9.2f\n",
			rs.Code, rs.Strategy, rs.TotalNumberOfTrades, rs.PctWin, rs.TotalProfit, rs.StrategyROI)
	}
}
