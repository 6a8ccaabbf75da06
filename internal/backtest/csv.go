package backtest

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/series"
)

// WriteLedgerCSV writes one row per bar. Prices where no signal fired are
// left empty.
func WriteLedgerCSV(w io.Writer, rows []LedgerRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "close", "buy_signal", "buy_price", "sell_signal", "sell_price"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			r.Date.Format(core.DateLayout), formatF(r.Close),
			strconv.FormatBool(r.BuySignal), formatNum(r.BuyPrice),
			strconv.FormatBool(r.SellSignal), formatNum(r.SellPrice),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTradesCSV writes one row per completed trade.
func WriteTradesCSV(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"buy_date", "buy_price", "sell_date", "sell_price"}); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write([]string{
			t.BuyDate.Format(core.DateLayout), formatF(t.BuyPrice),
			t.SellDate.Format(core.DateLayout), formatF(t.SellPrice),
		}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatNum(n series.Num) string {
	if !n.Valid {
		return ""
	}
	return formatF(n.Value)
}
