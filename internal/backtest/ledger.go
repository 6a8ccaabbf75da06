package backtest

import (
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/series"
	"github.com/newthinker/mocha/internal/signal"
)

// PriceAtSignal returns the close of every bar where the signal fired and
// "no value" everywhere else.
func PriceAtSignal(signals []bool, bars []core.OHLCV) []series.Num {
	out := make([]series.Num, len(signals))
	for i, fired := range signals {
		if fired && i < len(bars) {
			out[i] = series.Some(bars[i].Close)
		}
	}
	return out
}

// BuildLedger joins bars with their reduced signals.
func BuildLedger(bars []core.OHLCV, sig signal.Signals) []LedgerRow {
	buyPrice := PriceAtSignal(sig.Buy, bars)
	sellPrice := PriceAtSignal(sig.Sell, bars)

	rows := make([]LedgerRow, len(bars))
	for i, b := range bars {
		rows[i] = LedgerRow{
			Date:       b.Time,
			Close:      b.Close,
			BuySignal:  i < len(sig.Buy) && sig.Buy[i],
			BuyPrice:   buyPrice[i],
			SellSignal: i < len(sig.Sell) && sig.Sell[i],
			SellPrice:  sellPrice[i],
		}
	}
	return rows
}

// BuildTrades pairs buys with the next sell in one chronological pass.
// A second buy while a position is open is ignored, as is a sell while
// flat. A buy still open at the end of the ledger is discarded.
func BuildTrades(ledger []LedgerRow) []Trade {
	var trades []Trade
	var open *LedgerRow

	for i := range ledger {
		row := &ledger[i]
		if row.BuyPrice.Valid && open == nil {
			open = row
		}
		if row.SellPrice.Valid && open != nil {
			trades = append(trades, Trade{
				BuyDate:   open.Date,
				BuyPrice:  open.BuyPrice.Value,
				SellDate:  row.Date,
				SellPrice: row.SellPrice.Value,
			})
			open = nil
		}
	}

	return trades
}
