package indicator

import "github.com/newthinker/mocha/internal/series"

// MACDResult holds the three MACD lines aligned to the input bars.
type MACDResult struct {
	MACD   series.Column
	Signal series.Column
	Diff   series.Column
}

// MACD computes EMA(fast) - EMA(slow), its signal EMA and the difference.
func MACD(prices []float64, fast, slow, signal int) MACDResult {
	line := EMAColumn(prices, fast).Sub(EMAColumn(prices, slow))
	return macdFromLine(line, signal)
}

// VWMACD is MACD built on rolling volume-weighted prices instead of EMAs
// of close.
func VWMACD(closes, volumes []float64, fast, slow, signal int) MACDResult {
	line := VWMA(closes, volumes, fast).Sub(VWMA(closes, volumes, slow))
	return macdFromLine(line, signal)
}

func macdFromLine(line series.Column, signal int) MACDResult {
	sig := EMAOf(line, signal)
	return MACDResult{
		MACD:   line,
		Signal: sig,
		Diff:   line.Sub(sig),
	}
}
