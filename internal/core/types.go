package core

import (
	"math"
	"time"
)

// DateLayout is the calendar date format used for bars, ledgers and trades.
const DateLayout = "2006-01-02"

// OHLCV represents one daily price bar
type OHLCV struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Time   time.Time
}

// Date returns the bar's calendar date as YYYY-MM-DD.
func (b OHLCV) Date() string {
	return b.Time.Format(DateLayout)
}

// IsValid checks if the bar has a usable close: every price finite, the
// close positive and the volume non-negative.
func (b OHLCV) IsValid() bool {
	for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsInf(p, 0) || math.IsNaN(p) {
			return false
		}
	}
	return !b.Time.IsZero() && b.Close > 0 && b.Volume >= 0
}

// Side represents the direction of a signal
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Closes extracts closing prices in bar order.
func Closes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts volumes in bar order as float64.
func Volumes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return out
}
