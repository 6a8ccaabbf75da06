package indicator

import "github.com/newthinker/mocha/internal/series"

// VWMA is the rolling volume-weighted average price over period bars:
// sum(close*volume) / sum(volume). Windows with zero total volume, and the
// first period-1 bars, are undefined.
func VWMA(closes, volumes []float64, period int) series.Column {
	n := len(closes)
	out := make(series.Column, n)
	if period <= 0 || len(volumes) != n {
		return out
	}

	var sumPV, sumV float64
	for i := 0; i < n; i++ {
		sumPV += closes[i] * volumes[i]
		sumV += volumes[i]

		if i >= period {
			sumPV -= closes[i-period] * volumes[i-period]
			sumV -= volumes[i-period]
		}
		if i < period-1 || sumV <= 0 {
			continue
		}
		out[i] = series.Some(sumPV / sumV)
	}
	return out
}
