package indicator

import "github.com/newthinker/mocha/internal/series"

// RSI calculates the Relative Strength Index using Wilder smoothing.
// The first average gain/loss is the simple mean of the first period
// changes, so output is defined from bar index period onwards.
// An average loss of zero yields 100.
func RSI(prices []float64, period int) series.Column {
	n := len(prices)
	out := make(series.Column, n)
	if period <= 0 || n <= period {
		return out
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
	}

	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)
	out[period] = series.Some(rsiValue(avgGain, avgLoss))

	for i := period + 1; i < n; i++ {
		change := prices[i] - prices[i-1]
		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = series.Some(rsiValue(avgGain, avgLoss))
	}

	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
