package indicator

import "github.com/newthinker/mocha/internal/series"

// SMA calculates Simple Moving Average
// Returns slice of length: len(prices) - period + 1
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// EMA calculates Exponential Moving Average, seeded with the SMA of the
// first period prices.
// Returns slice of length: len(prices) - period + 1
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)
	multiplier := 2.0 / float64(period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)
	result = append(result, ema)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
		result = append(result, ema)
	}

	return result
}

// SMAColumn is SMA aligned to the input, with the first period-1 bars
// left undefined.
func SMAColumn(prices []float64, period int) series.Column {
	return series.Pad(SMA(prices, period), len(prices))
}

// EMAColumn is EMA aligned to the input.
func EMAColumn(prices []float64, period int) series.Column {
	return series.Pad(EMA(prices, period), len(prices))
}

// EMAOf smooths a column that itself has undefined entries. Undefined bars
// are skipped and stay undefined in the output.
func EMAOf(c series.Column, period int) series.Column {
	idx := make([]int, 0, len(c))
	for i, n := range c {
		if n.Valid {
			idx = append(idx, i)
		}
	}

	out := make(series.Column, len(c))
	ema := EMA(c.Defined(), period)
	for k, v := range ema {
		out[idx[k+period-1]] = series.Some(v)
	}
	return out
}
