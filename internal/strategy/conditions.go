package strategy

import "github.com/newthinker/mocha/internal/series"

// CrossoverConditions implements the two-line rule shared by the MA and RSI
// strategies: buy while fast is above slow, sell while slow is above fast.
// Equal lines satisfy neither side. TriggerCross narrows this to the golden
// and death cross bars.
func CrossoverConditions(fast, slow series.Column, p Params) (buy, sell []series.Cond) {
	return DiffConditions(fast.Sub(slow), p)
}

// DiffConditions turns a MACD-style difference line into conditions.
// With TriggerLevel buy holds while diff > 0 and sell while diff < 0; with
// TriggerCross only on the bar where diff changes sign. Inverted swaps the
// two sides.
func DiffConditions(diff series.Column, p Params) (buy, sell []series.Cond) {
	if p.Trigger == TriggerCross {
		buy = series.Crossing(diff, func(prev, curr float64) bool { return prev <= 0 && curr > 0 })
		sell = series.Crossing(diff, func(prev, curr float64) bool { return prev >= 0 && curr < 0 })
	} else {
		buy = series.Threshold(diff, func(x float64) bool { return x > 0 })
		sell = series.Threshold(diff, func(x float64) bool { return x < 0 })
	}
	if p.Inverted {
		buy, sell = sell, buy
	}
	return buy, sell
}
