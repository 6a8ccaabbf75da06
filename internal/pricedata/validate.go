package pricedata

import "github.com/newthinker/mocha/internal/core"

// Validate checks a series from any source: it must be non-empty, every
// bar must have a date, finite prices, a positive close and a non-negative
// volume, and dates must strictly increase.
func Validate(bars []core.OHLCV) error {
	if len(bars) == 0 {
		return core.WrapError(core.ErrEmptySeries, nil)
	}
	for i, b := range bars {
		if !b.IsValid() {
			return core.Errorf(core.ErrInvalidInput, "bar %d (%s): open %v high %v low %v close %v volume %d",
				i, b.Date(), b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if i > 0 && !b.Time.After(bars[i-1].Time) {
			return core.Errorf(core.ErrUnorderedSeries, "%s follows %s", b.Date(), bars[i-1].Date())
		}
	}
	return nil
}
