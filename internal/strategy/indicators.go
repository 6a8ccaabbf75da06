package strategy

import (
	"fmt"
	"time"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/series"
)

// IndicatorSeries is the output of a strategy: named indicator columns and
// the buy/sell conditions, all aligned to the input bars. It is built once
// by Compute and read-only afterwards.
type IndicatorSeries struct {
	Dates []time.Time
	Close []float64

	names   []string
	columns map[string]series.Column

	Buy  []series.Cond
	Sell []series.Cond
	// Conflicts counts bars where both conditions held and were cleared.
	Conflicts int
}

// NewIndicatorSeries starts a series aligned to bars.
func NewIndicatorSeries(bars []core.OHLCV) *IndicatorSeries {
	dates := make([]time.Time, len(bars))
	for i, b := range bars {
		dates[i] = b.Time
	}
	return &IndicatorSeries{
		Dates:   dates,
		Close:   core.Closes(bars),
		columns: make(map[string]series.Column),
	}
}

// Len returns the number of bars.
func (s *IndicatorSeries) Len() int {
	return len(s.Dates)
}

// AddColumn stores col rounded to two decimals under name.
func (s *IndicatorSeries) AddColumn(name string, col series.Column) series.Column {
	if len(col) != s.Len() {
		panic(fmt.Sprintf("indicator column %s has %d entries, want %d", name, len(col), s.Len()))
	}
	rounded := col.Round(2)
	if _, exists := s.columns[name]; !exists {
		s.names = append(s.names, name)
	}
	s.columns[name] = rounded
	return rounded
}

// Column returns a named column.
func (s *IndicatorSeries) Column(name string) (series.Column, bool) {
	c, ok := s.columns[name]
	return c, ok
}

// Names lists column names in insertion order.
func (s *IndicatorSeries) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SetConditions stores the conditions after clearing bars where both
// sides hold.
func (s *IndicatorSeries) SetConditions(buy, sell []series.Cond) {
	s.Buy, s.Sell, s.Conflicts = series.Resolve(buy, sell)
}

// WarmupBars counts bars on which neither condition is defined yet.
func (s *IndicatorSeries) WarmupBars() int {
	n := 0
	for i := range s.Buy {
		if s.Buy[i] == series.Undefined && s.Sell[i] == series.Undefined {
			n++
		}
	}
	return n
}
