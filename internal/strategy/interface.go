package strategy

import (
	"github.com/newthinker/mocha/internal/core"
)

// Price column names a strategy can require from its data source.
const (
	ColumnOpen   = "Open"
	ColumnHigh   = "High"
	ColumnLow    = "Low"
	ColumnClose  = "Close"
	ColumnVolume = "Volume"
)

// Config holds strategy configuration
type Config struct {
	Params map[string]any
}

// DataRequirements specifies what data a strategy needs
type DataRequirements struct {
	PriceHistory int // Bars before the first defined condition
	Columns      []string
	Indicators   []string
}

// AnalysisContext provides data to strategies
type AnalysisContext struct {
	Symbol string
	OHLCV  []core.OHLCV
	// Columns lists the price columns the source actually supplied.
	// Nil means a full OHLCV table.
	Columns []string
}

// Strategy turns a price series into indicator columns and buy/sell
// conditions. Implementations hold only their parameters and are safe to
// share between concurrent runs.
type Strategy interface {
	Kind() Kind
	Name() string
	Description() string
	Params() Params
	RequiredData() DataRequirements
	Init(cfg Config) error
	Compute(ctx AnalysisContext) (*IndicatorSeries, error)
}

// CheckColumns fails with ErrMissingColumn when ctx lacks a required column.
func CheckColumns(ctx AnalysisContext, req DataRequirements) error {
	if ctx.Columns == nil {
		return nil
	}
	have := make(map[string]struct{}, len(ctx.Columns))
	for _, c := range ctx.Columns {
		have[c] = struct{}{}
	}
	for _, c := range req.Columns {
		if _, ok := have[c]; !ok {
			return core.Errorf(core.ErrMissingColumn, "column %q", c)
		}
	}
	return nil
}

// Prepare runs the checks every Compute starts with.
func Prepare(ctx AnalysisContext, req DataRequirements) error {
	if len(ctx.OHLCV) == 0 {
		return core.WrapError(core.ErrEmptySeries, nil)
	}
	return CheckColumns(ctx, req)
}
