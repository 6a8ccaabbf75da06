package vw_macd

import (
	"fmt"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/indicator"
	"github.com/newthinker/mocha/internal/strategy"
)

// Column names written by the strategy.
const (
	ColumnMACD   = "vw_macd"
	ColumnSignal = "vw_macd_signal"
	ColumnDiff   = "vw_macd_diff"
)

// VWMACD is the MACD crossover computed over rolling volume-weighted
// prices.
type VWMACD struct {
	params strategy.Params
}

// New creates a new volume-weighted MACD strategy
func New(p strategy.Params) *VWMACD {
	return &VWMACD{params: p}
}

// Factory adapts New to strategy.Factory.
func Factory(p strategy.Params) strategy.Strategy {
	return New(p)
}

func (v *VWMACD) Kind() strategy.Kind {
	return strategy.KindVWMACD
}

func (v *VWMACD) Name() string {
	return v.params.Name("vw_macd")
}

func (v *VWMACD) Description() string {
	return fmt.Sprintf("Volume-Weighted MACD (%d/%d/%d, %s)", v.params.Fast, v.params.Slow, v.params.Signal, v.params.Trigger)
}

func (v *VWMACD) Params() strategy.Params {
	return v.params
}

func (v *VWMACD) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: v.params.Slow + v.params.Signal - 1,
		Columns:      []string{strategy.ColumnClose, strategy.ColumnVolume},
		Indicators:   []string{"VWMA", "EMA"},
	}
}

func (v *VWMACD) Init(cfg strategy.Config) error {
	p, err := v.params.Apply(cfg.Params)
	if err != nil {
		return err
	}
	if err := p.Validate(strategy.KindVWMACD); err != nil {
		return err
	}
	v.params = p
	return nil
}

func (v *VWMACD) Compute(ctx strategy.AnalysisContext) (*strategy.IndicatorSeries, error) {
	if err := strategy.Prepare(ctx, v.RequiredData()); err != nil {
		return nil, err
	}

	res := indicator.VWMACD(core.Closes(ctx.OHLCV), core.Volumes(ctx.OHLCV),
		v.params.Fast, v.params.Slow, v.params.Signal)

	out := strategy.NewIndicatorSeries(ctx.OHLCV)
	out.AddColumn(ColumnMACD, res.MACD)
	out.AddColumn(ColumnSignal, res.Signal)
	diff := out.AddColumn(ColumnDiff, res.Diff)

	out.SetConditions(strategy.DiffConditions(diff, v.params))
	return out, nil
}
