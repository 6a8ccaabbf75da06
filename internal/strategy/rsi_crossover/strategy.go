package rsi_crossover

import (
	"fmt"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/indicator"
	"github.com/newthinker/mocha/internal/strategy"
)

// Column names written by the strategy.
const (
	ColumnFast = "rsi_fast"
	ColumnSlow = "rsi_slow"
)

// RSICrossover compares a short-window RSI against a long-window RSI.
type RSICrossover struct {
	params strategy.Params
}

// New creates a new RSI crossover strategy
func New(p strategy.Params) *RSICrossover {
	return &RSICrossover{params: p}
}

// Factory adapts New to strategy.Factory.
func Factory(p strategy.Params) strategy.Strategy {
	return New(p)
}

func (r *RSICrossover) Kind() strategy.Kind {
	return strategy.KindRSI
}

func (r *RSICrossover) Name() string {
	return r.params.Name("rsi_crossover")
}

func (r *RSICrossover) Description() string {
	return fmt.Sprintf("RSI Crossover (%d/%d)", r.params.Fast, r.params.Slow)
}

func (r *RSICrossover) Params() strategy.Params {
	return r.params
}

func (r *RSICrossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: max(r.params.Fast, r.params.Slow) + 1,
		Columns:      []string{strategy.ColumnClose},
		Indicators:   []string{"RSI"},
	}
}

func (r *RSICrossover) Init(cfg strategy.Config) error {
	p, err := r.params.Apply(cfg.Params)
	if err != nil {
		return err
	}
	if err := p.Validate(strategy.KindRSI); err != nil {
		return err
	}
	r.params = p
	return nil
}

func (r *RSICrossover) Compute(ctx strategy.AnalysisContext) (*strategy.IndicatorSeries, error) {
	if err := strategy.Prepare(ctx, r.RequiredData()); err != nil {
		return nil, err
	}

	prices := core.Closes(ctx.OHLCV)
	out := strategy.NewIndicatorSeries(ctx.OHLCV)

	fast := out.AddColumn(ColumnFast, indicator.RSI(prices, r.params.Fast))
	slow := out.AddColumn(ColumnSlow, indicator.RSI(prices, r.params.Slow))

	out.SetConditions(strategy.CrossoverConditions(fast, slow, r.params))
	return out, nil
}
