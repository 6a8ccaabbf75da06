package ma_crossover

import (
	"fmt"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/indicator"
	"github.com/newthinker/mocha/internal/strategy"
)

// Column names written by the strategy.
const (
	ColumnFast = "ma_fast"
	ColumnSlow = "ma_slow"
)

// MACrossover implements a moving average crossover strategy
type MACrossover struct {
	params strategy.Params
}

// New creates a new MA Crossover strategy
func New(p strategy.Params) *MACrossover {
	return &MACrossover{params: p}
}

// Factory adapts New to strategy.Factory.
func Factory(p strategy.Params) strategy.Strategy {
	return New(p)
}

func (m *MACrossover) Kind() strategy.Kind {
	return strategy.KindMA
}

func (m *MACrossover) Name() string {
	return m.params.Name("ma_crossover")
}

func (m *MACrossover) Description() string {
	return fmt.Sprintf("MA Crossover (%d/%d)", m.params.Fast, m.params.Slow)
}

func (m *MACrossover) Params() strategy.Params {
	return m.params
}

func (m *MACrossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: m.params.Slow,
		Columns:      []string{strategy.ColumnClose},
		Indicators:   []string{"SMA"},
	}
}

func (m *MACrossover) Init(cfg strategy.Config) error {
	p, err := m.params.Apply(cfg.Params)
	if err != nil {
		return err
	}
	if err := p.Validate(strategy.KindMA); err != nil {
		return err
	}
	m.params = p
	return nil
}

// Compute adds ma_fast and ma_slow and derives the conditions from the
// rounded averages.
func (m *MACrossover) Compute(ctx strategy.AnalysisContext) (*strategy.IndicatorSeries, error) {
	if err := strategy.Prepare(ctx, m.RequiredData()); err != nil {
		return nil, err
	}

	prices := core.Closes(ctx.OHLCV)
	out := strategy.NewIndicatorSeries(ctx.OHLCV)

	fast := out.AddColumn(ColumnFast, indicator.SMAColumn(prices, m.params.Fast))
	slow := out.AddColumn(ColumnSlow, indicator.SMAColumn(prices, m.params.Slow))

	out.SetConditions(strategy.CrossoverConditions(fast, slow, m.params))
	return out, nil
}
