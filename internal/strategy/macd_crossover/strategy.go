package macd_crossover

import (
	"fmt"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/indicator"
	"github.com/newthinker/mocha/internal/strategy"
)

// Column names written by the strategy.
const (
	ColumnMACD   = "macd"
	ColumnSignal = "macd_signal"
	ColumnDiff   = "macd_diff"
)

// MACDCrossover trades the sign of macd - macd_signal.
type MACDCrossover struct {
	params strategy.Params
}

// New creates a new MACD crossover strategy
func New(p strategy.Params) *MACDCrossover {
	return &MACDCrossover{params: p}
}

// Factory adapts New to strategy.Factory.
func Factory(p strategy.Params) strategy.Strategy {
	return New(p)
}

func (m *MACDCrossover) Kind() strategy.Kind {
	return strategy.KindMACD
}

func (m *MACDCrossover) Name() string {
	return m.params.Name("macd_crossover")
}

func (m *MACDCrossover) Description() string {
	return fmt.Sprintf("MACD Crossover (%d/%d/%d, %s)", m.params.Fast, m.params.Slow, m.params.Signal, m.params.Trigger)
}

func (m *MACDCrossover) Params() strategy.Params {
	return m.params
}

func (m *MACDCrossover) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		PriceHistory: m.params.Slow + m.params.Signal - 1,
		Columns:      []string{strategy.ColumnClose},
		Indicators:   []string{"EMA", "MACD"},
	}
}

func (m *MACDCrossover) Init(cfg strategy.Config) error {
	p, err := m.params.Apply(cfg.Params)
	if err != nil {
		return err
	}
	if err := p.Validate(strategy.KindMACD); err != nil {
		return err
	}
	m.params = p
	return nil
}

func (m *MACDCrossover) Compute(ctx strategy.AnalysisContext) (*strategy.IndicatorSeries, error) {
	if err := strategy.Prepare(ctx, m.RequiredData()); err != nil {
		return nil, err
	}

	res := indicator.MACD(core.Closes(ctx.OHLCV), m.params.Fast, m.params.Slow, m.params.Signal)

	out := strategy.NewIndicatorSeries(ctx.OHLCV)
	out.AddColumn(ColumnMACD, res.MACD)
	out.AddColumn(ColumnSignal, res.Signal)
	diff := out.AddColumn(ColumnDiff, res.Diff)

	out.SetConditions(strategy.DiffConditions(diff, m.params))
	return out, nil
}
