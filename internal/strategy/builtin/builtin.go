// Package builtin wires the shipped strategies into a strategy.Engine.
package builtin

import (
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/newthinker/mocha/internal/strategy/ma_crossover"
	"github.com/newthinker/mocha/internal/strategy/macd_crossover"
	"github.com/newthinker/mocha/internal/strategy/rsi_crossover"
	"github.com/newthinker/mocha/internal/strategy/vw_macd"
	"go.uber.org/zap"
)

// FactoryFor returns the implementation of kind. Every strategy.Kind must
// have a case here.
func FactoryFor(kind strategy.Kind) (strategy.Factory, error) {
	switch kind {
	case strategy.KindMA:
		return ma_crossover.Factory, nil
	case strategy.KindMACD:
		return macd_crossover.Factory, nil
	case strategy.KindRSI:
		return rsi_crossover.Factory, nil
	case strategy.KindVWMACD:
		return vw_macd.Factory, nil
	default:
		return nil, core.Errorf(core.ErrUnsupportedStrategy, "%q", kind)
	}
}

// Register adds every built-in kind to e.
func Register(e *strategy.Engine) error {
	for _, kind := range strategy.Kinds() {
		f, err := FactoryFor(kind)
		if err != nil {
			return err
		}
		e.Register(kind, f)
	}
	return nil
}

// NewEngine returns an engine with all built-in strategies registered.
func NewEngine(logger *zap.Logger) *strategy.Engine {
	e := strategy.NewEngine(logger)
	if err := Register(e); err != nil {
		// strategy.Kinds and FactoryFor are out of sync.
		panic(err)
	}
	return e
}
