package backtest

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/metrics"
	"github.com/newthinker/mocha/internal/pricedata"
	"github.com/newthinker/mocha/internal/signal"
	"github.com/newthinker/mocha/internal/strategy"
	"go.uber.org/zap"
)

// Store receives the ledger and result set of every successful run.
type Store interface {
	SaveLedger(ctx context.Context, code, strategy string, rows []LedgerRow) error
	SaveResult(ctx context.Context, rs ResultSet) error
}

// Backtester runs strategies over price series and aggregates the trades.
type Backtester struct {
	engine     *strategy.Engine
	logger     *zap.Logger
	metrics    *metrics.Registry
	store      Store
	investment float64
}

// New creates a new Backtester resolving strategies through engine.
func New(engine *strategy.Engine, logger *zap.Logger) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backtester{
		engine:     engine,
		logger:     logger,
		investment: DefaultInitialInvestment,
	}
}

// SetMetrics attaches a metrics registry.
func (b *Backtester) SetMetrics(reg *metrics.Registry) {
	b.metrics = reg
}

// SetStore attaches a store that every successful run is written to.
func (b *Backtester) SetStore(store Store) {
	b.store = store
}

// SetInitialInvestment changes the default stake per trade.
func (b *Backtester) SetInitialInvestment(v float64) {
	if v > 0 {
		b.investment = v
	}
}

// Run executes the full pipeline for one request. Any error aborts the
// run and no partial result is returned; a run without a completed trade
// fails with core.ErrNoTrades.
func (b *Backtester) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	if b.metrics != nil {
		b.metrics.InFlightInc()
		defer b.metrics.InFlightDec()
	}

	res, err := b.run(ctx, req)

	status := metrics.StatusOK
	switch {
	case errors.Is(err, core.ErrNoTrades):
		status = metrics.StatusNoTrades
	case err != nil:
		status = metrics.StatusError
	}
	if b.metrics != nil {
		b.metrics.RecordRun(string(req.Kind), status, time.Since(start).Seconds())
	}

	if err != nil {
		b.logger.Warn("backtest failed",
			zap.String("code", req.Code),
			zap.String("strategy", string(req.Kind)),
			zap.String("status", status),
			zap.Error(err),
		)
		return nil, err
	}

	b.logger.Info("backtest completed",
		zap.String("run_id", res.RunID.String()),
		zap.String("code", res.Code),
		zap.String("strategy", res.Strategy),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("total_profit", res.ResultSet.TotalProfit),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (b *Backtester) run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Code == "" {
		return nil, core.Errorf(core.ErrInvalidInput, "instrument code is empty")
	}
	if err := pricedata.Validate(req.Bars); err != nil {
		return nil, err
	}

	strat, err := b.engine.Build(req.Kind, req.Params)
	if err != nil {
		return nil, err
	}

	// Indicator engine
	ind, err := strat.Compute(strategy.AnalysisContext{
		Symbol:  req.Code,
		OHLCV:   req.Bars,
		Columns: req.Columns,
	})
	if err != nil {
		return nil, err
	}

	warmup := ind.WarmupBars()
	b.logger.Debug("indicators computed",
		zap.String("code", req.Code),
		zap.String("strategy", strat.Name()),
		zap.Int("bars", ind.Len()),
		zap.Int("warmup_bars", warmup),
		zap.Int("conflicts", ind.Conflicts),
	)
	if b.metrics != nil {
		b.metrics.RecordWarmup(string(req.Kind), warmup)
		b.metrics.RecordConflicts(string(req.Kind), ind.Conflicts)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Signal reducer, trade builder
	sigs := signal.Pair(ind.Buy, ind.Sell)
	ledger := BuildLedger(req.Bars, sigs)
	trades := BuildTrades(ledger)

	if b.metrics != nil {
		b.metrics.RecordSignals(string(req.Kind), string(core.SideBuy), signal.Count(sigs.Buy))
		b.metrics.RecordSignals(string(req.Kind), string(core.SideSell), signal.Count(sigs.Sell))
		b.metrics.RecordTrades(string(req.Kind), len(trades))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Performance aggregator
	investment := b.investment
	if req.InitialInvestment > 0 {
		investment = req.InitialInvestment
	}
	perf, err := NewPerformance(trades, investment)
	if err != nil {
		return nil, err
	}
	rs, err := perf.ResultSet(req.Code, strat.Name())
	if err != nil {
		return nil, core.Errorf(core.ErrNoTrades, "%s %s: %d buy and %d sell signals",
			req.Code, strat.Name(), signal.Count(sigs.Buy), signal.Count(sigs.Sell))
	}

	if b.store != nil {
		if err := b.store.SaveLedger(ctx, req.Code, strat.Name(), ledger); err != nil {
			return nil, err
		}
		if err := b.store.SaveResult(ctx, rs); err != nil {
			return nil, err
		}
	}

	return &Result{
		RunID:      uuid.New(),
		Code:       req.Code,
		Strategy:   strat.Name(),
		Kind:       req.Kind,
		Params:     strat.Params(),
		Indicators: ind,
		Signals:    sigs,
		Ledger:     ledger,
		Trades:     trades,
		ResultSet:  rs,
	}, nil
}
