package main

import (
	"fmt"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/config"
	"github.com/newthinker/mocha/internal/logger"
	"github.com/newthinker/mocha/internal/metrics"
	"github.com/newthinker/mocha/internal/storage/archive"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/newthinker/mocha/internal/strategy/builtin"
	"go.uber.org/zap"
)

// env is what every command needs: config, logger, the strategy engine and
// a backtester wired to them.
type env struct {
	cfg        *config.Config
	log        *zap.Logger
	engine     *strategy.Engine
	metrics    *metrics.Registry
	backtester *backtest.Backtester
}

func setup() (*env, error) {
	// Load config
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg = config.Defaults()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Initialize logger
	log, err := logger.New(debug || cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	if cfgFile == "" {
		log.Debug("no config file specified, using defaults")
	}

	engine := builtin.NewEngine(log)
	if err := cfg.ApplyStrategies(engine); err != nil {
		return nil, err
	}

	bt := backtest.New(engine, log)
	bt.SetInitialInvestment(cfg.Backtest.InitialInvestment)

	e := &env{cfg: cfg, log: log, engine: engine, backtester: bt}
	if cfg.Metrics.Enabled {
		e.metrics = metrics.NewRegistry()
		bt.SetMetrics(e.metrics)
	}
	return e, nil
}

// archive opens the configured result archive.
func (e *env) archive() (*archive.ResultArchive, error) {
	store, err := archive.Open(e.cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	return archive.NewResultArchive(store, e.log), nil
}

// close flushes the metrics textfile and the logger.
func (e *env) close() {
	if e.metrics != nil {
		if err := e.metrics.WriteTextfile(e.cfg.Metrics.Textfile); err != nil {
			e.log.Warn("writing metrics textfile failed",
				zap.String("path", e.cfg.Metrics.Textfile),
				zap.Error(err),
			)
		}
	}
	_ = e.log.Sync()
}
