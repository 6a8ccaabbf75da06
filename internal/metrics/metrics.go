package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Run outcomes used as the status label.
const (
	StatusOK       = "ok"
	StatusNoTrades = "no_trades"
	StatusError    = "error"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	runsInFlight  prometheus.Gauge
	tradesTotal   *prometheus.CounterVec
	signalsTotal  *prometheus.CounterVec
	warmupBars    *prometheus.CounterVec
	conflictsBars *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mocha_runs_total",
				Help: "Total number of backtest runs",
			},
			[]string{"strategy", "status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mocha_run_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),

		runsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mocha_runs_in_flight",
				Help: "Number of backtest runs currently executing",
			},
		),
	}

	reg.MustRegister(r.runsTotal)
	reg.MustRegister(r.runDuration)
	reg.MustRegister(r.runsInFlight)

	r.tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocha_trades_total",
			Help: "Total number of completed trades",
		},
		[]string{"strategy"},
	)
	r.signalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocha_signals_total",
			Help: "Total number of edge-triggered signals",
		},
		[]string{"strategy", "side"},
	)
	r.warmupBars = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocha_warmup_bars_total",
			Help: "Bars with no defined condition because indicators were still warming up",
		},
		[]string{"strategy"},
	)
	r.conflictsBars = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocha_condition_conflicts_total",
			Help: "Bars where buy and sell conditions held together and were cleared",
		},
		[]string{"strategy"},
	)

	reg.MustRegister(r.tradesTotal)
	reg.MustRegister(r.signalsTotal)
	reg.MustRegister(r.warmupBars)
	reg.MustRegister(r.conflictsBars)

	return r
}

// RecordRun records a finished run.
func (r *Registry) RecordRun(strategy, status string, duration float64) {
	r.runsTotal.WithLabelValues(strategy, status).Inc()
	r.runDuration.Observe(duration)
}

// InFlightInc increments in-flight runs.
func (r *Registry) InFlightInc() {
	r.runsInFlight.Inc()
}

// InFlightDec decrements in-flight runs.
func (r *Registry) InFlightDec() {
	r.runsInFlight.Dec()
}

// RecordTrades adds n completed trades.
func (r *Registry) RecordTrades(strategy string, n int) {
	r.tradesTotal.WithLabelValues(strategy).Add(float64(n))
}

// RecordSignals adds n signals for side ("buy" or "sell").
func (r *Registry) RecordSignals(strategy, side string, n int) {
	r.signalsTotal.WithLabelValues(strategy, side).Add(float64(n))
}

// RecordWarmup adds n warm-up bars.
func (r *Registry) RecordWarmup(strategy string, n int) {
	r.warmupBars.WithLabelValues(strategy).Add(float64(n))
}

// RecordConflicts adds n cleared buy/sell conflicts.
func (r *Registry) RecordConflicts(strategy string, n int) {
	r.conflictsBars.WithLabelValues(strategy).Add(float64(n))
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
