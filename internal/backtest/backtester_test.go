package backtest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/metrics"
	"github.com/newthinker/mocha/internal/strategy"
	"github.com/newthinker/mocha/internal/strategy/builtin"
)

// Two MA 2/3 level trades: buy 12 sell 10, buy 12 sell 11.
var twoTradeCloses = []float64{10, 11, 12, 11, 10, 9, 10, 12, 14, 13, 11, 9}

func maRequest(code string, closes ...float64) Request {
	return Request{
		Code:   code,
		Kind:   strategy.KindMA,
		Params: strategy.Params{Fast: 2, Slow: 3, Trigger: strategy.TriggerLevel},
		Bars:   barsFromCloses(closes...),
	}
}

// memStore records what a run writes.
type memStore struct {
	mu      sync.Mutex
	ledgers map[string][]LedgerRow
	results []ResultSet
	err     error
}

func (m *memStore) SaveLedger(ctx context.Context, code, strategy string, rows []LedgerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.ledgers == nil {
		m.ledgers = make(map[string][]LedgerRow)
	}
	m.ledgers[code+"/"+strategy] = rows
	return nil
}

func (m *memStore) SaveResult(ctx context.Context, rs ResultSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, rs)
	return nil
}

func TestBacktester_Run(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	result, err := bt.Run(context.Background(), maRequest("BHP", twoTradeCloses...))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Code != "BHP" || result.Strategy != "ma_crossover" {
		t.Errorf("unexpected identity: %s %s", result.Code, result.Strategy)
	}
	if result.RunID.String() == "" {
		t.Error("expected a run id")
	}
	if len(result.Ledger) != len(twoTradeCloses) {
		t.Errorf("ledger has %d rows, want %d", len(result.Ledger), len(twoTradeCloses))
	}

	if len(result.Trades) != 2 {
		t.Fatalf("expected 2 trades, got %+v", result.Trades)
	}
	first, second := result.Trades[0], result.Trades[1]
	if first.BuyPrice != 12 || first.SellPrice != 10 || second.BuyPrice != 12 || second.SellPrice != 11 {
		t.Errorf("unexpected trades: %+v", result.Trades)
	}
	if !first.BuyDate.Equal(baseDay.AddDate(0, 0, 2)) || !second.SellDate.Equal(baseDay.AddDate(0, 0, 10)) {
		t.Errorf("unexpected trade dates: %+v", result.Trades)
	}

	rs := result.ResultSet
	if rs.TotalNumberOfTrades != 2 || rs.NumberLossTrades != 2 || rs.NumberProfitTrades != 0 {
		t.Errorf("unexpected counts: %+v", rs)
	}
	if rs.TotalProfit != -249 || rs.StrategyROI != -24.9 {
		t.Errorf("TotalProfit = %v ROI = %v, want -249 and -24.9", rs.TotalProfit, rs.StrategyROI)
	}
	if rs.GreatestProfit != -83 || rs.GreatestLoss != -166 {
		t.Errorf("extrema = %v / %v, want -83 / -166", rs.GreatestProfit, rs.GreatestLoss)
	}
	if rs.PctWin != 0 || rs.PctLoss != 100 {
		t.Errorf("pct = %v / %v, want 0 / 100", rs.PctWin, rs.PctLoss)
	}
}

func TestBacktester_Run_InitialInvestment(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)
	bt.SetInitialInvestment(10000)

	result, err := bt.Run(context.Background(), maRequest("BHP", twoTradeCloses...))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// floor(10000/12) = 833 shares
	if result.ResultSet.TotalProfit != -2499 {
		t.Errorf("TotalProfit = %v, want -2499", result.ResultSet.TotalProfit)
	}

	req := maRequest("BHP", twoTradeCloses...)
	req.InitialInvestment = 1000
	result, err = bt.Run(context.Background(), req)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ResultSet.InitialInvestment != 1000 {
		t.Errorf("request investment should win, got %v", result.ResultSet.InitialInvestment)
	}
}

func TestBacktester_Run_NoTrades(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	result, err := bt.Run(context.Background(), maRequest("BHP", 10, 10, 10, 10, 10))
	if !errors.Is(err, core.ErrNoTrades) {
		t.Errorf("expected ErrNoTrades, got %v", err)
	}
	if result != nil {
		t.Error("expected no partial result")
	}
}

func TestBacktester_Run_InputErrors(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	unordered := maRequest("BHP", twoTradeCloses...)
	unordered.Bars[3].Time = unordered.Bars[1].Time

	noVolume := maRequest("BHP", twoTradeCloses...)
	noVolume.Kind = strategy.KindVWMACD
	noVolume.Params = strategy.Params{}
	noVolume.Columns = []string{strategy.ColumnClose}

	tests := []struct {
		name string
		req  Request
		want *core.Error
	}{
		{"empty series", maRequest("BHP"), core.ErrEmptySeries},
		{"no code", maRequest("", twoTradeCloses...), core.ErrInvalidInput},
		{"unordered", unordered, core.ErrUnorderedSeries},
		{"unknown strategy", Request{Code: "BHP", Kind: "BOLLINGER", Bars: barsFromCloses(1, 2)}, core.ErrUnsupportedStrategy},
		{"bad params", Request{Code: "BHP", Kind: strategy.KindMA, Params: strategy.Params{Fast: 9, Slow: 3}, Bars: barsFromCloses(1, 2)}, core.ErrInvalidParams},
		{"missing volume", noVolume, core.ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bt.Run(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !core.IsInputError(err) {
				t.Errorf("expected an input error, got %v", err)
			}
		})
	}
}

func TestBacktester_Run_Cancelled(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bt.Run(ctx, maRequest("BHP", twoTradeCloses...))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBacktester_Run_DoesNotMutateBars(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)
	req := maRequest("BHP", twoTradeCloses...)
	snapshot := append([]core.OHLCV(nil), req.Bars...)

	if _, err := bt.Run(context.Background(), req); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	for i := range snapshot {
		if snapshot[i] != req.Bars[i] {
			t.Fatalf("bar %d changed: %+v -> %+v", i, snapshot[i], req.Bars[i])
		}
	}
}

func TestBacktester_Run_WritesStore(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)
	store := &memStore{}
	bt.SetStore(store)

	if _, err := bt.Run(context.Background(), maRequest("BHP", twoTradeCloses...)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.ledgers["BHP/ma_crossover"]) != len(twoTradeCloses) {
		t.Error("expected the ledger to be stored")
	}
	if len(store.results) != 1 || store.results[0].TotalNumberOfTrades != 2 {
		t.Errorf("unexpected stored results: %+v", store.results)
	}

	store.err = core.ErrResultExists
	_, err := bt.Run(context.Background(), maRequest("BHP", twoTradeCloses...))
	if !errors.Is(err, core.ErrResultExists) {
		t.Errorf("expected store error to abort the run, got %v", err)
	}
}

func TestBacktester_Run_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	bt := New(builtin.NewEngine(nil), nil)
	bt.SetMetrics(reg)

	bt.Run(context.Background(), maRequest("BHP", twoTradeCloses...))
	bt.Run(context.Background(), maRequest("BHP", 10, 10, 10, 10))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	seen := map[string]bool{}
	for _, mf := range mfs {
		seen[mf.GetName()] = true
	}
	for _, name := range []string{"mocha_runs_total", "mocha_trades_total", "mocha_signals_total", "mocha_warmup_bars_total"} {
		if !seen[name] {
			t.Errorf("expected %s metric", name)
		}
	}
}

func TestBacktester_Batch(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	reqs := []Request{
		maRequest("BHP", twoTradeCloses...),
		maRequest("RIO", 10, 10, 10, 10),
		maRequest("CBA"),
		maRequest("WES", twoTradeCloses...),
	}

	results, errs := bt.Batch(context.Background(), reqs, 2)
	if len(results) != len(reqs) || len(errs) != len(reqs) {
		t.Fatalf("expected %d results and errors", len(reqs))
	}

	if errs[0] != nil || results[0] == nil || results[0].Code != "BHP" {
		t.Errorf("request 0: %v %+v", errs[0], results[0])
	}
	if !errors.Is(errs[1], core.ErrNoTrades) || results[1] != nil {
		t.Errorf("request 1: expected ErrNoTrades, got %v", errs[1])
	}
	if !errors.Is(errs[2], core.ErrEmptySeries) || results[2] != nil {
		t.Errorf("request 2: expected ErrEmptySeries, got %v", errs[2])
	}
	if errs[3] != nil || results[3].Code != "WES" {
		t.Errorf("request 3: %v", errs[3])
	}
	if results[0].RunID == results[3].RunID {
		t.Error("runs must have distinct ids")
	}
}

func TestBacktester_Batch_Cancelled(t *testing.T) {
	bt := New(builtin.NewEngine(nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, errs := bt.Batch(ctx, []Request{maRequest("BHP", twoTradeCloses...)}, 0)
	if !errors.Is(errs[0], context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", errs[0])
	}
}
