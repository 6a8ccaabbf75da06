// internal/storage/archive/results.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
	"go.uber.org/zap"
)

const (
	resultsDir = "results"
	ledgersDir = "ledgers"
)

// Record is the archived form of a run's result set.
type Record struct {
	RunID      string             `json:"run_id"`
	Kind       strategy.Kind      `json:"kind"`
	Params     strategy.Params    `json:"params"`
	ArchivedAt time.Time          `json:"archived_at"`
	Result     backtest.ResultSet `json:"result"`
}

// ResultArchive writes run outputs to a Storage backend as JSON, one
// result and one ledger per (code, strategy). Archived runs are never
// overwritten.
type ResultArchive struct {
	store  Storage
	logger *zap.Logger
	now    func() time.Time
}

// NewResultArchive creates an archive on store.
func NewResultArchive(store Storage, logger *zap.Logger) *ResultArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultArchive{store: store, logger: logger, now: time.Now}
}

// ResultPath is where the result of (code, strategy) is archived.
func ResultPath(code, strategyName string) string {
	return resultsDir + "/" + code + "/" + strategyName + ".json"
}

// LedgerPath is where the ledger of (code, strategy) is archived.
func LedgerPath(code, strategyName string) string {
	return ledgersDir + "/" + code + "/" + strategyName + ".json"
}

func checkSegment(kind, s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return core.Errorf(core.ErrInvalidInput, "%s %q cannot be used in an archive path", kind, s)
	}
	return nil
}

// Save archives res. It fails with core.ErrResultExists if either file of
// the run is already present.
func (a *ResultArchive) Save(ctx context.Context, res *backtest.Result) error {
	if err := checkSegment("code", res.Code); err != nil {
		return err
	}
	if err := checkSegment("strategy", res.Strategy); err != nil {
		return err
	}

	resultPath := ResultPath(res.Code, res.Strategy)
	ledgerPath := LedgerPath(res.Code, res.Strategy)
	for _, p := range []string{resultPath, ledgerPath} {
		exists, err := a.store.Exists(ctx, p)
		if err != nil {
			return err
		}
		if exists {
			return core.Errorf(core.ErrResultExists, "%s", p)
		}
	}

	record := Record{
		RunID:      res.RunID.String(),
		Kind:       res.Kind,
		Params:     res.Params,
		ArchivedAt: a.now().UTC(),
		Result:     res.ResultSet,
	}
	resultData, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	ledgerData, err := json.Marshal(res.Ledger)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	// Ledger first: a result file implies a complete run.
	if err := a.store.Write(ctx, ledgerPath, ledgerData); err != nil {
		return err
	}
	if err := a.store.Write(ctx, resultPath, resultData); err != nil {
		return err
	}

	a.logger.Info("run archived",
		zap.String("run_id", record.RunID),
		zap.String("code", res.Code),
		zap.String("strategy", res.Strategy),
		zap.String("path", resultPath),
	)
	return nil
}

// Result loads the archived record of (code, strategy).
func (a *ResultArchive) Result(ctx context.Context, code, strategyName string) (*Record, error) {
	data, err := a.store.Read(ctx, ResultPath(code, strategyName))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	return &rec, nil
}

// Ledger loads the archived ledger of (code, strategy).
func (a *ResultArchive) Ledger(ctx context.Context, code, strategyName string) ([]backtest.LedgerRow, error) {
	data, err := a.store.Read(ctx, LedgerPath(code, strategyName))
	if err != nil {
		return nil, err
	}
	var rows []backtest.LedgerRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding ledger: %w", err)
	}
	return rows, nil
}

// Runs lists the archived (code, strategy) pairs as "code/strategy".
func (a *ResultArchive) Runs(ctx context.Context) ([]string, error) {
	paths, err := a.store.List(ctx, resultsDir)
	if err != nil {
		return nil, err
	}
	runs := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimPrefix(p, resultsDir+"/")
		if !strings.HasSuffix(p, ".json") {
			continue
		}
		runs = append(runs, strings.TrimSuffix(p, ".json"))
	}
	return runs, nil
}
