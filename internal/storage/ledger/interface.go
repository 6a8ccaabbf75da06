// internal/storage/ledger/interface.go
package ledger

import (
	"context"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/core"
)

// Store persists run inputs and outputs. Every key is written at most
// once; a second write fails with core.ErrResultExists.
type Store interface {
	// SavePrices records the price rows of code, keyed by (code, date).
	SavePrices(ctx context.Context, code string, bars []core.OHLCV) error

	// Prices returns the price rows of code in date order.
	Prices(ctx context.Context, code string) ([]core.OHLCV, error)

	// SaveLedger records the per-bar ledger of a run, keyed by
	// (code, strategy, date).
	SaveLedger(ctx context.Context, code, strategy string, rows []backtest.LedgerRow) error

	// Ledger returns the ledger of (code, strategy) in date order.
	Ledger(ctx context.Context, code, strategy string) ([]backtest.LedgerRow, error)

	// SaveResult records a result set, keyed by (code, strategy).
	SaveResult(ctx context.Context, rs backtest.ResultSet) error

	// GetResult retrieves the result set of (code, strategy).
	GetResult(ctx context.Context, code, strategy string) (*backtest.ResultSet, error)

	// ListResults returns result sets matching the filter.
	ListResults(ctx context.Context, filter ListFilter) ([]backtest.ResultSet, error)
}

// ListFilter defines criteria for listing result sets.
type ListFilter struct {
	Code     string
	Strategy string
	Limit    int
	Offset   int
}

var _ backtest.Store = (Store)(nil)
