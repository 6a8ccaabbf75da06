// internal/storage/ledger/memory.go
package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/newthinker/mocha/internal/backtest"
	"github.com/newthinker/mocha/internal/core"
)

var _ Store = (*MemoryStore)(nil)

type runKey struct {
	code     string
	strategy string
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu      sync.RWMutex
	prices  map[string]map[time.Time]core.OHLCV
	ledgers map[runKey]map[time.Time]backtest.LedgerRow
	results map[runKey]backtest.ResultSet
	order   []runKey
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		prices:  make(map[string]map[time.Time]core.OHLCV),
		ledgers: make(map[runKey]map[time.Time]backtest.LedgerRow),
		results: make(map[runKey]backtest.ResultSet),
	}
}

// SavePrices adds the price rows of code. The batch is rejected whole if
// any date is already present.
func (m *MemoryStore) SavePrices(ctx context.Context, code string, bars []core.OHLCV) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.prices[code]
	if rows == nil {
		rows = make(map[time.Time]core.OHLCV, len(bars))
	}
	for _, b := range bars {
		if _, dup := rows[b.Time]; dup {
			return core.Errorf(core.ErrResultExists, "price %s %s", code, b.Date())
		}
	}
	for _, b := range bars {
		rows[b.Time] = b
	}
	m.prices[code] = rows
	return nil
}

// Prices returns the stored rows of code.
func (m *MemoryStore) Prices(ctx context.Context, code string) ([]core.OHLCV, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.prices[code]
	if !ok {
		return nil, core.Errorf(core.ErrNotFound, "prices for %s", code)
	}
	out := make([]core.OHLCV, 0, len(rows))
	for _, b := range rows {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

// SaveLedger adds the ledger of one run.
func (m *MemoryStore) SaveLedger(ctx context.Context, code, strategy string, rows []backtest.LedgerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := runKey{code, strategy}
	stored := m.ledgers[key]
	if stored == nil {
		stored = make(map[time.Time]backtest.LedgerRow, len(rows))
	}
	for _, r := range rows {
		if _, dup := stored[r.Date]; dup {
			return core.Errorf(core.ErrResultExists, "ledger %s/%s %s", code, strategy, r.Date.Format(core.DateLayout))
		}
	}
	for _, r := range rows {
		stored[r.Date] = r
	}
	m.ledgers[key] = stored
	return nil
}

// Ledger returns the stored ledger of (code, strategy).
func (m *MemoryStore) Ledger(ctx context.Context, code, strategy string) ([]backtest.LedgerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.ledgers[runKey{code, strategy}]
	if !ok {
		return nil, core.Errorf(core.ErrNotFound, "ledger %s/%s", code, strategy)
	}
	out := make([]backtest.LedgerRow, 0, len(stored))
	for _, r := range stored {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaveResult adds a result set.
func (m *MemoryStore) SaveResult(ctx context.Context, rs backtest.ResultSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := runKey{rs.Code, rs.Strategy}
	if _, dup := m.results[key]; dup {
		return core.Errorf(core.ErrResultExists, "result %s/%s", rs.Code, rs.Strategy)
	}
	m.results[key] = rs
	m.order = append(m.order, key)
	return nil
}

// GetResult retrieves the result set of (code, strategy).
func (m *MemoryStore) GetResult(ctx context.Context, code, strategy string) (*backtest.ResultSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rs, ok := m.results[runKey{code, strategy}]
	if !ok {
		return nil, core.Errorf(core.ErrNotFound, "result %s/%s", code, strategy)
	}
	return &rs, nil
}

// ListResults returns result sets in insertion order.
func (m *MemoryStore) ListResults(ctx context.Context, filter ListFilter) ([]backtest.ResultSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []backtest.ResultSet
	for _, key := range m.order {
		if m.matches(key, filter) {
			result = append(result, m.results[key])
		}
	}

	// Apply offset and limit
	if filter.Offset > 0 && filter.Offset < len(result) {
		result = result[filter.Offset:]
	} else if filter.Offset >= len(result) && filter.Offset > 0 {
		return []backtest.ResultSet{}, nil
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

func (m *MemoryStore) matches(key runKey, filter ListFilter) bool {
	if filter.Code != "" && key.code != filter.Code {
		return false
	}
	if filter.Strategy != "" && key.strategy != filter.Strategy {
		return false
	}
	return true
}
