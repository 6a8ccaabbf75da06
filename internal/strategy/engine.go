package strategy

import (
	"sort"
	"sync"

	"github.com/newthinker/mocha/internal/core"
	"go.uber.org/zap"
)

// Factory builds a strategy for validated params.
type Factory func(p Params) Strategy

// Engine is the dispatch table from Kind to strategy implementation.
type Engine struct {
	mu        sync.RWMutex
	factories map[Kind]Factory
	defaults  map[Kind]Params
	logger    *zap.Logger
}

// NewEngine creates a new strategy engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		factories: make(map[Kind]Factory),
		defaults:  make(map[Kind]Params),
		logger:    l,
	}
}

// Register adds a factory for kind
func (e *Engine) Register(kind Kind, f Factory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.factories[kind] = f
}

// SetDefaults overrides the parameters used when a caller omits them.
func (e *Engine) SetDefaults(kind Kind, p Params) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults[kind] = p
}

// Defaults returns the parameters Build falls back to for kind.
func (e *Engine) Defaults(kind Kind) Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if p, ok := e.defaults[kind]; ok {
		return p
	}
	return DefaultParams(kind)
}

// Kinds returns the registered kinds, sorted
func (e *Engine) Kinds() []Kind {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]Kind, 0, len(e.factories))
	for k := range e.factories {
		result = append(result, k)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// Build resolves kind to a strategy. Zero-valued fields of p fall back to
// the engine defaults for kind; the merged params are validated.
func (e *Engine) Build(kind Kind, p Params) (Strategy, error) {
	e.mu.RLock()
	f, ok := e.factories[kind]
	e.mu.RUnlock()
	if !ok {
		return nil, core.Errorf(core.ErrUnsupportedStrategy, "%q", kind)
	}

	merged := Merge(e.Defaults(kind), p)
	if err := merged.Validate(kind); err != nil {
		return nil, err
	}

	e.logger.Debug("strategy built",
		zap.String("strategy", string(kind)),
		zap.String("params", merged.String()),
	)
	return f(merged), nil
}

// Merge overlays the non-zero fields of p onto base. Inverted is sticky:
// either side can turn it on.
func Merge(base, p Params) Params {
	if p.Fast != 0 {
		base.Fast = p.Fast
	}
	if p.Slow != 0 {
		base.Slow = p.Slow
	}
	if p.Signal != 0 {
		base.Signal = p.Signal
	}
	if p.Trigger != "" {
		base.Trigger = p.Trigger
	}
	base.Inverted = base.Inverted || p.Inverted
	return base
}
