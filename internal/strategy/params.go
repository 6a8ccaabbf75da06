package strategy

import (
	"fmt"
	"strings"

	"github.com/newthinker/mocha/internal/core"
)

// Kind identifies one of the supported strategy families.
type Kind string

const (
	KindMA     Kind = "MA"
	KindMACD   Kind = "MACD"
	KindRSI    Kind = "RSI"
	KindVWMACD Kind = "VW_MACD"
)

// Kinds returns every supported kind in display order.
func Kinds() []Kind {
	return []Kind{KindMA, KindMACD, KindRSI, KindVWMACD}
}

// ParseKind accepts the canonical names case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", core.Errorf(core.ErrUnsupportedStrategy, "%q", s)
}

// Trigger selects how a sign test becomes a condition.
type Trigger string

const (
	// TriggerLevel holds the condition for as long as the test passes.
	TriggerLevel Trigger = "level"
	// TriggerCross holds it only on the bar where the test starts passing.
	TriggerCross Trigger = "cross"
)

// Params are the window sizes and options of one strategy run.
type Params struct {
	Fast     int     `json:"window_fast" mapstructure:"window_fast"`
	Slow     int     `json:"window_slow" mapstructure:"window_slow"`
	Signal   int     `json:"window_signal,omitempty" mapstructure:"window_signal"`
	Trigger  Trigger `json:"trigger,omitempty" mapstructure:"trigger"`
	Inverted bool    `json:"inverted,omitempty" mapstructure:"inverted"`
}

// DefaultParams returns the stock parameters for kind.
func DefaultParams(kind Kind) Params {
	switch kind {
	case KindMA:
		return Params{Fast: 50, Slow: 200, Trigger: TriggerLevel}
	case KindMACD, KindVWMACD:
		return Params{Fast: 12, Slow: 26, Signal: 9, Trigger: TriggerCross}
	case KindRSI:
		return Params{Fast: 2, Slow: 14, Trigger: TriggerLevel}
	default:
		return Params{}
	}
}

// UsesSignal reports whether kind reads the signal window.
func (k Kind) UsesSignal() bool {
	return k == KindMACD || k == KindVWMACD
}

// Validate checks p against the rules of kind.
func (p Params) Validate(kind Kind) error {
	if p.Fast < 1 || p.Slow < 1 {
		return core.Errorf(core.ErrInvalidParams, "windows must be positive, got fast=%d slow=%d", p.Fast, p.Slow)
	}

	switch kind {
	case KindRSI:
		if p.Fast == p.Slow {
			return core.Errorf(core.ErrInvalidParams, "rsi windows must differ, got %d", p.Fast)
		}
	case KindMA, KindMACD, KindVWMACD:
		if p.Fast >= p.Slow {
			return core.Errorf(core.ErrInvalidParams, "fast window %d must be below slow window %d", p.Fast, p.Slow)
		}
	default:
		return core.Errorf(core.ErrUnsupportedStrategy, "%q", kind)
	}

	if kind.UsesSignal() && p.Signal < 1 {
		return core.Errorf(core.ErrInvalidParams, "signal window must be positive, got %d", p.Signal)
	}

	switch p.Trigger {
	case TriggerLevel, TriggerCross:
	default:
		return core.Errorf(core.ErrInvalidParams, "unknown trigger %q", p.Trigger)
	}
	return nil
}

// Name returns base, suffixed with "_inverted" when p swaps buy and sell.
// Runs of the same kind with and without inversion are distinct results.
func (p Params) Name(base string) string {
	if p.Inverted {
		return base + "_inverted"
	}
	return base
}

// String renders p the way it appears in logs and reports.
func (p Params) String() string {
	s := fmt.Sprintf("%d/%d", p.Fast, p.Slow)
	if p.Signal > 0 {
		s += fmt.Sprintf("/%d", p.Signal)
	}
	if p.Trigger != "" {
		s += " " + string(p.Trigger)
	}
	if p.Inverted {
		s += " inverted"
	}
	return s
}

// Apply overlays config values onto p. Recognised keys are window_fast,
// window_slow, window_signal, trigger and inverted.
func (p Params) Apply(values map[string]any) (Params, error) {
	for key, raw := range values {
		switch key {
		case "window_fast", "fast_window", "fast_period":
			n, err := toInt(key, raw)
			if err != nil {
				return p, err
			}
			p.Fast = n
		case "window_slow", "slow_window", "slow_period":
			n, err := toInt(key, raw)
			if err != nil {
				return p, err
			}
			p.Slow = n
		case "window_signal", "signal_window", "signal_period":
			n, err := toInt(key, raw)
			if err != nil {
				return p, err
			}
			p.Signal = n
		case "trigger":
			s, ok := raw.(string)
			if !ok {
				return p, core.Errorf(core.ErrInvalidParams, "%s must be a string, got %T", key, raw)
			}
			p.Trigger = Trigger(strings.ToLower(s))
		case "inverted":
			b, ok := raw.(bool)
			if !ok {
				return p, core.Errorf(core.ErrInvalidParams, "%s must be a bool, got %T", key, raw)
			}
			p.Inverted = b
		}
	}
	return p, nil
}

func toInt(key string, raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, core.Errorf(core.ErrInvalidParams, "%s must be an integer, got %v", key, v)
		}
		return int(v), nil
	default:
		return 0, core.Errorf(core.ErrInvalidParams, "%s must be an integer, got %T", key, raw)
	}
}
