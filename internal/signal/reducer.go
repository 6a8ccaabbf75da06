// Package signal turns raw per-bar conditions into edge-triggered signals.
//
// A condition may hold for many consecutive bars; the corresponding signal
// fires once, on the first bar of each run.
package signal

import "github.com/newthinker/mocha/internal/series"

// Reducer is the streaming form of the transition detector. The zero value
// is idle and ready to use.
type Reducer struct {
	active bool
}

// Step consumes the condition for the next bar and reports whether a
// signal fires on it.
func (r *Reducer) Step(c bool) bool {
	switch {
	case c && !r.active:
		r.active = true
		return true
	case c:
		return false
	default:
		r.active = false
		return false
	}
}

// Active reports whether the reducer is inside a run of true conditions.
func (r *Reducer) Active() bool {
	return r.active
}

// Reset returns the reducer to idle.
func (r *Reducer) Reset() {
	r.active = false
}

// Reduce maps tri-state conditions to signals. Undefined is false.
func Reduce(conds []series.Cond) []bool {
	out := make([]bool, len(conds))
	var r Reducer
	for i, c := range conds {
		out[i] = r.Step(c.IsTrue())
	}
	return out
}

// ReduceBools is Reduce for plain boolean conditions. It is a fixed point:
// ReduceBools(ReduceBools(x)) equals ReduceBools(x).
func ReduceBools(conds []bool) []bool {
	out := make([]bool, len(conds))
	var r Reducer
	for i, c := range conds {
		out[i] = r.Step(c)
	}
	return out
}

// Signals holds the reduced buy and sell columns of one run.
type Signals struct {
	Buy  []bool
	Sell []bool
}

// Pair reduces buy and sell independently.
func Pair(buy, sell []series.Cond) Signals {
	return Signals{Buy: Reduce(buy), Sell: Reduce(sell)}
}

// Count returns the number of fired signals.
func Count(signals []bool) int {
	n := 0
	for _, s := range signals {
		if s {
			n++
		}
	}
	return n
}

// Runs returns the number of maximal runs of true values in conds.
func Runs(conds []bool) int {
	n := 0
	prev := false
	for _, c := range conds {
		if c && !prev {
			n++
		}
		prev = c
	}
	return n
}
