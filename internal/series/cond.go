package series

// Cond is a per-bar condition. Undefined marks bars whose inputs are still
// in warm-up and is read as false by every consumer.
type Cond uint8

const (
	Undefined Cond = iota
	False
	True
)

// CondOf converts a plain boolean.
func CondOf(b bool) Cond {
	if b {
		return True
	}
	return False
}

// IsTrue reports whether the condition holds. Undefined is false.
func (c Cond) IsTrue() bool {
	return c == True
}

func (c Cond) String() string {
	switch c {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "undefined"
	}
}

// MarshalText encodes the condition as true/false/undefined.
func (c Cond) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Compare evaluates pred over two aligned columns. Bars where either side
// has no value are Undefined.
func Compare(a, b Column, pred func(x, y float64) bool) []Cond {
	out := make([]Cond, len(a))
	for i := range a {
		if i >= len(b) || !a[i].Valid || !b[i].Valid {
			continue
		}
		out[i] = CondOf(pred(a[i].Value, b[i].Value))
	}
	return out
}

// Threshold evaluates pred against every defined entry.
func Threshold(c Column, pred func(x float64) bool) []Cond {
	out := make([]Cond, len(c))
	for i, n := range c {
		if n.Valid {
			out[i] = CondOf(pred(n.Value))
		}
	}
	return out
}

// Crossing is the edge-triggered form of Threshold: a bar is True only
// when pred holds now and did not hold on the previous defined bar. The
// first defined bar has no predecessor and is False.
func Crossing(c Column, pred func(prev, curr float64) bool) []Cond {
	out := make([]Cond, len(c))
	havePrev := false
	var prev float64
	for i, n := range c {
		if !n.Valid {
			continue
		}
		if havePrev {
			out[i] = CondOf(pred(prev, n.Value))
		} else {
			out[i] = False
		}
		prev = n.Value
		havePrev = true
	}
	return out
}

// Resolve clears bars where buy and sell both hold, returning new slices.
// Such bars become False on both sides.
func Resolve(buy, sell []Cond) ([]Cond, []Cond, int) {
	b := make([]Cond, len(buy))
	s := make([]Cond, len(sell))
	copy(b, buy)
	copy(s, sell)

	conflicts := 0
	for i := range b {
		if i < len(s) && b[i].IsTrue() && s[i].IsTrue() {
			b[i], s[i] = False, False
			conflicts++
		}
	}
	return b, s, conflicts
}

// CountUndefined returns how many bars are still in warm-up.
func CountUndefined(conds []Cond) int {
	n := 0
	for _, c := range conds {
		if c == Undefined {
			n++
		}
	}
	return n
}
