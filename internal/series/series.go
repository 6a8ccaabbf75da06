// Package series holds bar-aligned columns whose entries may be undefined.
package series

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Num is an optional number. The zero value is "no value".
type Num struct {
	Value float64
	Valid bool
}

// Some returns a defined Num. NaN and infinities become "no value".
func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{Value: v, Valid: true}
}

// None is the undefined Num.
var None = Num{}

// MarshalJSON encodes "no value" as null.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON decodes null as "no value".
func (n *Num) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = None
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Column is a bar-aligned sequence of optional numbers.
type Column []Num

// Pad aligns a warm-up-trimmed indicator output to n bars by prefixing
// "no value" entries. values must not be longer than n.
func Pad(values []float64, n int) Column {
	out := make(Column, n)
	offset := n - len(values)
	for i, v := range values {
		out[offset+i] = Some(v)
	}
	return out
}

// FromFloats wraps every value, mapping NaN to "no value".
func FromFloats(values []float64) Column {
	out := make(Column, len(values))
	for i, v := range values {
		out[i] = Some(v)
	}
	return out
}

// Sub returns c - o element-wise; undefined where either side is.
func (c Column) Sub(o Column) Column {
	out := make(Column, len(c))
	for i := range c {
		if i < len(o) && c[i].Valid && o[i].Valid {
			out[i] = Some(c[i].Value - o[i].Value)
		}
	}
	return out
}

// Round rounds every defined entry to places decimals.
func (c Column) Round(places int32) Column {
	out := make(Column, len(c))
	for i, n := range c {
		if n.Valid {
			out[i] = Some(Round(n.Value, places))
		}
	}
	return out
}

// Defined returns the defined values in order, dropping warm-up gaps.
func (c Column) Defined() []float64 {
	out := make([]float64, 0, len(c))
	for _, n := range c {
		if n.Valid {
			out = append(out, n.Value)
		}
	}
	return out
}

// FirstDefined returns the index of the first defined entry, or len(c).
func (c Column) FirstDefined() int {
	for i, n := range c {
		if n.Valid {
			return i
		}
	}
	return len(c)
}

// Round rounds v half away from zero.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds v to two decimals, the precision of every reported price.
func Round2(v float64) float64 {
	return Round(v, 2)
}
