// Package pricedata loads and checks daily price tables.
package pricedata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/mocha/internal/core"
	"github.com/newthinker/mocha/internal/strategy"
)

// ColumnDate is the header of the date column.
const ColumnDate = "Date"

var knownColumns = []string{
	ColumnDate,
	strategy.ColumnOpen,
	strategy.ColumnHigh,
	strategy.ColumnLow,
	strategy.ColumnClose,
	strategy.ColumnVolume,
}

// Table is a loaded price series and the price columns its source had.
type Table struct {
	Bars    []core.OHLCV
	Columns []string
}

// LoadFile reads a CSV price table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV parses a CSV price table. The header is matched
// case-insensitively; Date and Close are required. Missing Open, High and
// Low default to the close, a missing Volume to zero. Unknown columns are
// ignored.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.Errorf(core.ErrEmptySeries, "no header row")
	}
	if err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}

	idx := indexHeader(header)
	for _, required := range []string{ColumnDate, strategy.ColumnClose} {
		if _, ok := idx[required]; !ok {
			return nil, core.Errorf(core.ErrMissingColumn, "column %q", required)
		}
	}

	var columns []string
	for _, c := range knownColumns[1:] {
		if _, ok := idx[c]; ok {
			columns = append(columns, c)
		}
	}

	var bars []core.OHLCV
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrInvalidInput, err)
		}
		line, _ := cr.FieldPos(0)

		bar, err := parseRow(rec, idx)
		if err != nil {
			return nil, core.Errorf(core.ErrInvalidInput, "line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	if err := Validate(bars); err != nil {
		return nil, err
	}
	return &Table{Bars: bars, Columns: columns}, nil
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		for _, known := range knownColumns {
			if strings.EqualFold(h, known) {
				if _, dup := idx[known]; !dup {
					idx[known] = i
				}
			}
		}
	}
	return idx
}

func parseRow(rec []string, idx map[string]int) (core.OHLCV, error) {
	var bar core.OHLCV

	date, err := time.Parse(core.DateLayout, field(rec, idx[ColumnDate]))
	if err != nil {
		return bar, err
	}
	bar.Time = date

	if bar.Close, err = parsePrice(field(rec, idx[strategy.ColumnClose])); err != nil {
		return bar, err
	}
	bar.Open, bar.High, bar.Low = bar.Close, bar.Close, bar.Close

	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{strategy.ColumnOpen, &bar.Open},
		{strategy.ColumnHigh, &bar.High},
		{strategy.ColumnLow, &bar.Low},
	} {
		if i, ok := idx[c.name]; ok && field(rec, i) != "" {
			v, err := parsePrice(field(rec, i))
			if err != nil {
				return bar, err
			}
			*c.dst = v
		}
	}

	if i, ok := idx[strategy.ColumnVolume]; ok && field(rec, i) != "" {
		if bar.Volume, err = parseVolume(field(rec, i)); err != nil {
			return bar, err
		}
	}
	return bar, nil
}

// parsePrice parses a finite price.
func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("price %q is not finite", s)
	}
	return v, nil
}

// parseVolume parses a non-negative whole volume. Integral decimals such as
// "1500.0" are accepted.
func parseVolume(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("volume %d is negative", v)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("volume %q is not a non-negative integer", s)
	}
	return int64(f), nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
