package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"predix/domain/core"
	"predix/internal/errors"
)

// Table is a parsed tabular file: a header row plus raw string cells.
// Cells are parsed to floats lazily, when a column is extracted.
type Table struct {
	Path    string
	Headers []string
	Rows    [][]string
}

// Column extracts the named column as floats, in row order. Empty cells and
// the usual missing-data spellings ("NA", "NaN") parse to NaN.
func (t *Table) Column(name string) ([]float64, error) {
	idx := -1
	for i, h := range t.Headers {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, core.NewColumnNotFoundError(name, t.Path)
	}

	out := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if idx >= len(row) {
			return nil, errors.ParseError(fmt.Sprintf("row %d of %s has %d cells, want %d", i+1, t.Path, len(row), len(t.Headers)))
		}
		v, err := parseCell(row[idx])
		if err != nil {
			return nil, errors.WithCode(errors.CodeParseError,
				fmt.Errorf("row %d, column %q of %s: %w", i+1, name, t.Path, err))
		}
		out[i] = v
	}
	return out, nil
}

func parseCell(cell string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a number", cell)
	}
	return v, nil
}
