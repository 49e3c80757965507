package pheno

import (
	"math"

	"predix/domain/core"
)

const (
	// Sentinel is the reserved value upstream producers use to mark missing data.
	Sentinel = -999.0
	// SentinelTolerance is the absolute tolerance for sentinel detection.
	// There is deliberately no relative term: the comparison is |v - Sentinel| <= atol.
	SentinelTolerance = 1e-3

	// binomialTolerance bounds how far a value may sit from 0 or 1 and still
	// count as binomial.
	binomialTolerance = 1e-6
)

// Vector is an ordered phenotype vector, one value per sample row. Missing
// values are NaN. Length and row order never change after load.
type Vector []float64

// ScrubSentinel returns a copy of values with every sentinel occurrence
// replaced by NaN. All other values pass through untouched.
func ScrubSentinel(values []float64) Vector {
	out := make(Vector, len(values))
	for i, v := range values {
		if math.Abs(v-Sentinel) <= SentinelTolerance {
			out[i] = math.NaN()
		} else {
			out[i] = v
		}
	}
	return out
}

// IsBinomial reports whether the finite values of the vector reduce to
// exactly the set {0, 1}. NaN entries are ignored. Both levels must be
// present: a constant phenotype is not a valid logistic response.
func (v Vector) IsBinomial() bool {
	var sawZero, sawOne bool
	for _, x := range v {
		if math.IsNaN(x) {
			continue
		}
		switch {
		case math.Abs(x) <= binomialTolerance:
			sawZero = true
		case math.Abs(x-1) <= binomialTolerance:
			sawOne = true
		default:
			return false
		}
	}
	return sawZero && sawOne
}

// Finite returns the finite values of the vector, in row order.
func (v Vector) Finite() []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// MissingCount returns the number of NaN entries.
func (v Vector) MissingCount() int {
	n := 0
	for _, x := range v {
		if math.IsNaN(x) {
			n++
		}
	}
	return n
}

// Covariates is an ordered covariate table: named columns, row-aligned with
// the phenotype vector. Column order is the order covariates were configured.
type Covariates struct {
	names   []string
	columns map[string]Vector
}

// NewCovariates creates an empty covariate table.
func NewCovariates() *Covariates {
	return &Covariates{columns: make(map[string]Vector)}
}

// Add appends a named column. Columns must all have the same length.
func (c *Covariates) Add(name string, values Vector) error {
	if len(c.names) > 0 && len(values) != c.Rows() {
		return core.ErrLengthMismatch
	}
	if _, ok := c.columns[name]; !ok {
		c.names = append(c.names, name)
	}
	c.columns[name] = values
	return nil
}

// Names returns the column names in insertion order.
func (c *Covariates) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Column returns the named column, or false if absent.
func (c *Covariates) Column(name string) (Vector, bool) {
	v, ok := c.columns[name]
	return v, ok
}

// Len returns the number of columns.
func (c *Covariates) Len() int {
	return len(c.names)
}

// Rows returns the number of sample rows, 0 for an empty table.
func (c *Covariates) Rows() int {
	if len(c.names) == 0 {
		return 0
	}
	return len(c.columns[c.names[0]])
}
