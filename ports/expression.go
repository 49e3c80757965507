package ports

// GeneExpression holds the predicted expression of one gene across one or
// more tissue models. Labels and Values are index-aligned; every column has
// one value per sample, in sample row order.
type GeneExpression struct {
	Gene   string
	Labels []string
	Values [][]float64
}

// Columns returns the number of tissue columns.
func (g *GeneExpression) Columns() int {
	return len(g.Labels)
}

// Column returns the named tissue column, or false if absent.
func (g *GeneExpression) Column(label string) ([]float64, bool) {
	for i, l := range g.Labels {
		if l == label {
			return g.Values[i], true
		}
	}
	return nil, false
}

// Vector returns the single column of a single-tissue expression.
// It reports false when the expression spans more than one column.
func (g *GeneExpression) Vector() ([]float64, bool) {
	if len(g.Values) != 1 {
		return nil, false
	}
	return g.Values[0], true
}

// Expression is the capability set every expression backend satisfies:
// enumerate genes, fetch per-gene expression, and a scoped open/close of the
// underlying storage handles. Open must be called before Genes or
// ExpressionForGene; Close releases file handles and is safe to call after a
// failed Open.
type Expression interface {
	Open() error
	Close() error
	Genes() ([]string, error)
	ExpressionForGene(gene string) (*GeneExpression, error)
}
