package columnar

import (
	"fmt"
	"log"

	"predix/adapters/expression/expfiles"
	"predix/domain/core"
	"predix/ports"
)

// Manager is the multi-tissue columnar backend: a folder of columnar files,
// one per tissue, all held open for the duration of the analysis.
type Manager struct {
	folder  string
	pattern string

	files  []expfiles.File
	stores map[string]*Expression
	genes  []string
}

// NewManager creates the backend without touching the folder.
func NewManager(folder, pattern string) *Manager {
	return &Manager{folder: folder, pattern: pattern}
}

// Open discovers the per-tissue files and opens each store. On failure,
// stores opened so far are closed before returning.
func (m *Manager) Open() error {
	files, err := expfiles.Match(m.folder, m.pattern)
	if err != nil {
		return err
	}

	stores := make(map[string]*Expression, len(files))
	perTissue := make(map[string][]string, len(files))
	for _, tf := range files {
		store := NewExpression(tf.Path)
		if err := store.Open(); err != nil {
			for _, s := range stores {
				s.Close()
			}
			return fmt.Errorf("tissue %s: %w", tf.Label, err)
		}
		stores[tf.Label] = store
		genes, _ := store.Genes()
		perTissue[tf.Label] = genes
	}

	m.files = files
	m.stores = stores
	m.genes = expfiles.GeneUnion(perTissue)
	log.Printf("[Expression] Opened %d columnar tissues from %s (%d genes)", len(files), m.folder, len(m.genes))
	return nil
}

// Close closes every store, keeping the first error.
func (m *Manager) Close() error {
	var first error
	for _, s := range m.stores {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	m.stores = nil
	m.genes = nil
	return first
}

// Genes lists the sorted union of genes across all tissues.
func (m *Manager) Genes() ([]string, error) {
	if m.stores == nil {
		return nil, fmt.Errorf("columnar manager %s is not open", m.folder)
	}
	return m.genes, nil
}

// ExpressionForGene assembles the gene's expression across every tissue
// store that carries it, in tissue label order.
func (m *Manager) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	if m.stores == nil {
		return nil, fmt.Errorf("columnar manager %s is not open", m.folder)
	}

	e := &ports.GeneExpression{Gene: gene}
	for _, tf := range m.files {
		store := m.stores[tf.Label]
		if _, ok := store.index[gene]; !ok {
			continue
		}
		values, err := store.vectorForGene(gene)
		if err != nil {
			return nil, fmt.Errorf("tissue %s: %w", tf.Label, err)
		}
		e.Labels = append(e.Labels, tf.Label)
		e.Values = append(e.Values, values)
	}
	if len(e.Labels) == 0 {
		return nil, core.NewGeneNotFoundError(gene)
	}
	return e, nil
}

var _ ports.Expression = (*Manager)(nil)
