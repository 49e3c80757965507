package plaintext

import (
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"predix/adapters/expression/expfiles"
	"predix/domain/core"
	"predix/ports"
)

// Manager is the multi-tissue plain-text backend. Open loads every matching
// file in the folder into memory, one tissue per file.
type Manager struct {
	folder  string
	pattern string

	files []expfiles.File
	data  map[string]*fileData
	genes []string
}

// NewManager creates the backend without touching the folder.
func NewManager(folder, pattern string) *Manager {
	return &Manager{folder: folder, pattern: pattern}
}

// Open discovers and loads the per-tissue files. Files are parsed
// concurrently; the resulting tissue and gene orders are deterministic.
func (m *Manager) Open() error {
	files, err := expfiles.Match(m.folder, m.pattern)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	data := make(map[string]*fileData, len(files))

	var g errgroup.Group
	for _, tf := range files {
		g.Go(func() error {
			parsed, err := parseFile(tf.Path)
			if err != nil {
				return fmt.Errorf("tissue %s: %w", tf.Label, err)
			}
			mu.Lock()
			data[tf.Label] = parsed
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	perTissue := make(map[string][]string, len(data))
	for label, d := range data {
		perTissue[label] = d.genes
	}

	m.files = files
	m.data = data
	m.genes = expfiles.GeneUnion(perTissue)
	log.Printf("[Expression] Loaded %d tissues from %s (%d genes)", len(files), m.folder, len(m.genes))
	return nil
}

// Close releases the loaded data.
func (m *Manager) Close() error {
	m.data = nil
	m.genes = nil
	return nil
}

// Genes lists the sorted union of genes across all tissues.
func (m *Manager) Genes() ([]string, error) {
	if m.data == nil {
		return nil, fmt.Errorf("expression manager %s is not open", m.folder)
	}
	return m.genes, nil
}

// ExpressionForGene assembles the gene's expression across every tissue that
// carries it, in tissue label order.
func (m *Manager) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	if m.data == nil {
		return nil, fmt.Errorf("expression manager %s is not open", m.folder)
	}

	e := &ports.GeneExpression{Gene: gene}
	for _, tf := range m.files {
		values, ok := m.data[tf.Label].byGene[gene]
		if !ok {
			continue
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
