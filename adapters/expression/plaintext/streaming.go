package plaintext

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"predix/adapters/expression/expfiles"
	"predix/domain/core"
	"predix/ports"
)

// StreamingManager is the memory-efficient multi-tissue backend. Open reads
// only the header row of every file; a gene's column is streamed from disk
// on each request instead of being held in memory.
type StreamingManager struct {
	folder  string
	pattern string

	files   []expfiles.File
	indexes map[string]map[string]int
	genes   []string
}

// NewStreamingManager creates the backend without touching the folder.
func NewStreamingManager(folder, pattern string) *StreamingManager {
	return &StreamingManager{folder: folder, pattern: pattern}
}

// Open discovers the per-tissue files and indexes their headers.
func (m *StreamingManager) Open() error {
	files, err := expfiles.Match(m.folder, m.pattern)
	if err != nil {
		return err
	}

	indexes := make(map[string]map[string]int, len(files))
	perTissue := make(map[string][]string, len(files))
	for _, tf := range files {
		genes, err := parseHeader(tf.Path)
		if err != nil {
			return fmt.Errorf("tissue %s: %w", tf.Label, err)
		}
		index := make(map[string]int, len(genes))
		for i, g := range genes {
			index[g] = i
		}
		indexes[tf.Label] = index
		perTissue[tf.Label] = genes
	}

	m.files = files
	m.indexes = indexes
	m.genes = expfiles.GeneUnion(perTissue)
	log.Printf("[Expression] Indexed %d tissues from %s (%d genes, memory efficient)", len(files), m.folder, len(m.genes))
	return nil
}

// Close releases the header indexes.
func (m *StreamingManager) Close() error {
	m.indexes = nil
	m.genes = nil
	return nil
}

// Genes lists the sorted union of genes across all tissues.
func (m *StreamingManager) Genes() ([]string, error) {
	if m.indexes == nil {
		return nil, fmt.Errorf("expression manager %s is not open", m.folder)
	}
	return m.genes, nil
}

// ExpressionForGene streams the gene's column from every tissue file that
// carries it, in tissue label order.
func (m *StreamingManager) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	if m.indexes == nil {
		return nil, fmt.Errorf("expression manager %s is not open", m.folder)
	}

	e := &ports.GeneExpression{Gene: gene}
	for _, tf := range m.files {
		col, ok := m.indexes[tf.Label][gene]
		if !ok {
			continue
		}
		values, err := readColumn(tf.Path, col)
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

// readColumn scans one file and collects a single column, skipping the header.
func readColumn(path string, col int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open expression file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	var values []float64
	header := true
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if header {
			header = false
			continue
		}
		if col >= len(fields) {
			return nil, fmt.Errorf("line %d of %s has %d values, want at least %d", line, path, len(fields), col+1)
		}
		v, err := parseValue(fields[col])
		if err != nil {
			return nil, fmt.Errorf("line %d of %s: %w", line, path, err)
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

var _ ports.Expression = (*StreamingManager)(nil)
