// Package plaintext implements expression backends over whitespace-delimited
// text files: a header row of gene identifiers, then one row per sample.
package plaintext

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"predix/domain/core"
	"predix/ports"
)

// fileData is one parsed expression file: per-gene sample columns.
type fileData struct {
	genes  []string
	byGene map[string][]float64
	rows   int
}

// parseFile reads a whole expression file into memory.
func parseFile(path string) (*fileData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open expression file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	genes, err := scanHeader(scanner, path)
	if err != nil {
		return nil, err
	}

	data := &fileData{genes: genes, byGene: make(map[string][]float64, len(genes))}
	for _, g := range genes {
		data.byGene[g] = nil
	}

	line := 1
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != len(genes) {
			return nil, fmt.Errorf("line %d of %s has %d values, want %d", line, path, len(fields), len(genes))
		}
		for i, cell := range fields {
			v, err := parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d of %s: %w", line, path, err)
			}
			g := genes[i]
			data.byGene[g] = append(data.byGene[g], v)
		}
		data.rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// parseHeader reads only the gene identifiers of an expression file.
func parseHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open expression file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	return scanHeader(scanner, path)
}

func scanHeader(scanner *bufio.Scanner, path string) ([]string, error) {
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil, fmt.Errorf("expression file %s is empty", path)
}

func parseValue(cell string) (float64, error) {
	switch strings.ToLower(cell) {
	case "na", "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a number", cell)
	}
	return v, nil
}

// Expression is the single-file plain-text backend: one tissue model, one
// column per gene.
type Expression struct {
	path  string
	label string
	data  *fileData
}

// NewExpression creates the backend without touching the file. The tissue
// label is the file base name without extension.
func NewExpression(path string) *Expression {
	base := filepath.Base(path)
	return &Expression{
		path:  path,
		label: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Open loads the expression file.
func (e *Expression) Open() error {
	data, err := parseFile(e.path)
	if err != nil {
		return err
	}
	e.data = data
	log.Printf("[Expression] Loaded %s (%d genes, %d samples)", e.path, len(data.genes), data.rows)
	return nil
}

// Close releases the loaded data.
func (e *Expression) Close() error {
	e.data = nil
	return nil
}

// Genes lists the gene identifiers in file column order.
func (e *Expression) Genes() ([]string, error) {
	if e.data == nil {
		return nil, fmt.Errorf("expression backend %s is not open", e.path)
	}
	return e.data.genes, nil
}

// ExpressionForGene returns the single-tissue expression column for a gene.
func (e *Expression) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	if e.data == nil {
		return nil, fmt.Errorf("expression backend %s is not open", e.path)
	}
	values, ok := e.data.byGene[gene]
	if !ok {
		return nil, core.NewGeneNotFoundError(gene)
	}
	return &ports.GeneExpression{
		Gene:   gene,
		Labels: []string{e.label},
		Values: [][]float64{values},
	}, nil
}

var _ ports.Expression = (*Expression)(nil)
