package columnar

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"

	"predix/domain/core"
	"predix/ports"
)

// Expression is the single-file columnar backend: one tissue model, gene
// blocks fetched and decompressed on demand.
type Expression struct {
	path string

	f       *os.File
	dec     *zstd.Decoder
	label   string
	samples int
	genes   []string
	index   map[string]indexEntry
}

// NewExpression creates the backend without touching the file.
func NewExpression(path string) *Expression {
	return &Expression{path: path}
}

// Open opens the file and reads the gene index. The gene blocks stay on
// disk until requested.
func (e *Expression) Open() error {
	f, err := os.Open(e.path)
	if err != nil {
		return fmt.Errorf("failed to open columnar file: %w", err)
	}

	label, samples, entries, err := readIndex(f, e.path)
	if err != nil {
		f.Close()
		return err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		f.Close()
		return err
	}

	e.f = f
	e.dec = dec
	e.label = label
	e.samples = samples
	e.genes = make([]string, len(entries))
	e.index = make(map[string]indexEntry, len(entries))
	for i, entry := range entries {
		e.genes[i] = entry.gene
		e.index[entry.gene] = entry
	}
	log.Printf("[Expression] Opened columnar file %s (tissue %s, %d genes, %d samples)", e.path, label, len(entries), samples)
	return nil
}

// Close releases the file handle. Safe to call when Open never succeeded.
func (e *Expression) Close() error {
	if e.dec != nil {
		e.dec.Close()
		e.dec = nil
	}
	if e.f == nil {
		return nil
	}
	err := e.f.Close()
	e.f = nil
	e.index = nil
	return err
}

// Label returns the tissue label stored in the file.
func (e *Expression) Label() string {
	return e.label
}

// Genes lists the gene identifiers in file order.
func (e *Expression) Genes() ([]string, error) {
	if e.f == nil {
		return nil, fmt.Errorf("columnar backend %s is not open", e.path)
	}
	return e.genes, nil
}

// ExpressionForGene reads and decompresses one gene block.
func (e *Expression) ExpressionForGene(gene string) (*ports.GeneExpression, error) {
	values, err := e.vectorForGene(gene)
	if err != nil {
		return nil, err
	}
	return &ports.GeneExpression{
		Gene:   gene,
		Labels: []string{e.label},
		Values: [][]float64{values},
	}, nil
}

func (e *Expression) vectorForGene(gene string) ([]float64, error) {
	if e.f == nil {
		return nil, fmt.Errorf("columnar backend %s is not open", e.path)
	}
	entry, ok := e.index[gene]
	if !ok {
		return nil, core.NewGeneNotFoundError(gene)
	}

	block := make([]byte, entry.length)
	if _, err := e.f.ReadAt(block, int64(entry.offset)); err != nil {
		return nil, fmt.Errorf("failed to read gene block %s: %w", gene, err)
	}
	raw, err := e.dec.DecodeAll(block, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress gene block %s: %w", gene, err)
	}
	if len(raw) != e.samples*8 {
		return nil, fmt.Errorf("gene block %s decodes to %d bytes, want %d", gene, len(raw), e.samples*8)
	}

	values := make([]float64, e.samples)
	for i := range values {
		values[i] = math.Float64frombits(byteOrder.Uint64(raw[i*8:]))
	}
	return values, nil
}

// readIndex validates the header and loads the trailing gene index.
func readIndex(f *os.File, path string) (label string, samples int, entries []indexEntry, err error) {
	var header fileHeader
	if err = binary.Read(f, byteOrder, &header); err != nil {
		return "", 0, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if header.Magic != MagicNumber {
		return "", 0, nil, fmt.Errorf("%w in %s", ErrInvalidMagic, path)
	}
	if header.Version != Version {
		return "", 0, nil, fmt.Errorf("%w in %s: 0x%08x", ErrInvalidVersion, path, header.Version)
	}

	if _, err = f.Seek(int64(header.IndexOffset), io.SeekStart); err != nil {
		return "", 0, nil, fmt.Errorf("failed to seek to index of %s: %w", path, err)
	}
	br := bufio.NewReader(f)
	if label, err = readString(br); err != nil {
		return "", 0, nil, fmt.Errorf("failed to read index of %s: %w", path, err)
	}
	entries = make([]indexEntry, header.GeneCount)
	for i := range entries {
		if entries[i].gene, err = readString(br); err != nil {
			return "", 0, nil, fmt.Errorf("failed to read index of %s: %w", path, err)
		}
		if err = binary.Read(br, byteOrder, &entries[i].offset); err != nil {
			return "", 0, nil, fmt.Errorf("failed to read index of %s: %w", path, err)
		}
		if err = binary.Read(br, byteOrder, &entries[i].length); err != nil {
			return "", 0, nil, fmt.Errorf("failed to read index of %s: %w", path, err)
		}
	}
	return label, int(header.SampleCount), entries, nil
}

func readString(r *bufio.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

var _ ports.Expression = (*Expression)(nil)
