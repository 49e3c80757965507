package columnar

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Writer produces a columnar expression file: header, one zstd block per
// gene, trailing index. Genes are laid out in the order they are written.
type Writer struct {
	f       *os.File
	enc     *zstd.Encoder
	label   string
	samples uint32
	entries []indexEntry
	seen    map[string]struct{}
	offset  uint64
}

// NewWriter creates the file and reserves the header. samples is the fixed
// row count every gene column must carry.
func NewWriter(path, label string, samples int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create columnar file: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		f.Close()
		return nil, err
	}

	// Placeholder header; rewritten with real counts on Close.
	if err := binary.Write(f, byteOrder, &fileHeader{}); err != nil {
		enc.Close()
		f.Close()
		return nil, fmt.Errorf("failed to reserve header: %w", err)
	}

	return &Writer{
		f:       f,
		enc:     enc,
		label:   label,
		samples: uint32(samples),
		seen:    make(map[string]struct{}),
		offset:  uint64(headerSize),
	}, nil
}

// WriteGene appends one gene's sample column.
func (w *Writer) WriteGene(gene string, values []float64) error {
	if len(values) != int(w.samples) {
		return fmt.Errorf("gene %s has %d samples, want %d", gene, len(values), w.samples)
	}
	if _, dup := w.seen[gene]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateGene, gene)
	}

	raw := make([]byte, 8*len(values))
	for i, v := range values {
		byteOrder.PutUint64(raw[i*8:], math.Float64bits(v))
	}
	block := w.enc.EncodeAll(raw, nil)

	if _, err := w.f.Write(block); err != nil {
		return fmt.Errorf("failed to write gene block: %w", err)
	}
	w.entries = append(w.entries, indexEntry{gene: gene, offset: w.offset, length: uint32(len(block))})
	w.seen[gene] = struct{}{}
	w.offset += uint64(len(block))
	return nil
}

// Close writes the gene index and the final header, then closes the file.
func (w *Writer) Close() error {
	defer w.enc.Close()

	indexOffset := w.offset
	bw := bufio.NewWriter(w.f)
	if err := writeString(bw, w.label); err != nil {
		w.f.Close()
		return err
	}
	for _, e := range w.entries {
		if err := writeString(bw, e.gene); err != nil {
			w.f.Close()
			return err
		}
		if err := binary.Write(bw, byteOrder, e.offset); err != nil {
			w.f.Close()
			return err
		}
		if err := binary.Write(bw, byteOrder, e.length); err != nil {
			w.f.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to write index: %w", err)
	}

	header := fileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		SampleCount: w.samples,
		GeneCount:   uint32(len(w.entries)),
		IndexOffset: indexOffset,
	}
	if _, err := w.f.Seek(0, 0); err != nil {
		w.f.Close()
		return err
	}
	if err := binary.Write(w.f, byteOrder, &header); err != nil {
		w.f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	return w.f.Close()
}

func writeString(w *bufio.Writer, s string) error {
	if len(s) > math.MaxUint16 {
		return fmt.Errorf("string too long for index: %d bytes", len(s))
	}
	if err := binary.Write(w, byteOrder, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}
