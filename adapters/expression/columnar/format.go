// Package columnar implements the structured expression store: one binary
// file per tissue holding zstd-compressed per-gene sample columns behind a
// fixed header and a trailing gene index.
package columnar

import (
	"encoding/binary"
	"errors"
)

const (
	// MagicNumber identifies columnar expression files (ASCII: "PXC1")
	MagicNumber = 0x50584331
	// Version is the current file format version (v1.0.0)
	Version = 0x00010000
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrDuplicateGene  = errors.New("duplicate gene in columnar file")
)

// fileHeader is the fixed little-endian header at the start of every
// columnar expression file.
type fileHeader struct {
	Magic       uint32 // 0x50584331 ("PXC1")
	Version     uint32 // File format version
	SampleCount uint32 // Rows per gene column
	GeneCount   uint32 // Number of gene blocks
	IndexOffset uint64 // Offset to the trailing gene index
	Reserved    [12]byte
}

// indexEntry locates one gene's compressed block.
type indexEntry struct {
	gene   string
	offset uint64
	length uint32
}

var headerSize = int64(binary.Size(fileHeader{}))

var byteOrder = binary.LittleEndian
