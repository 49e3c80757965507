package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"predix/internal/errors"
)

// Read parses a tabular file into a Table. The format is chosen from the
// file extension: .xlsx via excelize, .csv via encoding/csv, anything else
// is treated as whitespace-delimited text with a header row.
func Read(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("tabular file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readExcel(path)
	case ".csv":
		return readCSV(path)
	default:
		return readWhitespace(path)
	}
}

// readWhitespace parses whitespace-delimited text. Runs of blanks or tabs
// count as one delimiter, the way the upstream producers write these files.
func readWhitespace(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t := &Table{Path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if t.Headers == nil {
			t.Headers = fields
			continue
		}
		if len(fields) != len(t.Headers) {
			return nil, errors.ParseError(fmt.Sprintf("line %d of %s has %d fields, want %d", line, path, len(fields), len(t.Headers)))
		}
		t.Rows = append(t.Rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if t.Headers == nil {
		return nil, errors.ParseError(fmt.Sprintf("%s is empty", path))
	}

	log.Printf("[Tabular] Read %s (%d columns, %d rows)", path, len(t.Headers), len(t.Rows))
	return t, nil
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file %s: %w", path, err)
	}
	return fromStringRows(path, rows)
}

func readExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel sheet: %w", err)
	}
	return fromStringRows(path, rows)
}

func fromStringRows(path string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.ParseError(fmt.Sprintf("%s is empty", path))
	}
	t := &Table{Path: path, Headers: rows[0], Rows: rows[1:]}
	log.Printf("[Tabular] Read %s (%d columns, %d rows)", path, len(t.Headers), len(t.Rows))
	return t, nil
}
