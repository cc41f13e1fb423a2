// Package export serializes checklist rows into downloadable artifacts.
//
// The CSV layout matches the spreadsheet the guide has always produced: a
// UTF-8 byte-order mark, a "Punto;Cumple (1/0)" header, one ";"-separated
// line per item and "\n" between lines (no trailing newline). Labels arrive
// with ";" already replaced by ",", so no field ever needs quoting in
// practice; encoding/csv still quotes anything unusual (quotes, newlines).
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raulvenegasster-rgb/Guia-rapida-para-validar-el-REPSE-de-tu-proveedor/internal/checklist"
)

const (
	// BOM makes spreadsheet tools detect UTF-8.
	BOM = "\uFEFF"
	// DefaultFilename is the conventional artifact name.
	DefaultFilename = "guia_validacion_REPSE.csv"
	// ContentType is the MIME type of the CSV artifact.
	ContentType = "text/csv;charset=utf-8"
)

// Header columns.
const (
	ColumnItem   = "Punto"
	ColumnValue  = "Cumple (1/0)"
	ColumnNotes  = "Notas"
	fieldComma   = ';'
	recordEnding = "\n"
)

// CSVOptions tunes the CSV layout.
type CSVOptions struct {
	// NotesColumn appends an empty "Notas" column for hand-written notes.
	NotesColumn bool
}

// CSV renders rows into the artifact bytes, BOM included.
func CSV(rows []checklist.Row, opts CSVOptions) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(BOM)

	w := csv.NewWriter(&buf)
	w.Comma = fieldComma

	header := []string{ColumnItem, ColumnValue}
	if opts.NotesColumn {
		header = append(header, ColumnNotes)
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for i, r := range rows {
		record := []string{r.Label, r.Value}
		if opts.NotesColumn {
			record = append(record, "")
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte(recordEnding)), nil
}

// WriteCSV renders rows to w.
func WriteCSV(w io.Writer, rows []checklist.Row, opts CSVOptions) error {
	data, err := CSV(rows, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the artifact to dir/filename, creating dir as needed,
// and returns the written path. An empty filename uses DefaultFilename.
func WriteCSVFile(dir, filename string, rows []checklist.Row, opts CSVOptions) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	data, err := CSV(rows, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
