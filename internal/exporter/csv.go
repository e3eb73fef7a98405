// Package exporter renders report tables back to the tabular file format the
// host serves for download.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"etacli/internal/dataprocessing"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel recognizes the encoding.
	BOMPrefix bool
}

// WriteTable serializes a table to CSV: one header row of display names, one
// data row per record, cells in header order. Cells absent from a row are
// written empty.
func WriteTable(w io.Writer, t dataprocessing.Table, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(t.Headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Headers))
	for i, row := range t.Rows {
		for j, h := range t.Headers {
			record[j] = row[h]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}
