package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"etacli/internal/errors"
)

// ParseCSV reads a CSV stream into a table. The first record is the header
// row; header cells are trimmed, columns with an empty or duplicated header
// are skipped. Short data rows simply leave the remaining cells absent, which
// downstream coercion treats as missing values. A UTF-8 BOM on the stream
// (Excel-saved files, or this system's own BOM-prefixed exports) is stripped
// so it cannot corrupt the first header.
func ParseCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, errors.NewParsingError("input file has no header row", err)
	}
	if err != nil {
		return Table{}, errors.NewParsingError("failed to read CSV header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := newTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, errors.NewParsingError("failed to read CSV record", err)
		}
		t.Rows = append(t.Rows, rowFromRecord(t.Headers, header, record))
	}
	return t, nil
}

// ParseXLSX reads the first sheet containing data from an Excel workbook.
// The first row with any non-empty cell is taken as the header row.
func ParseXLSX(data []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		headerIdx := -1
		for i, row := range rows {
			if rowHasData(row) {
				headerIdx = i
				break
			}
		}
		if headerIdx == -1 {
			continue
		}

		t := newTable(rows[headerIdx])
		for _, record := range rows[headerIdx+1:] {
			if !rowHasData(record) {
				continue
			}
			t.Rows = append(t.Rows, rowFromRecord(t.Headers, rows[headerIdx], record))
		}
		return t, nil
	}
	return Table{}, errors.NewParsingError("workbook contains no data sheet", nil)
}

// newTable builds a table shell from a raw header record, keeping the first
// occurrence of each non-empty header.
func newTable(header []string) Table {
	var headers []string
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		trimmed := strings.TrimSpace(h)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		headers = append(headers, trimmed)
	}
	return Table{Headers: headers}
}

// rowFromRecord maps a raw record onto the kept headers by position in the
// original header row.
func rowFromRecord(headers, rawHeader, record []string) Row {
	row := make(Row, len(headers))
	kept := make(map[string]bool, len(headers))
	for _, h := range headers {
		kept[h] = true
	}
	taken := make(map[string]bool, len(headers))
	for i, h := range rawHeader {
		name := strings.TrimSpace(h)
		if !kept[name] || taken[name] {
			continue
		}
		taken[name] = true
		if i < len(record) {
			row[name] = record[i]
		}
	}
	return row
}

func rowHasData(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}
