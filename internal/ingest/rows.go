// ============================================================================
// internal/ingest/rows.go
// Raw upload bytes -> header row + trimmed data rows (CSV and XLSX)
// ============================================================================

package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// utf8BOM prefixes CSV exports from several spreadsheet tools.
var utf8BOM = []byte("\xef\xbb\xbf")

// ParseTable decodes uploaded bytes into a trimmed cell grid. The format is
// chosen from the filename extension: .xlsx goes through excelize, anything
// else is treated as delimiter-separated text. Row 0 is the header row.
//
// Rows with fewer cells than the header are dropped silently; exported CSVs
// routinely end in blank or truncated lines and those must not poison the
// batch. Fewer than 2 surviving non-empty rows means there is nothing to
// process and fails with ErrEmptyOrMalformedInput.
func ParseTable(filename string, data []byte, delimiter rune) ([][]string, error) {
	var (
		rows [][]string
		err  error
	)

	if strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		rows, err = parseXLSX(data)
	} else {
		rows, err = parseCSV(data, delimiter)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmptyOrMalformedInput, err)
	}

	rows = filterRows(rows)
	if len(rows) < 2 {
		return nil, ErrEmptyOrMalformedInput
	}

	return rows, nil
}

// parseCSV reads delimiter-separated text, tolerating BOM prefixes, ragged
// quoting and uneven field counts.
func parseCSV(data []byte, delimiter rune) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	r := csv.NewReader(bytes.NewReader(data))
	if delimiter != 0 {
		r.Comma = delimiter
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1 // rows are length-checked against the header later

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// parseXLSX reads the first sheet of an Excel workbook.
func parseXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	// excelize omits trailing empty cells, so pad every row to the header
	// width; otherwise a blank last score cell would get the row dropped by
	// the width filter.
	if len(rows) > 0 {
		width := len(rows[0])
		for i, row := range rows {
			for len(row) < width {
				row = append(row, "")
			}
			rows[i] = row
		}
	}

	return rows, nil
}

// filterRows trims every cell and applies the tolerance policy: fully blank
// rows and rows shorter than the header are excluded from processing.
func filterRows(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}

	headerLen := 0
	var kept [][]string
	for _, row := range rows {
		trimmed := make([]string, len(row))
		blank := true
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
			if trimmed[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		if headerLen == 0 {
			// First non-blank row is the header and sets the width bar.
			headerLen = len(trimmed)
			kept = append(kept, trimmed)
			continue
		}

		if len(trimmed) < headerLen {
			continue
		}
		kept = append(kept, trimmed)
	}

	return kept
}
