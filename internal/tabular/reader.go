// Package tabular parses delimited input logs into ordered header-keyed
// records.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ymoriya/shienkiroku/internal/domain"
	"github.com/ymoriya/shienkiroku/internal/encoding"
)

// Table is one parsed input log: the trimmed header in column order plus one
// TabularRecord per data row, in row order.
type Table struct {
	Headers  []string
	Encoding string
	Records  []domain.TabularRecord
}

// ReadFile decodes and parses one input log. The first row is the header;
// every column name and value is trimmed, short rows pad with "". A log with
// zero data rows fails with ErrEmptyInput.
func ReadFile(path string) (Table, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read %s: %w", path, err)
	}

	enc, err := encoding.Detect(payload)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %s", err, path)
	}

	reader := csv.NewReader(enc.NewReader(bytes.NewReader(payload)))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse %s: %w", path, err)
	}

	table := buildTable(rows)
	table.Encoding = enc.Name
	if len(table.Records) == 0 {
		return Table{}, fmt.Errorf("%w: %s", domain.ErrEmptyInput, path)
	}
	return table, nil
}

func buildTable(rows [][]string) Table {
	var table Table
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		if table.Headers == nil {
			table.Headers = trimAll(row)
			continue
		}
		record := make(domain.TabularRecord, len(table.Headers))
		for i, name := range table.Headers {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			record[name] = value
		}
		table.Records = append(table.Records, record)
	}
	return table
}

func trimAll(row []string) []string {
	trimmed := make([]string, len(row))
	for i, cell := range row {
		trimmed[i] = strings.TrimSpace(cell)
	}
	return trimmed
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
