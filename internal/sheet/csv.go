package sheet

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"pphistory/pkg/contracts/domain"
)

// utf8BOM is written by spreadsheet applications in front of exported CSV files
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource reads a comma separated file whose first record is the header
type CSVSource struct {
	path string
}

// NewCSVSource creates a source for the CSV file at path
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements Source
func (s *CSVSource) Name() string {
	return s.path
}

// Load implements Source
func (s *CSVSource) Load(ctx context.Context) (*Table, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	table := &Table{}
	if len(records) == 0 {
		return table, nil
	}
	table.Headers = records[0]
	for i, record := range records[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := Row{Number: i + 2, Cells: make([]domain.Cell, len(record))}
		for j, raw := range record {
			row.Cells[j] = InferCell(raw)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
