package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"pphistory/internal/files"
	"pphistory/internal/render"
	"pphistory/pkg/contracts/domain"
)

// DocumentExporter writes rendered documents
type DocumentExporter struct {
	files     *files.Manager
	csvWriter *CSVWriter
}

// NewDocumentExporter creates a new document exporter
func NewDocumentExporter(manager *files.Manager) *DocumentExporter {
	return &DocumentExporter{
		files:     manager,
		csvWriter: NewCSVWriter(manager),
	}
}

// WriteHTML writes the page in one piece, overwriting any previous output
func (e *DocumentExporter) WriteHTML(path string, doc *render.Document) error {
	if err := e.files.WriteFileAtomic(path, doc.HTML); err != nil {
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}
	return nil
}

// WriteRowsCSV mirrors the displayed table as CSV
func (e *DocumentExporter) WriteRowsCSV(path string, rows []render.RenderedRow) error {
	if err := e.csvWriter.WriteSimpleCSV(path, RowHeaders(), RowRecords(rows)); err != nil {
		return fmt.Errorf("failed to write rows csv %s: %w", path, err)
	}
	return nil
}

// RowHeaders returns the CSV mirror header
func RowHeaders() []string {
	return []string{
		"Row",
		"Date",
		"Days maintained",
		"Flag",
		"Player",
		"Player link",
		"Jacket",
		"Map",
		"Map link",
		"SR",
		"Mod",
		"Acc",
		"PP",
		"PP diff",
		"osu!",
		"YouTube",
		"reddit",
		"X",
		"Replay",
		"Remarks",
	}
}

// RowRecords converts rendered rows to CSV records in display order.
// Section rows carry their heading in the Date column only.
func RowRecords(rows []render.RenderedRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToCSV(row))
	}
	return records
}

func rowToCSV(row render.RenderedRow) []string {
	if row.Kind == domain.RowSection {
		return []string{strconv.Itoa(row.Row), row.Section}
	}

	rec := []string{
		strconv.Itoa(row.Row),
		row.Date,
		row.Days,
		row.Flag,
		row.Player,
		row.PlayerLink,
		row.Jacket,
		row.Map,
		row.MapLink,
		row.SR,
		strings.Join(row.Mods, " "),
		row.Accuracy,
		row.PP,
		row.PPDiff,
	}
	rec = append(rec, row.References[:]...)
	return append(rec, row.Replay, row.Remarks)
}
