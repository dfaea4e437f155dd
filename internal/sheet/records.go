package sheet

import (
	"strings"

	"pphistory/internal/config"
	"pphistory/pkg/contracts/domain"
)

// columnIndex maps trimmed header names to column positions; the first occurrence wins
type columnIndex map[string]int

func newColumnIndex(headers []string) columnIndex {
	idx := make(columnIndex, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if _, dup := idx[name]; !dup && name != "" {
			idx[name] = i
		}
	}
	return idx
}

// get returns the cell under header, or the empty cell when the column or value is missing
func (c columnIndex) get(row Row, header string) domain.Cell {
	i, ok := c[header]
	if !ok || i >= len(row.Cells) {
		return domain.EmptyCell()
	}
	return row.Cells[i]
}

// ToRecords maps every table row to a record, preserving order
func ToRecords(t *Table) []domain.Record {
	cols := newColumnIndex(t.Headers)
	records := make([]domain.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, toRecord(cols, row))
	}
	return records
}

func toRecord(cols columnIndex, row Row) domain.Record {
	rec := domain.Record{
		Row:          row.Number,
		Date:         cols.get(row, config.ColDate),
		Days:         cols.get(row, config.ColDays),
		SectionLink:  cols.get(row, config.ColSectionLink),
		PP:           cols.get(row, config.ColPP),
		PPDiff:       cols.get(row, config.ColPPDiff),
		Flag:         cols.get(row, config.ColFlag),
		Player:       cols.get(row, config.ColPlayer),
		PlayerLink:   cols.get(row, config.ColPlayerLink),
		Jacket:       cols.get(row, config.ColJacket),
		Map:          cols.get(row, config.ColMap),
		MapLink:      cols.get(row, config.ColMapLink),
		SR:           cols.get(row, config.ColSR),
		SRBackground: cols.get(row, config.ColSRBG),
		SRForeground: cols.get(row, config.ColSRFG),
		Accuracy:     cols.get(row, config.ColAcc),
		Replay:       cols.get(row, config.ColReplay),
		Remarks:      cols.get(row, config.ColRemarks),
	}
	for i, pair := range config.ReferenceColumns {
		rec.References[i] = domain.Reference{
			Icon: cols.get(row, pair[0]),
			URL:  cols.get(row, pair[1]),
		}
	}
	for i, header := range config.ModColumns {
		rec.Mods[i] = cols.get(row, header)
	}
	return rec
}
