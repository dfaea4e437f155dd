package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pphistory/pkg/contracts/domain"
)

// ExcelSource reads one worksheet of an .xlsx workbook
type ExcelSource struct {
	path  string
	sheet string
}

// NewExcelSource creates a source for the workbook at path. An empty sheet
// selects the first worksheet.
func NewExcelSource(path, sheet string) *ExcelSource {
	return &ExcelSource{path: path, sheet: sheet}
}

// Name implements Source
func (s *ExcelSource) Name() string {
	if s.sheet == "" {
		return s.path
	}
	return s.path + "#" + s.sheet
}

// Load implements Source
func (s *ExcelSource) Load(ctx context.Context) (*Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheetName := s.sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s (available: %s)",
			sheetName, s.path, strings.Join(f.GetSheetList(), ", "))
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	slog.DebugContext(ctx, "Workbook sheet read",
		slog.String("path", s.path),
		slog.String("sheet", sheetName),
		slog.Int("total_rows", len(rows)))

	table := &Table{}
	if len(rows) == 0 {
		return table, nil
	}

	table.Headers = rows[0]
	r := newCellReader(f, sheetName)
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := Row{Number: i + 1, Cells: make([]domain.Cell, len(rows[i]))}
		for j, raw := range rows[i] {
			row.Cells[j] = r.cell(j, i, raw)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// cellReader types raw cell values using the workbook's cell types and number formats
type cellReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func newCellReader(f *excelize.File, sheet string) *cellReader {
	r := &cellReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

func (r *cellReader) cell(col, row int, raw string) domain.Cell {
	if raw == "" {
		return domain.EmptyCell()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return domain.TextCell(raw)
	}
	typ, err := r.f.GetCellType(r.sheet, axis)
	if err != nil {
		return domain.TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return domain.TextCell(raw)
	case excelize.CellTypeError:
		// #VALUE!, #REF! and friends carry no value
		slog.Debug("Error cell treated as empty",
			slog.String("sheet", r.sheet),
			slog.String("cell", axis),
			slog.String("value", raw))
		return domain.EmptyCell()
	case excelize.CellTypeBool:
		if raw == "1" {
			return domain.TextCell("TRUE")
		}
		return domain.TextCell("FALSE")
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return domain.DateCell(t)
		}
		if t, ok := domain.ParseDate(raw); ok {
			return domain.DateCell(t)
		}
		return domain.TextCell(raw)
	}

	// numbers are stored without a type attribute; formulas keep their cached result
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.TextCell(raw)
	}
	if r.isDateFormatted(axis) {
		if t, err := excelize.ExcelDateToTime(f, r.date1904); err == nil {
			return domain.DateCell(t)
		}
	}
	return domain.NumberCell(f)
}

// builtInDateFormats are the built-in number format ids that display dates
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func (r *cellReader) isDateFormatted(axis string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := r.dateStyles[styleID]; ok {
		return v
	}
	isDate := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = builtInDateFormats[style.NumFmt]
		}
	}
	r.dateStyles[styleID] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format displays a date.
// Quoted literals and bracketed sections (colors, locales) are ignored.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		case c == '\\':
			i++
		case c == 'y', c == 'Y', c == 'd', c == 'D':
			return true
		}
	}
	return false
}
