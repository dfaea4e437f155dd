package sheet

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pphistory/pkg/contracts/domain"
)

// writeWorkbook saves rows (header first) to a temp workbook. Cells holding a
// time.Time get the built-in yyyy-mm-dd style.
func writeWorkbook(t *testing.T, sheetName string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	if sheetName != "" {
		require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheetName))
	} else {
		sheetName = f.GetSheetName(0)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)

	for r, row := range rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, val))
			if _, ok := val.(time.Time); ok {
				require.NoError(t, f.SetCellStyle(sheetName, cell, cell, dateStyle))
			}
		}
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelSource_Load(t *testing.T) {
	path := writeWorkbook(t, "", [][]interface{}{
		{"DATE", "Days Maintained", "PP", "PLAYER", "MAP", "ACC"},
		{"SRv2", nil, nil, nil, nil, nil},
		{time.Date(2025, 11, 8, 0, 0, 0, 0, time.UTC), 5, 1749.4, "Vanity8", "Map A", 0.991234},
		{"2025/11/8", "-", "1,749", "007", nil, nil},
		{},
	})

	table, err := NewExcelSource(path, "").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"DATE", "Days Maintained", "PP", "PLAYER", "MAP", "ACC"}, table.Headers)
	require.GreaterOrEqual(t, len(table.Rows), 3)

	section := table.Rows[0]
	assert.Equal(t, 2, section.Number)
	assert.Equal(t, domain.CellText, section.Cells[0].Kind)
	assert.Equal(t, "SRv2", section.Cells[0].Text)

	data := table.Rows[1]
	assert.Equal(t, 3, data.Number)
	require.Equal(t, domain.CellDate, data.Cells[0].Kind)
	assert.Equal(t, "2025-11-08", data.Cells[0].Time.Format("2006-01-02"))
	assert.Equal(t, domain.CellNumber, data.Cells[1].Kind)
	assert.Equal(t, 5.0, data.Cells[1].Number)
	assert.Equal(t, domain.CellNumber, data.Cells[2].Kind)
	assert.InDelta(t, 1749.4, data.Cells[2].Number, 1e-9)
	assert.Equal(t, domain.CellText, data.Cells[3].Kind)
	assert.InDelta(t, 0.991234, data.Cells[5].Number, 1e-9)

	textual := table.Rows[2]
	assert.Equal(t, domain.CellText, textual.Cells[0].Kind, "date typed as text stays text")
	assert.Equal(t, "2025/11/8", textual.Cells[0].Text)
	assert.Equal(t, "-", textual.Cells[1].Text)
	assert.Equal(t, domain.CellText, textual.Cells[2].Kind)
	assert.Equal(t, "007", textual.Cells[3].Text)
	assert.Equal(t, domain.CellEmpty, textual.Cells[4].Kind)
}

func TestExcelSource_CustomDateFormat(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheetName := f.GetSheetName(0)

	code := "yyyy/m/d"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	require.NoError(t, err)

	require.NoError(t, f.SetCellValue(sheetName, "A1", "DATE"))
	require.NoError(t, f.SetCellValue(sheetName, "A2", 45969))
	require.NoError(t, f.SetCellStyle(sheetName, "A2", "A2", style))

	path := filepath.Join(t.TempDir(), "custom.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := NewExcelSource(path, "").Load(context.Background())
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	cell := table.Rows[0].Cells[0]
	require.Equal(t, domain.CellDate, cell.Kind)
	assert.Equal(t, "2025-11-08", cell.Time.Format("2006-01-02"))
}

func TestExcelSource_NamedSheet(t *testing.T) {
	path := writeWorkbook(t, "records", [][]interface{}{
		{"DATE", "PP"},
		{"SRv3", nil},
	})

	table, err := NewExcelSource(path, "records").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 1)

	_, err = NewExcelSource(path, "missing").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "records")
}

// errorCellsSheet has a #REF! in DATE and a failed PP DIFF formula
const errorCellsSheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="1"><c r="A1" t="inlineStr"><is><t>DATE</t></is></c><c r="B1" t="inlineStr"><is><t>PP</t></is></c><c r="C1" t="inlineStr"><is><t>PP DIFF</t></is></c></row>` +
	`<row r="2"><c r="A2" t="e"><v>#REF!</v></c><c r="B2"><v>1000</v></c><c r="C2" t="e"><f>B2-B1</f><v>#VALUE!</v></c></row>` +
	`</sheetData></worksheet>`

// replaceZipEntry rewrites one file inside the workbook archive at path
func replaceZipEntry(t *testing.T, path, name, content string) {
	t.Helper()

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)

	out := path + ".tmp"
	f, err := os.Create(out)
	require.NoError(t, err)
	zw := zip.NewWriter(f)

	for _, entry := range zr.File {
		w, err := zw.Create(entry.Name)
		require.NoError(t, err)
		if entry.Name == name {
			_, err = io.WriteString(w, content)
			require.NoError(t, err)
			continue
		}
		rc, err := entry.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, rc)
		rc.Close()
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	require.NoError(t, zr.Close())
	require.NoError(t, os.Rename(out, path))
}

func TestExcelSource_ErrorCellsAreEmpty(t *testing.T) {
	path := writeWorkbook(t, "", [][]interface{}{{"DATE", "PP", "PP DIFF"}, {"x", 1000, 0}})
	replaceZipEntry(t, path, "xl/worksheets/sheet1.xml", errorCellsSheet)

	records, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.CellEmpty, rec.Date.Kind)
	assert.Equal(t, domain.CellEmpty, rec.PPDiff.Kind)
	assert.Equal(t, domain.CellNumber, rec.PP.Kind)
	assert.Equal(t, 1000.0, rec.PP.Number)
}

func TestExcelSource_MissingFile(t *testing.T) {
	_, err := NewExcelSource(filepath.Join(t.TempDir(), "nope.xlsx"), "").Load(context.Background())
	assert.Error(t, err)
}

func TestIsDateFormatCode(t *testing.T) {
	tests := map[string]bool{
		"yyyy/m/d":    true,
		"m/d/yy h:mm": true,
		"[$-411]ggge\"年\"m\"月\"d\"日\"": true,
		"0.00":        false,
		"#,##0":       false,
		"\"day\"0":    false,
		"[Red]0.00":   false,
		"h:mm:ss":     false,
	}
	for code, want := range tests {
		assert.Equal(t, want, isDateFormatCode(code), code)
	}
}
