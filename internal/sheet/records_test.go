package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pphistory/pkg/contracts/domain"
)

func TestToRecords_MapsColumnsByHeader(t *testing.T) {
	table := &Table{
		Headers: []string{" DATE ", "PLAYER", "PLAYER LINK", "osu", "osu link", "X link", "MOD2", "Replay", "PLAYER"},
		Rows: []Row{
			{Number: 2, Cells: []domain.Cell{
				domain.TextCell("2025-11-08"),
				domain.TextCell("Vanity8"),
				domain.TextCell("https://osu.ppy.sh/users/12029122"),
				domain.TextCell("osu.png"),
				domain.TextCell("https://osu.ppy.sh/scores/1"),
				domain.TextCell("https://x.com/post"),
				domain.TextCell("HD.png"),
				domain.TextCell("a.osr"),
				domain.TextCell("ignored duplicate"),
			}},
			{Number: 3, Cells: []domain.Cell{domain.TextCell("SRv3")}},
		},
	}

	records := ToRecords(table)
	require.Len(t, records, 2)

	rec := records[0]
	assert.Equal(t, 2, rec.Row)
	assert.Equal(t, "2025-11-08", rec.Date.Text)
	assert.Equal(t, "Vanity8", rec.Player.Text)
	assert.Equal(t, "https://osu.ppy.sh/users/12029122", rec.PlayerLink.Text)
	assert.Equal(t, "osu.png", rec.References[domain.ReferenceOsu].Icon.Text)
	assert.Equal(t, "https://osu.ppy.sh/scores/1", rec.References[domain.ReferenceOsu].URL.Text)
	assert.True(t, rec.References[domain.ReferenceX].Icon.IsEmpty())
	assert.Equal(t, "https://x.com/post", rec.References[domain.ReferenceX].URL.Text)
	assert.True(t, rec.Mods[0].IsEmpty())
	assert.Equal(t, "HD.png", rec.Mods[1].Text)
	assert.Equal(t, "a.osr", rec.Replay.Text)
	assert.True(t, rec.Map.IsEmpty(), "missing column is empty")

	short := records[1]
	assert.Equal(t, "SRv3", short.Date.Text)
	assert.True(t, short.Player.IsEmpty(), "short row pads with empty cells")
}

func TestOpen_SelectsSource(t *testing.T) {
	src, err := Open("data.xlsx", Options{Sheet: "records"})
	require.NoError(t, err)
	assert.IsType(t, &ExcelSource{}, src)
	assert.Equal(t, "data.xlsx#records", src.Name())

	src, err = Open("exports/data.CSV", Options{})
	require.NoError(t, err)
	assert.IsType(t, &CSVSource{}, src)

	src, err = Open("gsheet://id/Sheet1", Options{})
	require.NoError(t, err)
	assert.IsType(t, &GoogleSource{}, src)

	_, err = Open("data.ods", Options{})
	assert.Error(t, err)
}

func TestLoad_CSVEndToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("DATE,PP,PLAYER,MAP\nSRv2,,,\n2025-01-01,700,A,B\n"), 0644))

	records, err := Load(context.Background(), path, Options{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SRv2", records[0].Date.Text)
	assert.Equal(t, 700.0, records[1].PP.Number)
}
