package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"pphistory/pkg/contracts/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.Record
		want domain.RowKind
	}{
		{
			name: "text date is a section",
			rec:  domain.Record{Date: domain.TextCell("SRv2")},
			want: domain.RowSection,
		},
		{
			name: "section ignores other columns",
			rec:  domain.Record{Date: domain.TextCell("Majimanji... deletion"), PP: domain.NumberCell(900)},
			want: domain.RowSection,
		},
		{
			name: "digit leading text is data",
			rec:  domain.Record{Date: domain.TextCell("2014/3/5"), Player: domain.TextCell("Zesty")},
			want: domain.RowData,
		},
		{
			name: "full-width digit leading text is data",
			rec:  domain.Record{Date: domain.TextCell("２０２４/1/1"), Player: domain.TextCell("Zesty")},
			want: domain.RowData,
		},
		{
			name: "date cell is data",
			rec:  domain.Record{Date: domain.DateCell(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))},
			want: domain.RowData,
		},
		{
			name: "all key columns empty is skipped",
			rec:  domain.Record{Remarks: domain.TextCell("stray note"), Replay: domain.TextCell("x.osr")},
			want: domain.RowSkip,
		},
		{
			name: "missing date with player is data",
			rec:  domain.Record{Player: domain.TextCell("mrekk")},
			want: domain.RowData,
		},
		{
			name: "missing date with pp is data",
			rec:  domain.Record{PP: domain.NumberCell(1000)},
			want: domain.RowData,
		},
		{
			name: "missing date with map is data",
			rec:  domain.Record{Map: domain.TextCell("Kodoku")},
			want: domain.RowData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec))
		})
	}
}
