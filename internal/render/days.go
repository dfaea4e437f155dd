package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"pphistory/pkg/contracts/domain"
)

// DaysMaintained returns the "Days maintained" display value of rec.
//
// An explicit "-" is kept verbatim and an explicit integer wins over the
// date. Otherwise the value is the number of whole days between the record
// date and today. Missing or unparseable dates and dates after today yield "".
func DaysMaintained(rec domain.Record, today time.Time) string {
	if rec.Days.Kind == domain.CellText && strings.TrimSpace(rec.Days.Text) == "-" {
		return "-"
	}

	if n, ok := explicitDays(rec.Days); ok {
		return pluralDays(n)
	}

	d, ok := calendarDate(rec.Date)
	if !ok {
		return ""
	}
	ref := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	delta := int(math.Round(ref.Sub(d).Hours() / 24))
	if delta < 0 {
		return ""
	}
	return pluralDays(delta)
}

func explicitDays(c domain.Cell) (int, bool) {
	switch c.Kind {
	case domain.CellNumber:
		if c.Number != math.Trunc(c.Number) || math.Abs(c.Number) > math.MaxInt32 {
			return 0, false
		}
		return int(c.Number), true
	case domain.CellText:
		n, err := strconv.Atoi(strings.TrimSpace(c.Text))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// calendarDate interprets a DATE cell as a UTC calendar date
func calendarDate(c domain.Cell) (time.Time, bool) {
	switch c.Kind {
	case domain.CellDate:
		t := c.Time
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	case domain.CellText:
		return domain.ParseDate(c.Text)
	case domain.CellNumber:
		// an Excel serial left without a date number format
		if c.Number < 1 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(c.Number, false)
		if err != nil {
			return time.Time{}, false
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
