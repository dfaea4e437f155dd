package sheet

import (
	"strconv"
	"strings"

	"pphistory/pkg/contracts/domain"
)

// InferCell normalizes an untyped text value (CSV, Google Sheets) into a cell.
// Numbers and dates keep the raw text in Cell.Text.
func InferCell(raw string) domain.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if raw == "" {
			return domain.EmptyCell()
		}
		return domain.TextCell(raw)
	}
	if strings.EqualFold(trimmed, "nan") {
		return domain.EmptyCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		c := domain.NumberCell(f)
		if !c.IsEmpty() {
			c.Text = raw
		}
		return c
	}
	if startsWithDigit(trimmed) {
		if t, ok := domain.ParseDate(trimmed); ok {
			c := domain.DateCell(t)
			c.Text = raw
			return c
		}
	}
	return domain.TextCell(raw)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
