package render

import (
	"unicode"
	"unicode/utf8"

	"pphistory/pkg/contracts/domain"
)

// Classify decides how a record is rendered.
//
// A record whose date is text not starting with a digit is a section header.
// A record without date, pp, player and map is skipped. Everything else is data.
func Classify(rec domain.Record) domain.RowKind {
	if rec.Date.Kind == domain.CellText && !startsWithDigit(rec.Date.Text) {
		return domain.RowSection
	}
	if rec.Date.IsEmpty() && rec.PP.IsEmpty() && rec.Player.IsEmpty() && rec.Map.IsEmpty() {
		return domain.RowSkip
	}
	return domain.RowData
}

// startsWithDigit accepts any Unicode decimal digit, so full-width dates stay data rows
func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsDigit(r)
}
