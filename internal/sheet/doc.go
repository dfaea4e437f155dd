// Package sheet loads the record history table and normalizes it into
// domain.Record values.
//
// Three sources are supported, selected by the input string:
//
//	data.xlsx                       Excel workbook (first sheet unless Options.Sheet is set)
//	data.csv                        comma separated file with a header row
//	gsheet://<spreadsheet-id>/<a1>  Google Sheets range
//
// Loading is the first of two parsing stages: every cell becomes a domain.Cell
// (empty, text, number or date) and nothing is formatted here. Formatting
// belongs to package render.
package sheet
