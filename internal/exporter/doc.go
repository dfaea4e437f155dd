// Package exporter writes the outputs of a build.
//
// CSVWriter is the low level CSV writer with a UTF-8 BOM for Excel
// compatibility. DocumentExporter writes the rendered HTML page and, when
// requested, a CSV mirror of the displayed table.
//
// Example usage:
//
//	exp := exporter.NewDocumentExporter(files.NewManager("site"))
//
//	if err := exp.WriteHTML("index.html", doc); err != nil {
//	    return err
//	}
//	err := exp.WriteRowsCSV("index.csv", doc.Rows)
package exporter
