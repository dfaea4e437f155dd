package sheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"

	"pphistory/pkg/contracts/domain"
)

// GoogleScheme prefixes Google Sheets inputs
const GoogleScheme = "gsheet://"

// Row is one sheet row with its 1-based row number
type Row struct {
	Number int
	Cells  []domain.Cell
}

// Table is a header row plus the data rows below it, in sheet order
type Table struct {
	Headers []string
	Rows    []Row
}

// Source loads a table
type Source interface {
	Load(ctx context.Context) (*Table, error)
	// Name describes the source for logs
	Name() string
}

// Options configures source selection
type Options struct {
	// Sheet selects a worksheet (xlsx) or default range (Google Sheets)
	Sheet                 string
	GoogleAPIKey          string
	GoogleCredentialsFile string
	// ClientOptions are appended to the Google API client options
	ClientOptions []option.ClientOption
}

// Open returns the Source for input
func Open(input string, opts Options) (Source, error) {
	if strings.HasPrefix(input, GoogleScheme) {
		return NewGoogleSource(input, opts)
	}
	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx", ".xlsm":
		return NewExcelSource(input, opts.Sheet), nil
	case ".csv":
		return NewCSVSource(input), nil
	default:
		return nil, fmt.Errorf("unsupported input %q: expected .xlsx, .csv or %s<id>", input, GoogleScheme)
	}
}

// Load opens input and converts its rows into records
func Load(ctx context.Context, input string, opts Options) ([]domain.Record, error) {
	src, err := Open(input, opts)
	if err != nil {
		return nil, err
	}
	table, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return ToRecords(table), nil
}
