package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"pphistory/pkg/contracts/domain"
)

// GoogleSource reads a range of a Google spreadsheet
type GoogleSource struct {
	spreadsheetID string
	readRange     string
	clientOpts    []option.ClientOption
}

// NewGoogleSource parses gsheet://<spreadsheet-id>[/<a1-range>]. Without a
// range, opts.Sheet (or "Sheet1") selects the whole worksheet.
func NewGoogleSource(input string, opts Options) (*GoogleSource, error) {
	rest := strings.TrimPrefix(input, GoogleScheme)
	id, rng, _ := strings.Cut(rest, "/")
	if id == "" {
		return nil, fmt.Errorf("missing spreadsheet id in %q", input)
	}
	if rng == "" {
		rng = opts.Sheet
	}
	if rng == "" {
		rng = "Sheet1"
	}

	var clientOpts []option.ClientOption
	switch {
	case opts.GoogleCredentialsFile != "":
		clientOpts = append(clientOpts,
			option.WithCredentialsFile(opts.GoogleCredentialsFile),
			option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	case opts.GoogleAPIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.GoogleAPIKey))
	}
	clientOpts = append(clientOpts, opts.ClientOptions...)

	return &GoogleSource{spreadsheetID: id, readRange: rng, clientOpts: clientOpts}, nil
}

// Name implements Source
func (s *GoogleSource) Name() string {
	return GoogleScheme + s.spreadsheetID + "/" + s.readRange
}

// Load implements Source
func (s *GoogleSource) Load(ctx context.Context) (*Table, error) {
	srv, err := sheets.NewService(ctx, s.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	resp, err := srv.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", s.readRange, err)
	}

	table := &Table{}
	if len(resp.Values) == 0 {
		return table, nil
	}
	for _, v := range resp.Values[0] {
		table.Headers = append(table.Headers, fmt.Sprint(v))
	}
	for i, values := range resp.Values[1:] {
		row := Row{Number: i + 2, Cells: make([]domain.Cell, len(values))}
		for j, v := range values {
			row.Cells[j] = googleCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// googleCell converts an unformatted API value
func googleCell(v interface{}) domain.Cell {
	switch val := v.(type) {
	case nil:
		return domain.EmptyCell()
	case float64:
		return domain.NumberCell(val)
	case bool:
		return domain.TextCell(strings.ToUpper(strconv.FormatBool(val)))
	case string:
		return InferCell(val)
	default:
		return domain.TextCell(fmt.Sprint(val))
	}
}
