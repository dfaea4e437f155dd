package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies how a spreadsheet cell was interpreted when it was read
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

// String returns the lowercase name of the kind
func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell is a normalized, optional spreadsheet value.
// Text always holds the value as it was read from the source.
type Cell struct {
	Kind   CellKind  `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Number float64   `json:"number,omitempty"`
	Time   time.Time `json:"time,omitempty"`
}

// EmptyCell returns the absent value
func EmptyCell() Cell {
	return Cell{Kind: CellEmpty}
}

// TextCell returns a text cell; an empty string yields the absent value
func TextCell(s string) Cell {
	if s == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell; NaN yields the absent value
func NumberCell(f float64) Cell {
	if math.IsNaN(f) {
		return EmptyCell()
	}
	return Cell{Kind: CellNumber, Number: f, Text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// DateCell returns a calendar date cell
func DateCell(t time.Time) Cell {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Cell{Kind: CellDate, Time: d, Text: d.Format("2006-01-02")}
}

// IsEmpty reports whether the cell holds no value
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// IsBlank reports whether the cell is empty or holds only whitespace text
func (c Cell) IsBlank() bool {
	return c.IsEmpty() || strings.TrimSpace(c.Text) == ""
}

// Float returns the numeric value of the cell. Text cells are parsed after trimming.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		f, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Reference is an (icon, url) pair pointing at an external service
type Reference struct {
	Icon Cell `json:"icon"`
	URL  Cell `json:"url"`
}

// Fixed external services, in column order
const (
	ReferenceOsu = iota
	ReferenceYouTube
	ReferenceReddit
	ReferenceX
	ReferenceCount
)

// ModSlots is the number of mod icon columns
const ModSlots = 7

// Record is one row of the record history sheet
type Record struct {
	Row          int                       `json:"row"`
	Date         Cell                      `json:"date"`
	Days         Cell                      `json:"days"`
	SectionLink  Cell                      `json:"section_link"`
	PP           Cell                      `json:"pp"`
	PPDiff       Cell                      `json:"pp_diff"`
	Flag         Cell                      `json:"flag"`
	Player       Cell                      `json:"player"`
	PlayerLink   Cell                      `json:"player_link"`
	Jacket       Cell                      `json:"jacket"`
	Map          Cell                      `json:"map"`
	MapLink      Cell                      `json:"map_link"`
	SR           Cell                      `json:"sr"`
	SRBackground Cell                      `json:"sr_bg"`
	SRForeground Cell                      `json:"sr_fg"`
	Accuracy     Cell                      `json:"acc"`
	References   [ReferenceCount]Reference `json:"references"`
	Mods         [ModSlots]Cell            `json:"mods"`
	Replay       Cell                      `json:"replay"`
	Remarks      Cell                      `json:"remarks"`
}

// RowKind is the classification of a record
type RowKind string

const (
	RowSection RowKind = "section"
	RowSkip    RowKind = "skip"
	RowData    RowKind = "data"
)
