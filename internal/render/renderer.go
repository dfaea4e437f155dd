package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"pphistory/internal/config"
	"pphistory/pkg/contracts/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options configures a Renderer
type Options struct {
	Site   config.SiteConfig
	Assets config.AssetsConfig
	// Today is the reference date for days maintained
	Today time.Time
	// Checker verifies replay files; nil treats every replay as missing
	Checker AssetChecker
}

// Renderer turns records into the record history document
type Renderer struct {
	site    config.SiteConfig
	assets  config.AssetsConfig
	today   time.Time
	checker AssetChecker
	tmpl    *template.Template
}

// RenderedRow holds the display values of one emitted table row
type RenderedRow struct {
	Row  int            `json:"row"`
	Kind domain.RowKind `json:"kind"`

	// Section rows
	Section     string `json:"section,omitempty"`
	SectionLink string `json:"section_link,omitempty"`

	// Data rows
	Date        string                        `json:"date,omitempty"`
	Days        string                        `json:"days,omitempty"`
	Flag        string                        `json:"flag,omitempty"`
	Player      string                        `json:"player,omitempty"`
	PlayerLink  string                        `json:"player_link,omitempty"`
	Jacket      string                        `json:"jacket,omitempty"`
	Map         string                        `json:"map,omitempty"`
	MapLink     string                        `json:"map_link,omitempty"`
	SR          string                        `json:"sr,omitempty"`
	Mods        []string                      `json:"mods,omitempty"`
	Accuracy    string                        `json:"acc,omitempty"`
	PP          string                        `json:"pp,omitempty"`
	PPDiff      string                        `json:"pp_diff,omitempty"`
	PPDiffClass string                        `json:"pp_diff_class,omitempty"`
	References  [domain.ReferenceCount]string `json:"references"`
	Replay      string                        `json:"replay,omitempty"`
	Remarks     string                        `json:"remarks,omitempty"`
}

// Stats counts records by classification
type Stats struct {
	Data     int `json:"data"`
	Sections int `json:"sections"`
	Skipped  int `json:"skipped"`
	Warnings int `json:"warnings"`
}

// ByKind returns the record counts keyed by row kind
func (s Stats) ByKind() map[string]int {
	return map[string]int{
		string(domain.RowData):    s.Data,
		string(domain.RowSection): s.Sections,
		string(domain.RowSkip):    s.Skipped,
	}
}

// Document is a fully rendered page
type Document struct {
	HTML     []byte        `json:"-"`
	Rows     []RenderedRow `json:"rows"`
	Warnings []Warning     `json:"warnings"`
	Stats    Stats         `json:"stats"`
}

// NewRenderer parses the page templates
func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Renderer{
		site:    opts.Site,
		assets:  opts.Assets,
		today:   opts.Today,
		checker: opts.Checker,
		tmpl:    tmpl,
	}, nil
}

// Render builds the document from records in their input order. Rendering
// never fails on record content; errors come only from template execution.
func (r *Renderer) Render(records []domain.Record) (*Document, error) {
	doc := &Document{Rows: make([]RenderedRow, 0, len(records)), Warnings: []Warning{}}
	warn := func(w Warning) {
		doc.Warnings = append(doc.Warnings, w)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "head.tmpl", r.site); err != nil {
		return nil, fmt.Errorf("failed to render page head: %w", err)
	}

	for _, rec := range records {
		switch Classify(rec) {
		case domain.RowSkip:
			doc.Stats.Skipped++
		case domain.RowSection:
			doc.Stats.Sections++
			row := r.sectionRow(rec, &buf)
			doc.Rows = append(doc.Rows, row)
		default:
			doc.Stats.Data++
			row := r.dataRow(rec, &buf, warn)
			doc.Rows = append(doc.Rows, row)
		}
	}

	if err := r.tmpl.ExecuteTemplate(&buf, "foot.tmpl", r.site); err != nil {
		return nil, fmt.Errorf("failed to render page foot: %w", err)
	}

	doc.Stats.Warnings = len(doc.Warnings)
	doc.HTML = buf.Bytes()
	return doc, nil
}

func (r *Renderer) sectionRow(rec domain.Record, buf *bytes.Buffer) RenderedRow {
	text := rec.Date.Text
	link := cellString(rec.SectionLink)

	inner := escape(text)
	if link != "" {
		inner = `<a href="` + escape(link) + `" target="_blank" rel="noopener noreferrer">` + inner + `</a>`
	}
	fmt.Fprintf(buf, "    <tr class=\"section-row\"><td colspan=\"%d\">%s</td></tr>\n", config.TableColumns, inner)

	return RenderedRow{Row: rec.Row, Kind: domain.RowSection, Section: text, SectionLink: link}
}

func (r *Renderer) dataRow(rec domain.Record, buf *bytes.Buffer, warn func(Warning)) RenderedRow {
	row := RenderedRow{
		Row:        rec.Row,
		Kind:       domain.RowData,
		Date:       FormatDate(rec.Date),
		Days:       DaysMaintained(rec, r.today),
		Flag:       cellString(rec.Flag),
		Player:     cellString(rec.Player),
		PlayerLink: cellString(rec.PlayerLink),
		Jacket:     cellString(rec.Jacket),
		Map:        cellString(rec.Map),
		MapLink:    cellString(rec.MapLink),
		SR:         FormatSR(rec.SR),
		Accuracy:   FormatAccuracy(rec.Accuracy),
		PP:         FormatPP(rec.PP),
		Remarks:    FormatRemarks(rec.Remarks),
	}
	row.PPDiff, row.PPDiffClass = FormatPPDiff(rec.PPDiff)
	for _, m := range rec.Mods {
		if name := cellString(m); name != "" {
			row.Mods = append(row.Mods, name)
		}
	}

	var b strings.Builder
	b.WriteString("    <tr>\n")
	b.WriteString(TextCell(row.Date, "col-date"))
	b.WriteString(TextCell(row.Days, "col-days"))
	b.WriteString(FlagCell(rec.Flag, r.assets.FlagDir))
	b.WriteString(LinkCell(rec.Player, rec.PlayerLink, "col-player"))
	b.WriteString(JacketCell(rec.Jacket, r.assets.JacketDir))
	b.WriteString(LinkCell(rec.Map, rec.MapLink, "col-map"))
	b.WriteString(td("col-sr", SRPill(rec.SR, rec.SRBackground, rec.SRForeground)))
	b.WriteString(ModCell(rec.Mods, r.assets.ModDir))
	b.WriteString(TextCell(row.Accuracy, "col-acc"))
	b.WriteString(TextCell(row.PP, "col-pp"))
	b.WriteString(TextCell(row.PPDiff, "col-ppdiff "+row.PPDiffClass))
	for i, ref := range rec.References {
		b.WriteString(IconLinkCell(ref.Icon, ref.URL, "icon-col", r.assets.RefIconDir))
		if !ref.URL.IsBlank() {
			row.References[i] = ref.URL.Text
		}
	}

	cell, href := r.replayCell(rec, warn)
	row.Replay = href
	b.WriteString(cell)
	b.WriteString(TextCell(row.Remarks, "col-remarks"))
	b.WriteString("    </tr>\n")

	buf.WriteString(b.String())
	return row
}
