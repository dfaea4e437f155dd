package render

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"pphistory/pkg/contracts/domain"
)

// CSS classes of the pp difference cell
const (
	PPDiffPositive = "ppdiff-pos"
	PPDiffNegative = "ppdiff-neg"
	PPDiffZero     = "ppdiff-zero"
)

// groupPrinter formats integers with comma thousands separators
var groupPrinter = message.NewPrinter(language.English)

// round rounds half to even, like the spreadsheet exports this page was first built from
func round(f float64) int64 {
	return int64(math.RoundToEven(f))
}

// FormatDate renders a date as YYYY-MM-DD. Text is passed through.
func FormatDate(c domain.Cell) string {
	switch c.Kind {
	case domain.CellEmpty:
		return ""
	case domain.CellDate, domain.CellNumber:
		if d, ok := calendarDate(c); ok {
			return d.Format("2006-01-02")
		}
	}
	return c.Text
}

// FormatInt renders the nearest integer without grouping. Non-numeric text is passed through.
func FormatInt(c domain.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	f, ok := c.Float()
	if !ok {
		return c.Text
	}
	return fmt.Sprintf("%d", round(f))
}

// FormatAccuracy renders a 0-1 fraction as a percentage with two decimals
func FormatAccuracy(c domain.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	f, ok := c.Float()
	if !ok {
		return c.Text
	}
	return fmt.Sprintf("%.2f%%", f*100)
}

// FormatSR renders a star rating with two decimals
func FormatSR(c domain.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	f, ok := c.Float()
	if !ok {
		return c.Text
	}
	return fmt.Sprintf("%.2f", f)
}

// SRPill renders the star rating badge. Colors are optional CSS color values;
// blank ones are left out of the style attribute. A blank rating yields "".
func SRPill(sr, bg, fg domain.Cell) string {
	if sr.IsBlank() {
		return ""
	}

	var style []string
	if v := strings.TrimSpace(bg.Text); !bg.IsEmpty() && v != "" {
		style = append(style, "background-color:"+v)
	}
	if v := strings.TrimSpace(fg.Text); !fg.IsEmpty() && v != "" {
		style = append(style, "color:"+v)
	}

	styleAttr := ""
	if len(style) > 0 {
		styleAttr = ` style="` + escape(strings.Join(style, ";")) + `"`
	}
	return `<span class="sr-pill"` + styleAttr + `>★ ` + escape(FormatSR(sr)) + `</span>`
}

// FormatPP renders a performance value as "1,749 pp". Non-numeric text is passed through.
func FormatPP(c domain.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	f, ok := c.Float()
	if !ok {
		return c.Text
	}
	return groupPrinter.Sprintf("%d pp", round(f))
}

// FormatPPDiff renders a performance delta as "(+83)" or "(-12)" together
// with the CSS class for its sign. Blank and non-numeric values use PPDiffZero.
func FormatPPDiff(c domain.Cell) (string, string) {
	if c.IsBlank() {
		return "", PPDiffZero
	}
	d, ok := c.Float()
	if !ok {
		return c.Text, PPDiffZero
	}

	sign := "+"
	if d < 0 {
		sign = "-"
	}
	text := fmt.Sprintf("(%s%d)", sign, round(math.Abs(d)))

	switch {
	case d > 0:
		return text, PPDiffPositive
	case d < 0:
		return text, PPDiffNegative
	default:
		return text, PPDiffZero
	}
}

// FormatRemarks returns the remarks text, or "" when it is blank
func FormatRemarks(c domain.Cell) string {
	if c.IsBlank() {
		return ""
	}
	return c.Text
}
