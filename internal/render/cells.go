package render

import (
	"strings"

	"pphistory/pkg/contracts/domain"
)

const cellIndent = "      "

// htmlEscaper escapes text and attribute values with named quote entities
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}

// td renders one table cell on its own line. inner must already be escaped.
func td(class, inner string) string {
	if class == "" {
		return cellIndent + "<td>" + inner + "</td>\n"
	}
	return cellIndent + `<td class="` + class + `">` + inner + "</td>\n"
}

// TextCell renders escaped text in a cell
func TextCell(text, class string) string {
	return td(class, escape(text))
}

// LinkCell renders text, wrapped in a link when url is present
func LinkCell(text, url domain.Cell, class string) string {
	t, u := cellString(text), cellString(url)
	if t == "" && u == "" {
		return td(class, "")
	}
	if u == "" {
		return td(class, escape(t))
	}
	return td(class, `<a href="`+escape(u)+`">`+escape(t)+`</a>`)
}

// IconLinkCell renders a reference to an external service. Without a URL the
// cell is empty even when an icon is set; without an icon the link reads "link".
func IconLinkCell(icon, url domain.Cell, class, folder string) string {
	if url.IsBlank() {
		return td(class, "")
	}
	href := escape(url.Text)

	name := cellString(icon)
	if name == "" {
		return td(class, `<a href="`+href+`">link</a>`)
	}
	return td(class, `<a href="`+href+`">`+img(folder, name, stem(name), "ref-icon")+`</a>`)
}

// ModCell renders the populated mod slots as icons separated by spaces
func ModCell(mods [domain.ModSlots]domain.Cell, folder string) string {
	var imgs []string
	for _, m := range mods {
		if name := cellString(m); name != "" {
			imgs = append(imgs, img(folder, name, stem(name), "mod-icon"))
		}
	}
	return td("", strings.Join(imgs, " "))
}

// FlagCell renders the player's country flag
func FlagCell(flag domain.Cell, folder string) string {
	name := cellString(flag)
	if name == "" {
		return td("icon-col", "")
	}
	return td("icon-col", img(folder, name, "", "flag-icon"))
}

// JacketCell renders the beatmap background thumbnail
func JacketCell(jacket domain.Cell, folder string) string {
	name := cellString(jacket)
	if name == "" {
		return td("icon-col", "")
	}
	return td("icon-col", img(folder, name, "jacket", "jacket"))
}

func img(folder, name, alt, class string) string {
	return `<img src="` + escape(folder+"/"+name) + `" alt="` + escape(alt) +
		`" class="` + class + `">`
}

// stem strips the extension from a file name
func stem(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// cellString returns the raw text of a cell, or "" when it is empty
func cellString(c domain.Cell) string {
	if c.IsEmpty() {
		return ""
	}
	return c.Text
}
