package render

import (
	"path"
	"path/filepath"
	"strings"

	"pphistory/internal/config"
	"pphistory/pkg/contracts/domain"
)

// AssetChecker reports whether a site-relative asset file exists
type AssetChecker interface {
	Exists(relPath string) bool
}

// AssetCheckerFunc adapts a function to AssetChecker
type AssetCheckerFunc func(relPath string) bool

// Exists implements AssetChecker
func (f AssetCheckerFunc) Exists(relPath string) bool {
	return f(relPath)
}

// Warning is a non-fatal problem found while rendering a record
type Warning struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// replayCell renders the download link for a replay file and returns the
// cell with its href. A replay that is listed but missing from disk yields
// an empty cell and a warning.
func (r *Renderer) replayCell(rec domain.Record, warn func(Warning)) (string, string) {
	name := ""
	if !rec.Replay.IsEmpty() {
		name = strings.TrimSpace(rec.Replay.Text)
	}
	if name == "" {
		return td("col-replay", ""), ""
	}

	rel := path.Join(filepath.ToSlash(r.assets.ReplayDir), strings.ReplaceAll(name, `\`, "/"))
	if r.checker == nil || !r.checker.Exists(rel) {
		warn(Warning{
			Row:     rec.Row,
			Column:  config.ColReplay,
			Message: "replay file not found",
			Path:    rel,
		})
		return td("col-replay", ""), ""
	}

	return td("col-replay", `<a class="replay-link" href="`+escape(rel)+`" download>Replay</a>`), rel
}
