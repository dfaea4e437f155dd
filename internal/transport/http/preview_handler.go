package http

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"pphistory/internal/errors"
)

// reloadScript reconnects the page to the preview server and reloads it
// after every successful rebuild
const reloadScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    if (msg.type === "reload") {
      location.reload();
    } else if (msg.type === "build_error") {
      console.error("pphistory build failed:", msg.data.error);
    }
  };
})();
</script>
`

// PreviewHandler serves the latest rendered page
type PreviewHandler struct {
	store  BuildStore
	logger *slog.Logger
}

// NewPreviewHandler creates a new preview handler
func NewPreviewHandler(store BuildStore, logger *slog.Logger) *PreviewHandler {
	return &PreviewHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "preview")),
	}
}

// Page handles GET /
func (h *PreviewHandler) Page(w http.ResponseWriter, r *http.Request) {
	build, ok := h.store.Latest()
	if !ok {
		h.logger.WarnContext(r.Context(), "Page requested before first successful build")
		render.Render(w, r, unavailable(h.store))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(InjectReloadScript(build.Document.HTML))
}

// InjectReloadScript inserts the reload script before the last </body>,
// or appends it when the page has none
func InjectReloadScript(page []byte) []byte {
	out := make([]byte, 0, len(page)+len(reloadScript))
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		out = append(out, page...)
		return append(out, reloadScript...)
	}
	out = append(out, page[:i]...)
	out = append(out, reloadScript...)
	return append(out, page[i:]...)
}

// unavailable explains why no build can be served: the error of the last
// attempt when there was one, otherwise that the first build is pending
func unavailable(store BuildStore) *errors.APIError {
	err := store.LastError()
	if err == nil {
		return errors.ErrBuildUnavailable
	}
	apiErr := errors.FromError(err)
	return errors.NewWithDetails(http.StatusServiceUnavailable, apiErr.ErrorCode, apiErr.Message, apiErr.Details)
}
