package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pphistory/internal/errors"
	"pphistory/internal/render"
	ws "pphistory/internal/websocket"
)

type stubStore struct {
	build Build
	ok    bool
	err   error
}

func (s *stubStore) Latest() (Build, bool) { return s.build, s.ok }
func (s *stubStore) LastError() error      { return s.err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func builtStore() *stubStore {
	return &stubStore{
		ok: true,
		build: Build{
			RunID:   "run-1",
			BuiltAt: time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC),
			Document: &render.Document{
				HTML: []byte("<html>\n<body>\n<table></table>\n</body>\n</html>\n"),
				Rows: []render.RenderedRow{
					{Row: 2, Kind: "section", Section: "2025"},
					{Row: 3, Kind: "data", Player: "Alice", PP: "1,234 pp"},
				},
				Warnings: []render.Warning{{Row: 3, Column: "Replay", Message: "replay file not found", Path: "replays/a.osr"}},
				Stats:    render.Stats{Data: 1, Sections: 1, Warnings: 1},
			},
		},
	}
}

func newTestServer(t *testing.T, opts RouterOptions) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	srv := httptest.NewServer(NewRouter(opts))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestInjectReloadScript(t *testing.T) {
	t.Run("before closing body", func(t *testing.T) {
		out := string(InjectReloadScript([]byte("<body>x</body>\n</html>\n")))
		assert.Regexp(t, `(?s)^<body>x<script>.*</script>\n</body>\n</html>\n$`, out)
	})

	t.Run("appended without body", func(t *testing.T) {
		out := string(InjectReloadScript([]byte("<p>x</p>")))
		assert.Regexp(t, `(?s)^<p>x</p><script>.*</script>\n$`, out)
	})

	t.Run("input untouched", func(t *testing.T) {
		page := []byte("<body></body>")
		InjectReloadScript(page)
		assert.Equal(t, "<body></body>", string(page))
	})
}

func TestPage(t *testing.T) {
	t.Run("serves latest build", func(t *testing.T) {
		srv := newTestServer(t, RouterOptions{Store: builtStore()})
		resp, body := get(t, srv.URL+"/")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Contains(t, body, "<table></table>")
		assert.Contains(t, body, `new WebSocket(proto + location.host + "/ws")`)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Contains(t, resp.Header.Get("Cache-Control"), "no-cache")
	})

	t.Run("unavailable before first build", func(t *testing.T) {
		srv := newTestServer(t, RouterOptions{Store: &stubStore{}})
		resp, body := get(t, srv.URL+"/index.html")

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, body, "BUILD_UNAVAILABLE")
	})
}

func TestRows(t *testing.T) {
	srv := newTestServer(t, RouterOptions{Store: builtStore()})

	resp, body := get(t, srv.URL+"/api/rows")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got RowsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, "run-1", got.RunID)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "2025", got.Rows[0].Section)
	assert.Equal(t, "1,234 pp", got.Rows[1].PP)
	assert.Equal(t, 1, got.Stats.Warnings)

	resp, body = get(t, srv.URL+"/api/rows/warnings")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var warnings []render.Warning
	require.NoError(t, json.Unmarshal([]byte(body), &warnings))
	require.Len(t, warnings, 1)
	assert.Equal(t, "replays/a.osr", warnings[0].Path)
}

func TestRows_Unavailable(t *testing.T) {
	srv := newTestServer(t, RouterOptions{Store: &stubStore{}})
	resp, _ := get(t, srv.URL+"/api/rows")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		store  *stubStore
		status string
	}{
		{name: "starting", store: &stubStore{}, status: "starting"},
		{name: "ok", store: builtStore(), status: "ok"},
		{name: "degraded", store: func() *stubStore {
			s := builtStore()
			s.err = fmt.Errorf("sheet %q not found", "records")
			return s
		}(), status: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, RouterOptions{Store: tt.store})
			resp, body := get(t, srv.URL+"/api/health")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var got HealthResponse
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Equal(t, tt.status, got.Status)
			if tt.store.err != nil {
				assert.Equal(t, tt.store.err.Error(), got.LastError)
			}
			if tt.store.ok {
				assert.Equal(t, "run-1", got.LastRunID)
			}
		})
	}
}

func TestHealth_CountsClients(t *testing.T) {
	hub := ws.NewHub(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := newTestServer(t, RouterOptions{Store: builtStore(), Hub: hub})
	_, body := get(t, srv.URL+"/api/health")

	var got HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, 0, got.Clients)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "pphistory_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	srv := newTestServer(t, RouterOptions{Store: builtStore(), Gatherer: reg})
	resp, body := get(t, srv.URL+"/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "pphistory_test_total 1")
}

func TestStaticAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0o644))

	srv := newTestServer(t, RouterOptions{Store: builtStore(), SiteDir: dir})

	resp, body := get(t, srv.URL+"/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)

	resp, _ = get(t, srv.URL+"/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStaticAssets_HidesPrivateFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"pphistory.yaml", "data.xlsx", "records.csv", ".env", "index.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("secret"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "config"), []byte("secret"), 0o644))

	srv := newTestServer(t, RouterOptions{Store: builtStore(), SiteDir: dir})

	for _, p := range []string{"/pphistory.yaml", "/data.xlsx", "/DATA.XLSX", "/records.csv", "/.env", "/.git/config", "/icons/../pphistory.yaml"} {
		resp, body := get(t, srv.URL+p)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, p)
		assert.NotContains(t, body, "secret", p)
	}

	resp, _ := get(t, srv.URL+"/index.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnavailable_ReportsLastError(t *testing.T) {
	store := &stubStore{err: errors.NewInputError("load", "failed to read input", io.ErrUnexpectedEOF)}
	srv := newTestServer(t, RouterOptions{Store: store})

	for _, p := range []string{"/", "/api/rows", "/api/rows/warnings"} {
		resp, body := get(t, srv.URL+p)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, p)
		assert.Contains(t, body, "INPUT_READ", p)
		assert.Contains(t, body, "failed to read input", p)
	}
}
