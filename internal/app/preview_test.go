package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pphistory/internal/config"
	httptransport "pphistory/internal/transport/http"
)

func previewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testConfig(t)
	cfg.Preview.SiteDir = filepath.Dir(cfg.Build.Output)
	cfg.Preview.PollInterval = 10 * time.Millisecond
	cfg.Preview.MinRebuildInterval = 0
	cfg.Preview.Addr = "127.0.0.1:0"
	require.NoError(t, os.MkdirAll(cfg.Preview.SiteDir, 0o755))
	return cfg
}

func fetch(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w.Code, string(body)
}

// touch rewrites the input with a modification time distinct from the previous one
func touch(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestPreview_ServesLatestBuild(t *testing.T) {
	p := NewPreview(previewConfig(t), nil, testLogger())

	code, _ := fetch(t, p.Handler(), "/")
	assert.Equal(t, http.StatusServiceUnavailable, code)

	require.NoError(t, p.rebuild(context.Background()))

	code, body := fetch(t, p.Handler(), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, `"/ws"`)

	code, body = fetch(t, p.Handler(), "/api/rows")
	require.Equal(t, http.StatusOK, code)
	var rows httptransport.RowsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &rows))
	assert.Equal(t, 1, rows.Stats.Data)
	require.Len(t, rows.Warnings, 1)
	assert.Equal(t, "replays/alice.osr", rows.Warnings[0].Path)
}

func TestPreview_ReplaysCheckedInSiteDir(t *testing.T) {
	cfg := previewConfig(t)
	addReplay(t, cfg.Preview.SiteDir, "alice.osr")
	p := NewPreview(cfg, nil, testLogger())

	require.NoError(t, p.rebuild(context.Background()))

	build, ok := p.store.Latest()
	require.True(t, ok)
	assert.Empty(t, build.Document.Warnings)
}

func TestPreview_PollRebuildsOnChange(t *testing.T) {
	cfg := previewConfig(t)
	p := NewPreview(cfg, nil, testLogger())
	ctx := context.Background()

	lastMod := p.modTime()
	require.NoError(t, p.rebuild(ctx))

	assert.Equal(t, lastMod, p.poll(ctx, lastMod), "unchanged input must not rebuild")

	changed := strings.Replace(sampleCSV, "Alice", "Bob", 1)
	touch(t, cfg.Build.Input, changed, lastMod.Add(time.Minute))

	newMod := p.poll(ctx, lastMod)
	assert.True(t, newMod.After(lastMod))

	_, body := fetch(t, p.Handler(), "/")
	assert.Contains(t, body, "Bob")
	assert.NotContains(t, body, "Alice")
}

func TestPreview_FailedRebuildKeepsLastPage(t *testing.T) {
	cfg := previewConfig(t)
	p := NewPreview(cfg, nil, testLogger())
	ctx := context.Background()

	require.NoError(t, p.rebuild(ctx))
	require.NoError(t, os.Remove(cfg.Build.Input))
	require.Error(t, p.rebuild(ctx))

	code, body := fetch(t, p.Handler(), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Alice")

	_, body = fetch(t, p.Handler(), "/api/health")
	var health httptransport.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Contains(t, health.LastError, "INPUT_READ")

	touch(t, cfg.Build.Input, sampleCSV, time.Now().Add(time.Hour))
	require.NoError(t, p.rebuild(ctx))
	assert.NoError(t, p.store.LastError())
}

func TestPreview_RunStopsOnCancel(t *testing.T) {
	p := NewPreview(previewConfig(t), nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, ok := p.store.Latest()
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("preview did not stop")
	}
}

func TestPreview_RemoteInputIsNotWatched(t *testing.T) {
	cfg := previewConfig(t)
	cfg.Build.Input = "gsheet://sheet-id/Records"
	p := NewPreview(cfg, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.watch(ctx, time.Time{})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not return")
	}
}
