package preview

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/learninghub/internal/config"
	"git.home.luguber.info/inful/learninghub/internal/metrics"
	"git.home.luguber.info/inful/learninghub/internal/watch"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	outDir := t.TempDir()
	cfg := &config.Config{
		Output:  config.OutputConfig{Directory: outDir},
		Preview: config.PreviewConfig{Addr: "127.0.0.1:0"},
		Hubs: []config.Hub{{
			Name:  "demo",
			Title: "Demo Hub",
		}},
	}
	return NewServer(cfg, metrics.NewRecorder(), watch.New(cfg, nil)), outDir
}

func TestServeContentInjectsReloadScript(t *testing.T) {
	srv, outDir := testServer(t)
	page := "<html><body><p>hello</p></body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "demo.html"), []byte(page), 0o644))

	rec := httptest.NewRecorder()
	srv.serveContent(rec, httptest.NewRequest(http.MethodGet, "/demo.html", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<p>hello</p>")
	assert.Contains(t, body, "EventSource('/livereload')")
}

func TestServeContentIndexListsHubs(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.serveContent(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/demo.html">Demo Hub</a>`)
}

func TestServeContentMissingPage(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.serveContent(rec, httptest.NewRequest(http.MethodGet, "/nope.html", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeContentRejectsTraversal(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x.html", nil)
	req.URL.Path = "/../secret.html"
	srv.serveContent(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLiveReloadHubClosedRejectsClients(t *testing.T) {
	hub := NewLiveReloadHub(nil)
	hub.Close()

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLiveReloadBroadcastDeduplicates(t *testing.T) {
	hub := NewLiveReloadHub(nil)
	hub.Broadcast("token-1")
	assert.Equal(t, "token-1", hub.lastToken)

	hub.Broadcast("token-1")
	assert.Equal(t, "token-1", hub.lastToken)

	hub.Broadcast("token-2")
	assert.Equal(t, "token-2", hub.lastToken)
}

func TestTokenEventFormat(t *testing.T) {
	assert.Equal(t, "data: {\"token\":\"abc\"}\n\n", tokenEvent("abc"))
}
