// Package preview serves built hub pages locally with live reload.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/learninghub/internal/build"
	"git.home.luguber.info/inful/learninghub/internal/config"
	"git.home.luguber.info/inful/learninghub/internal/metrics"
	"git.home.luguber.info/inful/learninghub/internal/watch"
)

// reloadScript is appended to every served HTML page. It reloads the
// page whenever the build token broadcast over SSE changes.
const reloadScript = `<script>
(function () {
  var source = new EventSource('/livereload');
  var token = null;
  source.onmessage = function (e) {
    var data = JSON.parse(e.data);
    if (token === null) { token = data.token; return; }
    if (data.token !== token) { location.reload(); }
  };
})();
</script>
`

// Server serves the output directory, a livereload SSE endpoint, health
// and prometheus metrics, with a watcher rebuilding underneath.
type Server struct {
	cfg      *config.Config
	recorder *metrics.Recorder
	watcher  *watch.Watcher
	hub      *LiveReloadHub
}

// NewServer wires the preview server to a watcher and metrics recorder.
func NewServer(cfg *config.Config, recorder *metrics.Recorder, watcher *watch.Watcher) *Server {
	return &Server{
		cfg:      cfg,
		recorder: recorder,
		watcher:  watcher,
		hub:      NewLiveReloadHub(recorder),
	}
}

// Run blocks until the context is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	s.watcher.OnBuilt(func(results []build.Result) {
		if len(results) > 0 {
			s.hub.Broadcast(results[0].BuildID)
		}
	})

	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub)
	mux.Handle("/metrics", s.recorder.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.serveContent)

	srv := &http.Server{Addr: s.cfg.Preview.Addr, Handler: mux}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("Preview server listening", "addr", s.cfg.Preview.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() { errCh <- s.watcher.Run(ctx) }()

	select {
	case err := <-errCh:
		s.hub.Close()
		_ = srv.Close()
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("preview server shutdown: %w", err)
	}
	return nil
}

// serveContent serves files from the output directory, appending the
// livereload client to HTML responses. The root path lists all hubs.
func (s *Server) serveContent(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		s.serveIndex(w)
		return
	}

	clean := filepath.Clean(strings.TrimPrefix(r.URL.Path, "/"))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.cfg.Output.Directory, clean)

	if !strings.HasSuffix(path, ".html") {
		http.ServeFile(w, r, path)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
	_, _ = w.Write([]byte(reloadScript))
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>learninghub preview</title></head><body>
<h1>Hubs</h1>
<ul>
{{range .}}<li><a href="/{{.File}}">{{.Title}}</a></li>
{{end}}</ul>
` + reloadScript + `</body></html>
`))

func (s *Server) serveIndex(w http.ResponseWriter) {
	type entry struct{ File, Title string }
	var entries []entry
	for _, h := range s.cfg.Hubs {
		entries = append(entries, entry{
			File:  filepath.Base(h.OutputPath(s.cfg.Output)),
			Title: h.Title,
		})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, entries); err != nil {
		slog.Warn("Failed to render preview index", "error", err)
	}
}
