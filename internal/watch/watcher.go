// Package watch rebuilds hubs when their content directories change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/learninghub/internal/build"
	"git.home.luguber.info/inful/learninghub/internal/config"
)

// Watcher runs an initial build, then watches every hub's content
// directory and rebuilds on change. An optional interval schedule
// triggers rebuilds even without filesystem events (content cloned from
// git has no local events to watch).
type Watcher struct {
	cfg *config.Config
	svc *build.Service

	mu      sync.Mutex
	onBuilt func([]build.Result)
}

// New creates a watcher over the given configuration and build service.
func New(cfg *config.Config, svc *build.Service) *Watcher {
	return &Watcher{cfg: cfg, svc: svc}
}

// OnBuilt registers a callback invoked after every successful rebuild.
// The preview server uses it to broadcast livereload events.
func (w *Watcher) OnBuilt(fn func([]build.Result)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onBuilt = fn
}

// Run blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	// Initial build failures are fatal: watch mode should not start from
	// a broken configuration. Later rebuild failures only log, keeping
	// the last good output on disk.
	results, err := w.svc.BuildAll(ctx, "")
	if err != nil {
		return err
	}
	w.notify(results)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.addContentDirs(watcher); err != nil {
		return err
	}

	debouncer := NewDebouncer(w.cfg.Watch.QuietWindow.Std(), w.cfg.Watch.MaxDelay.Std())
	go debouncer.Run(ctx, func() { w.rebuild(ctx) })

	scheduler, err := w.startSchedule(debouncer)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				slog.Warn("Scheduler shutdown failed", "error", err)
			}
		}()
	}

	slog.Info("Watching for changes",
		"quiet_window", w.cfg.Watch.QuietWindow.Std(),
		"max_delay", w.cfg.Watch.MaxDelay.Std())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isRelevant(event) {
				debouncer.Trigger(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// addContentDirs watches each locally sourced hub's content directory and
// all of its subdirectories.
func (w *Watcher) addContentDirs(watcher *fsnotify.Watcher) error {
	seen := map[string]struct{}{}
	for _, h := range w.cfg.Hubs {
		if h.ContentDir == "" {
			continue // git-sourced hubs have nothing local to watch
		}
		err := filepath.WalkDir(h.ContentDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if _, dup := seen[path]; dup {
				return nil
			}
			seen[path] = struct{}{}
			return watcher.Add(path)
		})
		if err != nil {
			return fmt.Errorf("failed to watch content dir for hub %s: %w", h.Name, err)
		}
	}
	return nil
}

func (w *Watcher) startSchedule(debouncer *Debouncer) (gocron.Scheduler, error) {
	interval := w.cfg.Watch.RebuildEvery.Std()
	if interval <= 0 {
		return nil, nil
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { debouncer.Trigger("schedule") }),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule periodic rebuild: %w", err)
	}
	scheduler.Start()
	slog.Info("Periodic rebuild scheduled", "interval", interval)
	return scheduler, nil
}

func (w *Watcher) rebuild(ctx context.Context) {
	results, err := w.svc.BuildAll(ctx, "")
	if err != nil {
		slog.Error("Rebuild failed", "error", err)
		return
	}
	w.notify(results)
}

func (w *Watcher) notify(results []build.Result) {
	w.mu.Lock()
	fn := w.onBuilt
	w.mu.Unlock()
	if fn != nil {
		fn(results)
	}
}

// isRelevant filters watcher noise down to markdown content changes.
func isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasSuffix(event.Name, ".md")
}
