// Package build runs hub builds: it resolves content sources, renders
// every listed markdown module, assembles the hub page and writes it to
// the output path.
package build

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/learninghub/internal/config"
	"git.home.luguber.info/inful/learninghub/internal/gitsource"
	"git.home.luguber.info/inful/learninghub/internal/history"
	"git.home.luguber.info/inful/learninghub/internal/hub"
	"git.home.luguber.info/inful/learninghub/internal/markdown"
	"git.home.luguber.info/inful/learninghub/internal/metrics"
	"git.home.luguber.info/inful/learninghub/internal/notify"
)

// Result summarizes one hub build.
type Result struct {
	BuildID  string
	Hub      string
	Modules  int
	Groups   int
	Output   string
	Duration time.Duration
}

// Service builds hubs from configuration. Recorder, history store and
// publisher are optional collaborators.
type Service struct {
	cfg       *config.Config
	recorder  *metrics.Recorder
	store     *history.Store
	publisher notify.Publisher
}

// NewService creates a build service for the given configuration.
func NewService(cfg *config.Config) *Service {
	return &Service{cfg: cfg}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (s *Service) WithRecorder(r *metrics.Recorder) *Service { s.recorder = r; return s }

// WithHistory attaches a build history store.
func (s *Service) WithHistory(st *history.Store) *Service { s.store = st; return s }

// WithPublisher attaches a build event publisher.
func (s *Service) WithPublisher(p notify.Publisher) *Service { s.publisher = p; return s }

// BuildAll builds every configured hub, or only the named one when
// hubName is non-empty. The first failing hub aborts the run; a missing
// input file is fatal by design, there is no partial output for that hub.
func (s *Service) BuildAll(ctx context.Context, hubName string) ([]Result, error) {
	var results []Result
	matched := false
	for _, h := range s.cfg.Hubs {
		if hubName != "" && h.Name != hubName {
			continue
		}
		matched = true
		res, err := s.BuildHub(ctx, h)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	if hubName != "" && !matched {
		return nil, fmt.Errorf("hub %q not found in configuration", hubName)
	}
	return results, nil
}

// BuildHub builds one hub page.
func (s *Service) BuildHub(ctx context.Context, h config.Hub) (Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	slog.Info("Building hub", "hub", h.Name, "build_id", buildID, "renderer", h.Renderer)

	res, err := s.buildHub(ctx, h, buildID)
	res.BuildID = buildID
	res.Hub = h.Name
	res.Duration = time.Since(start)

	if s.recorder != nil {
		s.recorder.ObserveBuild(res.Duration, err)
		if err == nil {
			s.recorder.AddModules(res.Modules)
		}
	}
	s.record(ctx, res, err)

	if err != nil {
		return res, fmt.Errorf("hub %s: %w", h.Name, err)
	}
	slog.Info("Hub built",
		"hub", h.Name,
		"modules", res.Modules,
		"groups", res.Groups,
		"output", res.Output,
		"duration", res.Duration)
	return res, nil
}

func (s *Service) buildHub(ctx context.Context, h config.Hub, buildID string) (Result, error) {
	res := Result{Output: h.OutputPath(s.cfg.Output)}

	contentDir, cleanup, err := s.resolveContentDir(h)
	if err != nil {
		return res, err
	}
	defer cleanup()

	renderer := rendererFor(h)

	page := hub.Page{
		Title:       h.Title,
		SiteTitle:   s.cfg.Site.Title,
		Search:      h.Search,
		KeyboardNav: h.KeyboardNav,
	}

	index := 0
	for _, group := range h.Groups {
		navGroup := hub.NavGroup{Title: group.Title}
		for _, filename := range group.Files {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			module, err := renderModule(contentDir, filename, index, renderer)
			if err != nil {
				return res, err
			}
			slog.Info("Converted module", "hub", h.Name, "file", filename, "id", module.ID)
			navGroup.Modules = append(navGroup.Modules, module)
			index++
		}
		slog.Info("Navigation group assembled", "hub", h.Name, "group", group.Title, "modules", len(navGroup.Modules))
		page.Groups = append(page.Groups, navGroup)
	}
	res.Modules = page.ModuleCount()
	res.Groups = len(page.Groups)

	if err := writePage(res.Output, page); err != nil {
		return res, err
	}
	return res, nil
}

// resolveContentDir returns the directory holding the hub's markdown
// files, cloning the content repository first when one is configured.
func (s *Service) resolveContentDir(h config.Hub) (string, func(), error) {
	noop := func() {}
	if h.Source == nil || h.Source.Git == nil {
		return h.ContentDir, noop, nil
	}

	ws, err := gitsource.NewWorkspace()
	if err != nil {
		return "", noop, err
	}
	cleanup := func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", "hub", h.Name, "error", err)
		}
	}
	contentDir, err := ws.Clone(h.Name, *h.Source.Git)
	if err != nil {
		cleanup()
		return "", noop, err
	}
	return contentDir, cleanup, nil
}

func renderModule(contentDir, filename string, index int, renderer markdown.Renderer) (hub.Module, error) {
	path := filepath.Join(contentDir, filename)
	raw, err := os.ReadFile(path)
	if err != nil {
		return hub.Module{}, fmt.Errorf("failed to read module file %s: %w", path, err)
	}
	fragment, err := renderer.Render(string(raw))
	if err != nil {
		return hub.Module{}, fmt.Errorf("failed to render %s: %w", filename, err)
	}
	return hub.Module{
		Index:    index,
		ID:       fmt.Sprintf("module-%d", index),
		Title:    hub.DisplayTitle(filename),
		Filename: filename,
		Fragment: template.HTML(fragment),
	}, nil
}

func writePage(outputPath string, page hub.Page) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := page.WriteDocument(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write hub document: %w", err)
	}
	return f.Close()
}

func rendererFor(h config.Hub) markdown.Renderer {
	if h.Renderer == config.EngineGoldmark {
		return markdown.NewGoldmark()
	}
	return markdown.Classic{Opts: markdown.Options{
		InlineCode: h.InlineCode,
		FixLists:   h.FixLists,
	}}
}

// record persists the build outcome to history and notifies subscribers.
// Both are best effort; a full page on disk is the real deliverable.
func (s *Service) record(ctx context.Context, res Result, buildErr error) {
	status := "success"
	if buildErr != nil {
		status = "failure"
	}
	if s.store != nil {
		rec := history.Record{
			BuildID:   res.BuildID,
			Hub:       res.Hub,
			Status:    status,
			Modules:   res.Modules,
			Output:    res.Output,
			Duration:  res.Duration,
			Timestamp: time.Now(),
		}
		if err := s.store.Append(ctx, rec); err != nil {
			slog.Warn("Failed to record build history", "hub", res.Hub, "error", err)
		}
	}
	if s.publisher != nil {
		event := notify.BuildEvent{
			BuildID:   res.BuildID,
			Hub:       res.Hub,
			Status:    status,
			Modules:   res.Modules,
			Output:    res.Output,
			Timestamp: time.Now(),
		}
		if err := s.publisher.Publish(event); err != nil {
			slog.Warn("Failed to publish build event", "hub", res.Hub, "error", err)
		}
	}
}
