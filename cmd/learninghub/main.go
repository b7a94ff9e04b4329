package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/learninghub/internal/build"
	"git.home.luguber.info/inful/learninghub/internal/config"
	"git.home.luguber.info/inful/learninghub/internal/history"
	"git.home.luguber.info/inful/learninghub/internal/linkcheck"
	"git.home.luguber.info/inful/learninghub/internal/metrics"
	"git.home.luguber.info/inful/learninghub/internal/notify"
	"git.home.luguber.info/inful/learninghub/internal/preview"
	"git.home.luguber.info/inful/learninghub/internal/watch"
)

const version = "0.3.0"

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"learninghub.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Hub string `help:"Build only the named hub"`
	} `cmd:"" help:"Build all configured hub pages"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Watch struct{} `cmd:"" help:"Build, then rebuild whenever content changes"`

	Preview struct {
		Addr string `help:"Listen address (overrides config)"`
	} `cmd:"" help:"Serve built hubs locally with live reload"`

	Lint struct{} `cmd:"" help:"Check generated hub pages for broken fragment links"`

	History struct {
		Limit int `default:"20" help:"Number of records to show"`
	} `cmd:"" help:"Show recent build history"`

	Version struct{} `cmd:"" help:"Print version"`
}

func main() {
	ctx := kong.Parse(&CLI)

	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild(CLI.Build.Hub)
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "watch":
		err = runWatch()
	case "preview":
		err = runPreview(CLI.Preview.Addr)
	case "lint":
		err = runLint()
	case "history":
		err = runHistory(CLI.History.Limit)
	case "version":
		fmt.Println("learninghub " + version)
	}
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and re-applies the logging setup the
// config asks for, unless -v already forced debug.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}

	level := parseLevel(cfg.Logging.Level)
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return cfg, nil
}

func parseLevel(raw string) slog.Level {
	switch raw {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runBuild(hubName string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, closeFn, err := newService(cfg, false)
	if err != nil {
		return err
	}
	defer closeFn()

	results, err := svc.BuildAll(context.Background(), hubName)
	if err != nil {
		return err
	}
	slog.Info("Build complete", "hubs", len(results))
	return nil
}

func runWatch() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, closeFn, err := newService(cfg, true)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return watch.New(cfg, svc).Run(ctx)
}

func runPreview(addr string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Preview.Addr = addr
	}

	recorder := metrics.NewRecorder()
	svc, closeFn, err := newService(cfg, true)
	if err != nil {
		return err
	}
	defer closeFn()
	svc.WithRecorder(recorder)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher := watch.New(cfg, svc)
	return preview.NewServer(cfg, recorder, watcher).Run(ctx)
}

func runLint() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var paths []string
	for _, h := range cfg.Hubs {
		paths = append(paths, h.OutputPath(cfg.Output))
	}
	issues, err := linkcheck.Check(paths)
	for _, issue := range issues {
		fmt.Println(issue)
	}
	return err
}

func runHistory(limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Disabled {
		return fmt.Errorf("build history is disabled in configuration")
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no builds recorded yet")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %-8s %-20s %3d modules  %8s  %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Status, r.Hub, r.Modules, r.Duration.Round(time.Millisecond), r.Output)
	}
	return nil
}

// newService assembles a build service with history recording and, when
// withNotify is set and a broker is configured, NATS event publishing.
func newService(cfg *config.Config, withNotify bool) (*build.Service, func(), error) {
	svc := build.NewService(cfg)
	var closers []func()

	if !cfg.History.Disabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		svc.WithHistory(store)
		closers = append(closers, func() { _ = store.Close() })
	}

	if withNotify && cfg.Notify.NATSURL != "" {
		publisher, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		svc.WithPublisher(publisher)
		closers = append(closers, publisher.Close)
	}

	closeFn := func() {
		for _, c := range closers {
			c()
		}
	}
	return svc, closeFn, nil
}
