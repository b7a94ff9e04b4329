package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level learninghub configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Hubs    []Hub         `yaml:"hubs"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
	Preview PreviewConfig `yaml:"preview"`
	Notify  NotifyConfig  `yaml:"notify"`
	History HistoryConfig `yaml:"history"`
}

// SiteConfig carries metadata shared by all generated hub pages.
type SiteConfig struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author,omitempty"`
}

// Hub describes one learning-hub page: an ordered set of markdown files
// grouped for sidebar navigation, rendered into a single HTML document.
type Hub struct {
	Name        string        `yaml:"name"`
	Title       string        `yaml:"title,omitempty"` // page title, defaults to Name
	ContentDir  string        `yaml:"content_dir,omitempty"`
	Source      *SourceConfig `yaml:"source,omitempty"`
	Output      string        `yaml:"output,omitempty"` // defaults to <output.directory>/<name>.html
	Renderer    RenderEngine  `yaml:"renderer,omitempty"`
	InlineCode  bool          `yaml:"inline_code,omitempty"`
	FixLists    bool          `yaml:"fix_lists,omitempty"`
	Search      bool          `yaml:"search,omitempty"`
	KeyboardNav bool          `yaml:"keyboard_nav,omitempty"`
	Groups      []Group       `yaml:"groups"`
}

// Group is a named navigation bucket over a contiguous slice of module files.
type Group struct {
	Title string   `yaml:"title"`
	Files []string `yaml:"files"`
}

// Files returns every module filename of the hub in document order.
func (h Hub) Files() []string {
	var files []string
	for _, g := range h.Groups {
		files = append(files, g.Files...)
	}
	return files
}

// OutputPath resolves the hub's output file against the global output directory.
func (h Hub) OutputPath(out OutputConfig) string {
	if h.Output != "" {
		return h.Output
	}
	return filepath.Join(out.Directory, h.Name+".html")
}

// SourceConfig selects where a hub's markdown files come from.
// When Git is set the content is cloned at build time; otherwise
// ContentDir on the hub is used directly.
type SourceConfig struct {
	Git *GitSource `yaml:"git,omitempty"`
}

// GitSource describes a content repository to clone before building.
type GitSource struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"` // subdirectory holding the markdown files
	Token  string `yaml:"token,omitempty"`
}

// OutputConfig controls where generated pages are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// LoggingConfig controls slog level and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // "text" or "json"
}

// WatchConfig tunes the rebuild debouncer used by watch and preview modes.
type WatchConfig struct {
	QuietWindow  Duration `yaml:"quiet_window,omitempty"`
	MaxDelay     Duration `yaml:"max_delay,omitempty"`
	RebuildEvery Duration `yaml:"rebuild_every,omitempty"` // optional periodic rebuild, 0 disables
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// NotifyConfig enables NATS build-event publishing when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig locates the build-history database. An empty path after
// defaulting disables history recording.
type HistoryConfig struct {
	Path     string `yaml:"path,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Duration is a time.Duration that unmarshals from YAML strings like "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads, expands and validates the configuration file.
func Load(configPath string) (*Config, error) {
	// Load .env if present so ${VAR} expansion below can see it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file couldn't be loaded: %v\n", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Learning Hub"
	}
	if c.Output.Directory == "" {
		c.Output.Directory = "./public"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Watch.QuietWindow == 0 {
		c.Watch.QuietWindow = Duration(500 * time.Millisecond)
	}
	if c.Watch.MaxDelay == 0 {
		c.Watch.MaxDelay = Duration(5 * time.Second)
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = "127.0.0.1:8787"
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = "learninghub.builds"
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(".learninghub", "history.db")
	}
	for i := range c.Hubs {
		hub := &c.Hubs[i]
		if hub.Title == "" {
			hub.Title = hub.Name
		}
		hub.Renderer = NormalizeEngine(string(hub.Renderer))
		if hub.Source != nil && hub.Source.Git != nil && hub.Source.Git.Branch == "" {
			hub.Source.Git.Branch = "main"
		}
	}
}
