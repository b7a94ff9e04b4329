package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "learninghub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
hubs:
  - name: demo
    content_dir: content
    groups:
      - title: Core
        files: [01_Intro.md]
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "Learning Hub", cfg.Site.Title)
	assert.Equal(t, "./public", cfg.Output.Directory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.QuietWindow.Std())
	assert.Equal(t, 5*time.Second, cfg.Watch.MaxDelay.Std())
	assert.Equal(t, "127.0.0.1:8787", cfg.Preview.Addr)
	assert.Equal(t, "learninghub.builds", cfg.Notify.Subject)

	hub := cfg.Hubs[0]
	assert.Equal(t, EngineClassic, hub.Renderer)
	assert.Equal(t, "demo", hub.Title)
	assert.Equal(t, filepath.Join("./public", "demo.html"), hub.OutputPath(cfg.Output))
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("HUB_CONTENT", "/srv/content")
	cfg, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: ${HUB_CONTENT}
    groups:
      - title: Core
        files: [01_Intro.md]
`))
	require.NoError(t, err)
	assert.Equal(t, "/srv/content", cfg.Hubs[0].ContentDir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadParsesDurations(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
watch:
  quiet_window: 250ms
  max_delay: 10s
  rebuild_every: 30m
`))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Watch.QuietWindow.Std())
	assert.Equal(t, 10*time.Second, cfg.Watch.MaxDelay.Std())
	assert.Equal(t, 30*time.Minute, cfg.Watch.RebuildEvery.Std())
}

func TestValidateRejectsDuplicateHubNames(t *testing.T) {
	_, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: content
    groups: [{title: A, files: [a.md]}]
  - name: demo
    content_dir: content
    groups: [{title: B, files: [b.md]}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate hub name")
}

func TestValidateRejectsUnknownRenderer(t *testing.T) {
	_, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: content
    renderer: pandoc
    groups: [{title: A, files: [a.md]}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown renderer")
}

func TestValidateRequiresGroups(t *testing.T) {
	_, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: content
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one group")
}

func TestValidateRequiresMarkdownFiles(t *testing.T) {
	_, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: content
    groups: [{title: A, files: [notes.txt]}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a markdown file")
}

func TestValidateGitSourceNeedsURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
hubs:
  - name: demo
    source:
      git: {branch: main}
    groups: [{title: A, files: [a.md]}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git source requires a url")
}

func TestHubFilesFlattensGroups(t *testing.T) {
	h := Hub{Groups: []Group{
		{Title: "A", Files: []string{"1.md", "2.md"}},
		{Title: "B", Files: []string{"3.md"}},
	}}
	assert.Equal(t, []string{"1.md", "2.md", "3.md"}, h.Files())
}

func TestNormalizeEngine(t *testing.T) {
	assert.Equal(t, EngineGoldmark, NormalizeEngine(" Goldmark "))
	assert.Equal(t, EngineClassic, NormalizeEngine("Classic"))
	assert.Equal(t, EngineClassic, NormalizeEngine(""))
	// Unknown values pass through for validation to reject.
	assert.Equal(t, RenderEngine("bogus"), NormalizeEngine("bogus"))
}

func TestLoadNormalizesRendererCase(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
hubs:
  - name: demo
    content_dir: content
    renderer: " GOLDMARK "
    groups: [{title: A, files: [a.md]}]
`))
	require.NoError(t, err)
	assert.Equal(t, EngineGoldmark, cfg.Hubs[0].Renderer)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learninghub.yaml")
	require.NoError(t, Init(path, false))

	// Refuses to overwrite without force.
	err := Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Hubs, 2)
	assert.False(t, cfg.Hubs[0].InlineCode)
	assert.True(t, cfg.Hubs[1].InlineCode)
}
