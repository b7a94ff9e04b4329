package watch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/learninghub/internal/config"
)

func TestIsRelevant(t *testing.T) {
	assert.True(t, isRelevant(fsnotify.Event{Name: "content/01_Intro.md", Op: fsnotify.Write}))
	assert.True(t, isRelevant(fsnotify.Event{Name: "content/01_Intro.md", Op: fsnotify.Create}))
	assert.False(t, isRelevant(fsnotify.Event{Name: "content/.01_Intro.md.swp", Op: fsnotify.Write}))
	assert.False(t, isRelevant(fsnotify.Event{Name: "content/01_Intro.md", Op: fsnotify.Chmod}))
}

func TestAddContentDirsWalksSubdirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "content", "extras"), 0o750))

	cfg := &config.Config{Hubs: []config.Hub{
		{Name: "demo", ContentDir: filepath.Join(root, "content")},
		{Name: "remote"}, // git-sourced, nothing local to watch
	}}
	w := New(cfg, nil)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, w.addContentDirs(watcher))
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "content"),
		filepath.Join(root, "content", "extras"),
	}, watcher.WatchList())
}

func TestAddContentDirsMissingDirFails(t *testing.T) {
	cfg := &config.Config{Hubs: []config.Hub{
		{Name: "demo", ContentDir: filepath.Join(t.TempDir(), "missing")},
	}}
	w := New(cfg, nil)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.Error(t, w.addContentDirs(watcher))
}
