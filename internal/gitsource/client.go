// Package gitsource clones hub content repositories into throwaway
// workspace directories at build time.
package gitsource

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"git.home.luguber.info/inful/learninghub/internal/config"
)

// Workspace is a timestamped temporary directory holding cloned content.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh workspace directory under the system temp dir.
func NewWorkspace() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), fmt.Sprintf("learninghub-%s", time.Now().Format("20060102-150405")))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory: %w", err)
	}
	slog.Debug("Created workspace", "path", dir)
	return &Workspace{dir: dir}, nil
}

// Cleanup removes the workspace directory.
func (w *Workspace) Cleanup() error {
	if w.dir == "" {
		return nil
	}
	return os.RemoveAll(w.dir)
}

// Clone clones the hub's content repository into the workspace and
// returns the directory holding its markdown files (the configured
// subpath inside the clone).
func (w *Workspace) Clone(name string, src config.GitSource) (string, error) {
	repoPath := filepath.Join(w.dir, name)
	if err := os.RemoveAll(repoPath); err != nil {
		return "", fmt.Errorf("failed to remove existing clone: %w", err)
	}

	opts := &git.CloneOptions{
		URL:          src.URL,
		SingleBranch: true,
		Depth:        1,
	}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + src.Branch)
	}
	if src.Token != "" {
		opts.Auth = &http.BasicAuth{Username: "token", Password: src.Token}
	}

	slog.Debug("Cloning content repository", "url", src.URL, "branch", src.Branch, "path", repoPath)
	repo, err := git.PlainClone(repoPath, false, opts)
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", src.URL, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Content repository cloned", "url", src.URL, "commit", ref.Hash().String()[:8])
	}

	contentDir := repoPath
	if src.Path != "" {
		contentDir = filepath.Join(repoPath, src.Path)
	}
	if _, err := os.Stat(contentDir); err != nil {
		return "", fmt.Errorf("content path %q not found in clone: %w", src.Path, err)
	}
	return contentDir, nil
}
