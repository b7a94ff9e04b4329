package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for structural problems that would
// make a build meaningless. It does not touch the filesystem; missing
// content files are a build-time failure, not a config error.
func (c *Config) Validate() error {
	if len(c.Hubs) == 0 {
		return fmt.Errorf("config: at least one hub must be defined")
	}

	seen := make(map[string]struct{}, len(c.Hubs))
	for i, hub := range c.Hubs {
		if hub.Name == "" {
			return fmt.Errorf("config: hub %d has no name", i)
		}
		if strings.ContainsAny(hub.Name, "/\\") {
			return fmt.Errorf("config: hub %q: name must not contain path separators", hub.Name)
		}
		if _, dup := seen[hub.Name]; dup {
			return fmt.Errorf("config: duplicate hub name %q", hub.Name)
		}
		seen[hub.Name] = struct{}{}

		if !hub.Renderer.Valid() {
			return fmt.Errorf("config: hub %q: unknown renderer %q (expected %q or %q)",
				hub.Name, hub.Renderer, EngineClassic, EngineGoldmark)
		}

		hasGit := hub.Source != nil && hub.Source.Git != nil
		if hasGit && hub.Source.Git.URL == "" {
			return fmt.Errorf("config: hub %q: git source requires a url", hub.Name)
		}
		if !hasGit && hub.ContentDir == "" {
			return fmt.Errorf("config: hub %q: content_dir is required without a git source", hub.Name)
		}

		if len(hub.Groups) == 0 {
			return fmt.Errorf("config: hub %q: at least one group is required", hub.Name)
		}
		for gi, group := range hub.Groups {
			if len(group.Files) == 0 {
				return fmt.Errorf("config: hub %q: group %d (%q) lists no files", hub.Name, gi, group.Title)
			}
			for _, f := range group.Files {
				if !strings.HasSuffix(f, ".md") {
					return fmt.Errorf("config: hub %q: %q is not a markdown file", hub.Name, f)
				}
			}
		}
	}
	return nil
}
