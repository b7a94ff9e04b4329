package config

import (
	"fmt"
	"os"
)

// exampleConfig mirrors the original pair of converter scripts: one hub
// with inline-code rendering enabled, one without.
const exampleConfig = `# learninghub configuration
site:
  title: My Learning Hubs

output:
  directory: ./public

logging:
  level: info
  format: text

# watch:
#   quiet_window: 500ms
#   max_delay: 5s
#   rebuild_every: 30m

# preview:
#   addr: 127.0.0.1:8787

# notify:
#   nats_url: nats://localhost:4222
#   subject: learninghub.builds

hubs:
  - name: ai-learning
    title: AI Learning Hub
    content_dir: content/ai
    renderer: classic
    search: true
    groups:
      - title: Foundations
        files:
          - 01_Intro.md
          - 02_Basics.md
      - title: Advanced
        files:
          - 03_Advanced.md

  - name: backend-learning
    title: Backend Learning Hub
    content_dir: content/backend
    renderer: classic
    inline_code: true
    keyboard_nav: true
    groups:
      - title: Core
        files:
          - 01_HTTP.md
          - 02_Databases.md
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
