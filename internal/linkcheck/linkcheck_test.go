package linkcheck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHTML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckFileResolvedFragments(t *testing.T) {
	path := writeHTML(t, "ok.html", `<html><body>
<a href="#module-0">Intro</a>
<div id="module-0">content</div>
<a href="https://example.com/page#external">external links are ignored</a>
</body></html>`)

	issues, err := CheckFile(path)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestCheckFileBrokenFragment(t *testing.T) {
	path := writeHTML(t, "broken.html", `<html><body>
<a href="#module-0">Intro</a>
<a href="#module-9">Missing</a>
<div id="module-0">content</div>
</body></html>`)

	issues, err := CheckFile(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "module-9", issues[0].Fragment)
	assert.Contains(t, issues[0].String(), "module-9")
}

func TestCheckAggregates(t *testing.T) {
	good := writeHTML(t, "good.html", `<a href="#a">x</a><div id="a"></div>`)
	bad := writeHTML(t, "bad.html", `<a href="#gone">x</a>`)

	issues, err := Check([]string{good, bad})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBrokenLinks))
	assert.Len(t, issues, 1)
}

func TestCheckFileMissingFile(t *testing.T) {
	_, err := CheckFile(filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
}
