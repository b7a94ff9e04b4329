package hub

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPage() Page {
	return Page{
		Title:     "Test Hub",
		SiteTitle: "Site",
		Groups: []NavGroup{
			{Title: "Foundations", Modules: []Module{
				{Index: 0, ID: "module-0", Title: "01 Intro", Filename: "01_Intro.md", Fragment: "<p>intro</p>"},
				{Index: 1, ID: "module-1", Title: "02 Basics", Filename: "02_Basics.md", Fragment: "<p>basics</p>"},
			}},
			{Title: "Advanced", Modules: []Module{
				{Index: 2, ID: "module-2", Title: "03 Advanced", Filename: "03_Advanced.md", Fragment: "<p>advanced</p>"},
			}},
		},
	}
}

func renderPage(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.WriteDocument(&buf))
	return buf.String()
}

func TestWriteDocumentStructure(t *testing.T) {
	out := renderPage(t, testPage())

	// One content div per module, first one visible.
	assert.Contains(t, out, `<div class="module active" id="module-0">`)
	assert.Contains(t, out, `<div class="module" id="module-1">`)
	assert.Contains(t, out, `<div class="module" id="module-2">`)

	// Sidebar links carry the display titles and group headings.
	assert.Contains(t, out, ">01 Intro</a>")
	assert.Contains(t, out, ">02 Basics</a>")
	assert.Contains(t, out, ">03 Advanced</a>")
	assert.Contains(t, out, "<h4>Foundations</h4>")
	assert.Contains(t, out, "<h4>Advanced</h4>")

	// Fragments are embedded unescaped.
	assert.Contains(t, out, "<p>intro</p>")

	// Progress bar and scroll-to-top are always present.
	assert.Contains(t, out, `id="progress"`)
	assert.Contains(t, out, `id="to-top"`)
}

func TestWriteDocumentOptionalFeatures(t *testing.T) {
	p := testPage()
	out := renderPage(t, p)
	// The static CSS block always carries the .nav-search rule; only the
	// input element and its filter script are gated by the Search flag.
	assert.NotContains(t, out, `id="nav-search"`)
	assert.NotContains(t, out, "nav-search').addEventListener")
	assert.NotContains(t, out, "ArrowRight")

	p.Search = true
	p.KeyboardNav = true
	out = renderPage(t, p)
	assert.Contains(t, out, `id="nav-search"`)
	assert.Contains(t, out, "ArrowRight")
}

func TestWriteDocumentNavOrderMatchesDocumentOrder(t *testing.T) {
	out := renderPage(t, testPage())
	intro := strings.Index(out, ">01 Intro</a>")
	basics := strings.Index(out, ">02 Basics</a>")
	advanced := strings.Index(out, ">03 Advanced</a>")
	require.True(t, intro >= 0 && basics >= 0 && advanced >= 0)
	assert.Less(t, intro, basics)
	assert.Less(t, basics, advanced)
}
