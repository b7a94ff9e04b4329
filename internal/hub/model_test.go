package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"01_Intro.md", "01 Intro"},
		{"02_Basics.md", "02 Basics"},
		{"Advanced_Topics_Deep_Dive.md", "Advanced Topics Deep Dive"},
		{"NoUnderscores.md", "NoUnderscores"},
		{"no_extension", "no extension"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayTitle(tt.filename), "filename %q", tt.filename)
	}
}

func TestPageModulesFlattensGroupsInOrder(t *testing.T) {
	page := Page{
		Groups: []NavGroup{
			{Title: "A", Modules: []Module{{Index: 0, ID: "module-0"}, {Index: 1, ID: "module-1"}}},
			{Title: "B", Modules: []Module{{Index: 2, ID: "module-2"}}},
		},
	}
	all := page.Modules()
	assert.Len(t, all, 3)
	assert.Equal(t, "module-0", all[0].ID)
	assert.Equal(t, "module-2", all[2].ID)
	assert.Equal(t, 3, page.ModuleCount())
}
