// Package hub models a learning-hub page: an ordered, immutable list of
// rendered modules bucketed into named navigation groups, assembled into
// one self-contained HTML document.
package hub

import (
	"html/template"
	"strings"
)

// Module is one markdown source file's rendered representation plus its
// display metadata. IDs are derived from document order and are unique
// within one build.
type Module struct {
	Index    int
	ID       string // "module-<Index>"
	Title    string
	Filename string
	Fragment template.HTML
}

// NavGroup is a named bucket over a contiguous slice of modules, used to
// organize the sidebar.
type NavGroup struct {
	Title   string
	Modules []Module
}

// Page is the fully assembled document model handed to the template.
type Page struct {
	Title       string
	SiteTitle   string
	Search      bool
	KeyboardNav bool
	Groups      []NavGroup
}

// Modules returns every module of the page in document order.
func (p Page) Modules() []Module {
	var all []Module
	for _, g := range p.Groups {
		all = append(all, g.Modules...)
	}
	return all
}

// ModuleCount returns the number of modules across all groups.
func (p Page) ModuleCount() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Modules)
	}
	return n
}

// DisplayTitle derives a module title from its filename: the .md
// extension is stripped and underscores become spaces, nothing else.
func DisplayTitle(filename string) string {
	title := strings.TrimSuffix(filename, ".md")
	return strings.ReplaceAll(title, "_", " ")
}
