// Package linkcheck verifies that fragment links inside generated hub
// pages resolve to element ids in the same document.
package linkcheck

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ErrBrokenLinks is returned by Check when at least one issue was found.
var ErrBrokenLinks = errors.New("broken fragment links found")

// Issue is one unresolved fragment link.
type Issue struct {
	File     string
	Fragment string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: link target %q does not exist", i.File, i.Fragment)
}

// CheckFile parses one HTML file and reports fragment links with no
// matching element id.
func CheckFile(path string) ([]Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	ids := map[string]struct{}{}
	var fragments []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				switch attr.Key {
				case "id":
					ids[attr.Val] = struct{}{}
				case "href":
					if strings.HasPrefix(attr.Val, "#") && len(attr.Val) > 1 {
						fragments = append(fragments, attr.Val[1:])
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var issues []Issue
	for _, frag := range fragments {
		if _, ok := ids[frag]; !ok {
			issues = append(issues, Issue{File: path, Fragment: frag})
		}
	}
	return issues, nil
}

// Check runs CheckFile over every path and aggregates the findings.
// It returns ErrBrokenLinks when any issue exists.
func Check(paths []string) ([]Issue, error) {
	var all []Issue
	for _, path := range paths {
		issues, err := CheckFile(path)
		if err != nil {
			return all, err
		}
		all = append(all, issues...)
	}
	if len(all) > 0 {
		return all, fmt.Errorf("%w: %d issue(s)", ErrBrokenLinks, len(all))
	}
	return all, nil
}
