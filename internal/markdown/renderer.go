// Package markdown renders markdown documents to HTML fragments.
//
// Two engines exist. The classic engine reproduces the output of the
// original converter scripts exactly: a fixed, ordered sequence of regex
// substitutions over the whole text, each pass consuming the output of
// the previous one. It recognizes fenced code blocks, #/##/### headers,
// **bold**, optional `inline code`, "- " list items and paragraphs, and
// nothing else. Unrecognized syntax passes through verbatim and the
// engine never fails. The goldmark engine renders standard CommonMark
// for hubs that do not need byte compatibility.
package markdown

import (
	"regexp"
	"strings"
)

// Renderer converts one markdown document into an HTML fragment.
type Renderer interface {
	Render(source string) (string, error)
}

// Options tune the classic engine. The two original converters differed
// only in the inline-code pass; FixLists replaces the legacy whole-document
// list wrap with per-run wrapping.
type Options struct {
	InlineCode bool
	FixLists   bool
}

// Classic is the regex-substitution engine.
type Classic struct {
	Opts Options
}

var (
	fenceRe      = regexp.MustCompile("(?s)```(\\w*)[ \\t]*\\n(.*?)```")
	h3Re         = regexp.MustCompile(`(?m)^### (.*)$`)
	h2Re         = regexp.MustCompile(`(?m)^## (.*)$`)
	h1Re         = regexp.MustCompile(`(?m)^# (.*)$`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	inlineCodeRe = regexp.MustCompile("`(.*?)`")
	listItemRe   = regexp.MustCompile(`(?m)^- (.*)$`)
	// Greedy dot-all: spans from the first <li> to the last </li> in the
	// entire document. That is the documented legacy behavior, including
	// swallowing non-list content between separate lists.
	listSpanRe = regexp.MustCompile(`(?s)<li>.*</li>`)
	// Per-run alternative: consecutive <li> lines only.
	listRunRe = regexp.MustCompile(`(?:<li>.*</li>\n?)+`)
)

// Render applies the substitution passes in order. It never returns an error.
func (c Classic) Render(source string) (string, error) {
	out := renderFences(source)
	out = h3Re.ReplaceAllString(out, "<h3>$1</h3>")
	out = h2Re.ReplaceAllString(out, "<h2>$1</h2>")
	out = h1Re.ReplaceAllString(out, "<h1>$1</h1>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	if c.Opts.InlineCode {
		out = inlineCodeRe.ReplaceAllString(out, "<code>$1</code>")
	}
	out = listItemRe.ReplaceAllString(out, "<li>$1</li>")
	if c.Opts.FixLists {
		out = listRunRe.ReplaceAllStringFunc(out, wrapListRun)
	} else {
		out = wrapListSpan(out)
	}
	return wrapParagraphs(out), nil
}

func renderFences(source string) string {
	return fenceRe.ReplaceAllStringFunc(source, func(match string) string {
		sub := fenceRe.FindStringSubmatch(match)
		lang := sub[1]
		if lang == "" {
			lang = "text"
		}
		body := EscapeHTML(strings.TrimSpace(sub[2]))
		return `<pre><code class="language-` + lang + `">` + body + `</code></pre>`
	})
}

// wrapListSpan inserts exactly one <ul> around the maximal <li>...</li>
// span of the whole document.
func wrapListSpan(text string) string {
	loc := listSpanRe.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + "<ul>" + text[loc[0]:loc[1]] + "</ul>" + text[loc[1]:]
}

// wrapListRun wraps one contiguous run of <li> lines, keeping the run's
// trailing newline outside the </ul> so paragraph splitting still sees
// blank-line boundaries.
func wrapListRun(run string) string {
	trailing := ""
	if strings.HasSuffix(run, "\n") {
		run = strings.TrimSuffix(run, "\n")
		trailing = "\n"
	}
	return "<ul>\n" + run + "\n</ul>" + trailing
}

// wrapParagraphs splits on blank lines and wraps plain-text blocks in <p>.
// Blocks already starting with a tag pass through; blocks are rejoined
// with single newlines.
func wrapParagraphs(text string) string {
	blocks := strings.Split(text, "\n\n")
	for i, block := range blocks {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" || strings.HasPrefix(trimmed, "<") {
			blocks[i] = trimmed
			continue
		}
		blocks[i] = "<p>" + trimmed + "</p>"
	}
	return strings.Join(blocks, "\n")
}

// EscapeHTML escapes code-block bodies. Ampersand goes first so entities
// introduced by the later replacements are not double-escaped.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}
