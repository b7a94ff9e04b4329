package hub

import (
	"html/template"
	"io"
)

// WriteDocument renders the page into one self-contained HTML document:
// inline CSS, inline JS, sidebar navigation and one hidden content div
// per module with the first module visible on load.
func (p Page) WriteDocument(w io.Writer) error {
	return pageTmpl.Execute(w, p)
}

var pageTmpl = template.Must(template.New("hub").Parse(pageTemplate))

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.SiteTitle}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; line-height: 1.6; color: #1f2933; background: #f5f7fa; }
.layout { display: flex; min-height: 100vh; }
.sidebar { width: 280px; background: #102a43; color: #d9e2ec; padding: 24px 0; position: fixed; top: 0; bottom: 0; overflow-y: auto; }
.sidebar h1 { font-size: 1.1rem; padding: 0 20px 16px; border-bottom: 1px solid #243b53; }
.sidebar h4 { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.08em; color: #829ab1; padding: 18px 20px 6px; }
.nav-link { display: block; padding: 7px 20px; color: #d9e2ec; text-decoration: none; font-size: 0.9rem; border-left: 3px solid transparent; }
.nav-link:hover { background: #243b53; }
.nav-link.active { background: #243b53; border-left-color: #4098d7; color: #fff; }
.nav-search { width: calc(100% - 40px); margin: 12px 20px 0; padding: 6px 10px; border: 1px solid #243b53; border-radius: 4px; background: #243b53; color: #d9e2ec; }
.content { margin-left: 280px; padding: 40px 48px; max-width: 920px; width: 100%; }
.module { display: none; }
.module.active { display: block; }
.module h1 { font-size: 1.8rem; margin-bottom: 16px; }
.module h2 { font-size: 1.4rem; margin: 24px 0 12px; }
.module h3 { font-size: 1.15rem; margin: 20px 0 10px; }
.module p { margin-bottom: 12px; }
.module ul { margin: 0 0 12px 24px; }
.module pre { background: #102a43; color: #d9e2ec; padding: 14px 16px; border-radius: 6px; overflow-x: auto; margin-bottom: 14px; font-size: 0.85rem; }
.module code { font-family: 'SF Mono', Menlo, Consolas, monospace; }
.module p code, .module li code { background: #e1e7ee; padding: 1px 5px; border-radius: 3px; font-size: 0.85em; }
#progress { position: fixed; top: 0; left: 0; height: 3px; width: 0; background: #4098d7; z-index: 10; }
#to-top { position: fixed; right: 24px; bottom: 24px; width: 40px; height: 40px; border: none; border-radius: 50%; background: #4098d7; color: #fff; font-size: 1.1rem; cursor: pointer; display: none; }
</style>
</head>
<body>
<div id="progress"></div>
<div class="layout">
<nav class="sidebar">
<h1>{{.Title}}</h1>
{{if .Search}}<input type="text" class="nav-search" id="nav-search" placeholder="Filter modules...">{{end}}
{{range .Groups}}
<h4>{{.Title}}</h4>
{{range .Modules}}<a href="#" class="nav-link{{if eq .Index 0}} active{{end}}" data-module="{{.ID}}">{{.Title}}</a>
{{end}}{{end}}
</nav>
<main class="content">
{{range .Modules}}<div class="module{{if eq .Index 0}} active{{end}}" id="{{.ID}}">
{{.Fragment}}
</div>
{{end}}
</main>
</div>
<button id="to-top" title="Scroll to top">&uarr;</button>
<script>
var links = Array.prototype.slice.call(document.querySelectorAll('.nav-link'));
var modules = Array.prototype.slice.call(document.querySelectorAll('.module'));
var current = 0;

function showModule(index) {
  if (index < 0 || index >= modules.length) { return; }
  current = index;
  modules.forEach(function (m, i) { m.classList.toggle('active', i === index); });
  links.forEach(function (a, i) { a.classList.toggle('active', i === index); });
  window.scrollTo(0, 0);
}

links.forEach(function (a, i) {
  a.addEventListener('click', function (e) { e.preventDefault(); showModule(i); });
});

window.addEventListener('scroll', function () {
  var max = document.documentElement.scrollHeight - window.innerHeight;
  var pct = max > 0 ? (window.scrollY / max) * 100 : 0;
  document.getElementById('progress').style.width = pct + '%';
  document.getElementById('to-top').style.display = window.scrollY > 300 ? 'block' : 'none';
});

document.getElementById('to-top').addEventListener('click', function () {
  window.scrollTo({ top: 0, behavior: 'smooth' });
});
{{if .Search}}
document.getElementById('nav-search').addEventListener('input', function (e) {
  var q = e.target.value.toLowerCase();
  links.forEach(function (a) {
    a.style.display = a.textContent.toLowerCase().indexOf(q) === -1 ? 'none' : 'block';
  });
});
{{end}}{{if .KeyboardNav}}
document.addEventListener('keydown', function (e) {
  if (e.key === 'ArrowRight') { showModule(current + 1); }
  if (e.key === 'ArrowLeft') { showModule(current - 1); }
});
{{end}}
</script>
</body>
</html>
`
