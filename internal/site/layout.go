package site

import (
	"fmt"
	"html"
	"os"

	"github.com/valyala/fasttemplate"
)

// Nav identifies the navigation item highlighted on a page.
type Nav int

const (
	NavHome Nav = iota
	NavTags
	NavAbout
)

const activeClass = "active"

// DefaultLayout is the built-in page. Placeholders use {{name}}; every value
// except content is HTML-escaped before substitution.
const DefaultLayout = `<!DOCTYPE html>
<html lang="{{lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{site_name}} | {{title}}</title>
    <link rel="stylesheet" href="{{stylesheet}}"></head>
<body>
    <div class="glow-cursor" id="glowCursor"></div>
    <nav class="shiro-nav">
        <a href="index.html" class="nav-brand">{{site_name}}<span>.</span></a>

        <div style="position: relative;">
            <div class="nav-highlight" id="navHighlight"></div>
            <ul class="nav-links" id="navLinks">
                <li><a href="index.html" class="{{nav_home}}">首页</a></li>
                <li><a href="tags.html" class="{{nav_tags}}">标签云</a></li>
                <li><a href="about.html" class="{{nav_about}}">关于</a></li>
            </ul>
        </div>

        <div class="nav-actions"></div>
    </nav>

    <main class="main-container">
        <div class="content-area">
{{content}}
        </div>
    </main>

    <footer class="site-footer">
        <div class="footer-content">
            <p>Powered by {{site_name}}</p>
        </div>
    </footer>
    <script src="{{script}}"></script>
</body>
</html>
`

// Layout wraps page bodies in the site template.
type Layout struct {
	tmpl       *fasttemplate.Template
	siteName   string
	lang       string
	stylesheet string
	script     string
}

// LayoutOptions are the site-wide values substituted into every page.
type LayoutOptions struct {
	// Source is the template text; empty selects DefaultLayout.
	Source     string
	SiteName   string
	Language   string
	Stylesheet string
	Script     string
}

// NewLayout parses the template text.
func NewLayout(opts LayoutOptions) (*Layout, error) {
	src := opts.Source
	if src == "" {
		src = DefaultLayout
	}

	tmpl, err := fasttemplate.NewTemplate(src, "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	return &Layout{
		tmpl:       tmpl,
		siteName:   opts.SiteName,
		lang:       opts.Language,
		stylesheet: opts.Stylesheet,
		script:     opts.Script,
	}, nil
}

// LoadLayoutFile reads a layout template from disk.
func LoadLayoutFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read layout file: %w", err)
	}
	return string(data), nil
}

// Render produces a full page.
func (l *Layout) Render(title string, nav Nav, content []byte) []byte {
	values := map[string]interface{}{
		"title":      html.EscapeString(title),
		"site_name":  html.EscapeString(l.siteName),
		"lang":       html.EscapeString(l.lang),
		"stylesheet": html.EscapeString(l.stylesheet),
		"script":     html.EscapeString(l.script),
		"nav_home":   navClass(nav == NavHome),
		"nav_tags":   navClass(nav == NavTags),
		"nav_about":  navClass(nav == NavAbout),
		"content":    content,
	}
	return []byte(l.tmpl.ExecuteString(values))
}

func navClass(active bool) string {
	if active {
		return activeClass
	}
	return ""
}
