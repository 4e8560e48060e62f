// Package markdown converts post bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Options controls how an Engine renders Markdown.
type Options struct {
	// Extensions by name, see extensionRegistry. Empty means tables only.
	Extensions []string
	// Highlight enables chroma syntax highlighting with line numbers.
	Highlight      bool
	HighlightStyle string
	// SafeMode drops raw HTML from the source.
	SafeMode bool
	// Sanitize scrubs the rendered HTML with a UGC policy.
	Sanitize bool
}

// Document is the result of converting one Markdown body.
type Document struct {
	HTML []byte
	// FirstHeading is the plain text of the first heading, if any.
	FirstHeading string
}

// Engine is stateless after construction and can be reused across files.
type Engine struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewEngine builds an Engine from opts.
func NewEngine(opts Options) *Engine {
	e := &Engine{md: newGoldmark(opts)}
	if opts.Sanitize {
		e.policy = bluemonday.UGCPolicy()
		// Keep heading anchors and highlighter classes.
		e.policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		e.policy.AllowAttrs("class").Globally()
	}
	return e
}

// Convert renders src to HTML and reports the first heading's text.
func (e *Engine) Convert(src []byte) (*Document, error) {
	root := e.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := e.md.Renderer().Render(&buf, src, root); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	out := buf.Bytes()
	if e.policy != nil {
		out = e.policy.SanitizeBytes(out)
	}

	return &Document{
		HTML:         out,
		FirstHeading: firstHeading(root, src),
	}, nil
}

func firstHeading(root ast.Node, src []byte) string {
	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Heading); ok {
			title = strings.TrimSpace(plainText(n, src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(plainText(c, src))
		}
	}
	return sb.String()
}

func newGoldmark(opts Options) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)

	if opts.Highlight {
		style := opts.HighlightStyle
		if style == "" {
			style = "monokai"
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithLineNumbers(true),
				chromahtml.WithClasses(true),
			),
		))
	}

	rendererOptions := []renderer.Option{}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
	"emoji":         emoji.Emoji,
}

// collectExtensions resolves names against extensionRegistry.
// Unknown names are ignored.
func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.Table}
	}

	var extenders []goldmark.Extender
	seen := map[goldmark.Extender]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		// "table" and "tables" share an extender
		if _, dup := seen[ext]; dup {
			continue
		}

		extenders = append(extenders, ext)
		seen[ext] = struct{}{}
	}

	return extenders
}
