package markdown

import (
	"strings"
	"testing"
)

func TestConvertBasic(t *testing.T) {
	e := NewEngine(Options{})

	doc, err := e.Convert([]byte("# Hello *World*\n\nSome **bold** text.\n"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	html := string(doc.HTML)
	if !strings.Contains(html, `<h1 id="hello-world">`) {
		t.Errorf("Expected heading with auto id, got: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Expected bold text, got: %s", html)
	}
	if doc.FirstHeading != "Hello World" {
		t.Errorf("FirstHeading = %q, want %q", doc.FirstHeading, "Hello World")
	}
}

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "no heading",
			src:  "just a paragraph\n",
			want: "",
		},
		{
			name: "heading after paragraph",
			src:  "intro\n\n## Second level `code`\n\n# Later\n",
			want: "Second level code",
		},
		{
			name: "setext heading",
			src:  "Title Line\n==========\n",
			want: "Title Line",
		},
		{
			name: "heading with link",
			src:  "# See [the docs](http://example.com)\n",
			want: "See the docs",
		},
	}

	e := NewEngine(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := e.Convert([]byte(tt.src))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if doc.FirstHeading != tt.want {
				t.Errorf("FirstHeading = %q, want %q", doc.FirstHeading, tt.want)
			}
		})
	}
}

func TestTables(t *testing.T) {
	e := NewEngine(Options{Extensions: []string{"tables"}})

	doc, err := e.Convert([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(doc.HTML), "<table>") {
		t.Errorf("Expected table, got: %s", doc.HTML)
	}
}

func TestFencedCodeHighlight(t *testing.T) {
	src := "```go\nfunc main() {}\n```\n"

	plain := NewEngine(Options{})
	doc, err := plain.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(string(doc.HTML), `<code class="language-go">`) {
		t.Errorf("Expected plain fenced code, got: %s", doc.HTML)
	}

	hl := NewEngine(Options{Highlight: true})
	doc, err = hl.Convert([]byte(src))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	html := string(doc.HTML)
	if !strings.Contains(html, `class="chroma"`) {
		t.Errorf("Expected chroma markup, got: %s", html)
	}
	if !strings.Contains(html, "func") {
		t.Errorf("Expected code content, got: %s", html)
	}
}

func TestRawHTML(t *testing.T) {
	src := []byte("<div class=\"note\">hi</div>\n\n<script>alert(1)</script>\n")

	t.Run("unsafe by default", func(t *testing.T) {
		doc, err := NewEngine(Options{}).Convert(src)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if !strings.Contains(string(doc.HTML), `<div class="note">`) {
			t.Errorf("Expected raw HTML passthrough, got: %s", doc.HTML)
		}
	})

	t.Run("safe mode", func(t *testing.T) {
		doc, err := NewEngine(Options{SafeMode: true}).Convert(src)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if strings.Contains(string(doc.HTML), "<div") {
			t.Errorf("Raw HTML should be omitted, got: %s", doc.HTML)
		}
	})

	t.Run("sanitize", func(t *testing.T) {
		doc, err := NewEngine(Options{Sanitize: true}).Convert(src)
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if strings.Contains(string(doc.HTML), "<script>") {
			t.Errorf("Script should be stripped, got: %s", doc.HTML)
		}
		if !strings.Contains(string(doc.HTML), "hi") {
			t.Errorf("Text should survive sanitizing, got: %s", doc.HTML)
		}
	})
}

func TestCollectExtensions(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  int
	}{
		{name: "empty defaults to tables", input: nil, want: 1},
		{name: "aliases deduplicated", input: []string{"table", "Tables", " tables "}, want: 1},
		{name: "unknown ignored", input: []string{"toc", "meta", "footnote"}, want: 1},
		{name: "several", input: []string{"tables", "strikethrough", "emoji"}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(collectExtensions(tt.input)); got != tt.want {
				t.Errorf("collectExtensions(%v) = %d extenders, want %d", tt.input, got, tt.want)
			}
		})
	}
}
