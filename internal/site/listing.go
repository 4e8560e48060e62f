package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/gerunddev/inkwell/internal/post"
)

const (
	indexHeading = "最近更新"
	tagsHeading  = "标签云"
)

// IndexList renders the post list shown on index.html.
func IndexList(posts []*post.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>" + indexHeading + "</h1><div class='post-list'>")
		for _, p := range posts {
			b.WriteString("\n        <article class=\"post-item\">\n")
			fmt.Fprintf(&b, "            <h2><a href=\"%s\">%s</a></h2>\n",
				templ.EscapeString(p.URL), templ.EscapeString(p.Title))
			fmt.Fprintf(&b, "            <div class=\"meta-info\">%s | %s</div>\n",
				p.Date.Format("2006-01-02"), tagSpans(p.Tags))
			fmt.Fprintf(&b, "            <p>%s</p>\n", templ.EscapeString(p.Description))
			b.WriteString("        </article>\n")
		}
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func tagSpans(tags []string) string {
	var b strings.Builder
	for _, t := range tags {
		b.WriteString("<span class='tag-mini'>" + templ.EscapeString(t) + "</span>")
	}
	return b.String()
}

// TagSections renders the grouped listing shown on tags.html.
func TagSections(groups []post.TagGroup) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<h1>" + tagsHeading + "</h1>")
		for _, g := range groups {
			fmt.Fprintf(&b, "<section><h3># %s</h3><ul>", templ.EscapeString(g.Tag))
			for _, p := range g.Posts {
				fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a> (%s)</li>",
					templ.EscapeString(p.URL), templ.EscapeString(p.Title), p.Date.Format("01-02"))
			}
			b.WriteString("</ul></section>")
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// renderComponent collects a component's output.
func renderComponent(ctx context.Context, c templ.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
