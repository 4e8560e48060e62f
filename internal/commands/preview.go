package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/post"
	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/styles"
)

// Preview renders a post in the terminal
func Preview(args []string) {
	opts, cfg := mustSetup(args)
	if len(opts.Args) != 1 {
		fail("Usage: inkwell preview <file.md>", nil)
	}
	path := opts.Args[0]

	builder, err := site.NewBuilder(cfg, logger.Discard())
	if err != nil {
		fail("Error preparing build", err)
	}

	p, _, err := builder.Render(path)
	if err != nil {
		fail("Error rendering "+path, err)
	}

	fmt.Println(styles.TitleStyle.Render(p.Title))
	meta := styles.InfoStyle.Render(p.Date.Format(config.DateLayout))
	if len(p.Tags) > 0 {
		meta += "  " + styles.TagStyle.Render("#"+strings.Join(p.Tags, " #"))
	}
	fmt.Println(meta)
	fmt.Println(styles.DimStyle.Render(p.Description))

	body, err := renderPreview(path)
	if err != nil {
		fail("Error rendering "+path, err)
	}
	fmt.Print(body)
}

// renderPreview renders the Markdown body of a source file with Glamour.
// Falls back to the raw body when rendering fails.
func renderPreview(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	_, body, _ := post.SplitFrontMatter(data)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
		glamour.WithEmoji(),
	)
	if err != nil {
		return string(body), nil
	}

	rendered, err := renderer.Render(string(body))
	if err != nil {
		return string(body), nil
	}

	return rendered, nil
}
