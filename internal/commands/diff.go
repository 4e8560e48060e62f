package commands

import (
	"fmt"
	"path/filepath"

	"github.com/gerunddev/inkwell/internal/diff"
	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/styles"
)

// Diff shows how a fresh render of a post differs from the page on disk
func Diff(args []string) {
	opts, cfg := mustSetup(args)
	if len(opts.Args) != 1 {
		fail("Usage: inkwell diff <file.md>", nil)
	}
	path := opts.Args[0]

	builder, err := site.NewBuilder(cfg, logger.Discard())
	if err != nil {
		fail("Error preparing build", err)
	}

	p, page, err := builder.Render(path)
	if err != nil {
		fail("Error rendering "+path, err)
	}

	unified, err := diff.Page(filepath.Join(cfg.OutputDir, p.URL), page)
	if err != nil {
		fail("Error reading built page", err)
	}

	if unified == "" {
		fmt.Println(styles.SuccessStyle.Render("✓ " + p.URL + " is up to date"))
		return
	}

	if opts.Plain || !isTerminal() {
		fmt.Print(unified)
		return
	}
	fmt.Print(diff.Render(unified))
}
