package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/state"
	"github.com/gerunddev/inkwell/internal/styles"
)

// Status lists sources changed since the last build
func Status(args []string) {
	_, cfg := mustSetup(args)

	builder, err := site.NewBuilder(cfg, logger.Discard())
	if err != nil {
		fail("Error preparing build", err)
	}

	sources, err := builder.Sources()
	if err != nil {
		fail("Error scanning sources", err)
	}

	manifest, err := state.Load(state.Path(cfg.OutputDir))
	if err != nil {
		fail("Error loading manifest", err)
	}

	fmt.Println(styles.TitleStyle.Render("Inkwell Status"))
	fmt.Println()
	fmt.Printf("%s %s\n", styles.LabelStyle.Render("Sources:"), styles.ValueStyle.Render(cfg.SourceDir))
	fmt.Printf("%s %s\n", styles.LabelStyle.Render("Output: "), styles.ValueStyle.Render(cfg.OutputDir))

	if !manifest.Built() {
		fmt.Println()
		fmt.Println(styles.WarningStyle.Render(fmt.Sprintf("No build yet, %d source(s) found", len(sources))))
		return
	}

	fmt.Printf("%s %s %s\n",
		styles.LabelStyle.Render("Last build:"),
		styles.ValueStyle.Render(manifest.BuildTime.Local().Format(time.DateTime)),
		styles.DimStyle.Render("("+manifest.BuildID+")"))
	fmt.Println()

	changes, err := manifest.Diff(sources)
	if err != nil {
		fail("Error comparing sources", err)
	}

	if changes.Empty() {
		fmt.Println(styles.SuccessStyle.Render(fmt.Sprintf("✓ Up to date (%d source(s))", len(sources))))
		return
	}

	printChanges := func(label string, files []string, mark string, render func(...string) string) {
		if len(files) == 0 {
			return
		}
		fmt.Println(styles.HighlightStyle.Render(fmt.Sprintf("%s (%d)", label, len(files))))
		for _, f := range files {
			fmt.Println("  " + render(mark+" "+relativeTo(cfg.SourceDir, f)))
		}
	}

	printChanges("New", changes.New, "+", styles.SuccessStyle.Render)
	printChanges("Changed", changes.Changed, "~", styles.InfoStyle.Render)
	printChanges("Removed", changes.Removed, "-", styles.ErrorStyle.Render)

	fmt.Println()
	fmt.Println(styles.HelpStyle.Render("Run 'inkwell build' to rebuild the site"))
}

func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}
