package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/styles"
	"github.com/gerunddev/inkwell/internal/tui"
)

// Build performs a full rebuild of the site
func Build(args []string) {
	if code := runBuild(args); code != 0 {
		os.Exit(code)
	}
}

// runBuild returns the exit code so the log file is closed on every path.
func runBuild(args []string) int {
	opts, cfg := mustSetup(args)
	interactive := !opts.Plain && isTerminal()

	log, cleanup, err := openLogger(cfg, interactive)
	if err != nil {
		fail("Error opening log file", err)
	}
	defer cleanup()
	log.ConfigLoaded(opts.configPath(), cfg.SourceDir, cfg.OutputDir)

	for _, path := range opts.Args {
		log.PathIgnored(path)
	}

	builder, err := site.NewBuilder(cfg, log)
	if err != nil {
		report("Error preparing build", err)
		return 1
	}

	fmt.Println(styles.TitleStyle.Render("Inkwell Build"))
	fmt.Printf("%s → %s\n", styles.DimStyle.Render(cfg.SourceDir), styles.DimStyle.Render(cfg.OutputDir))

	if !interactive {
		result, err := builder.Build()
		fmt.Print(tui.Summary(result, err))
		if err != nil {
			return 1
		}
		return 0
	}

	m := tui.InitBuildModel()
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))

	builder.Progress = func(done, total int, file string) {
		p.Send(tui.ProgressMsg{Done: done, Total: total, File: file})
	}

	// The build runs beside the UI; the UI only receives messages.
	failed := make(chan bool, 1)
	go func() {
		result, err := builder.Build()
		failed <- err != nil
		p.Send(tui.BuildMsg{Result: result, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		report("Error", err)
		return 1
	}

	select {
	case buildFailed := <-failed:
		if buildFailed {
			return 1
		}
		return 0
	default:
		// Interrupted before the build finished.
		return 1
	}
}
