package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/post"
	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/styles"
	"github.com/gerunddev/inkwell/internal/tui"
)

// Posts browses posts in a table, fuzzy-filtered by the optional query
func Posts(args []string) {
	opts, cfg := mustSetup(args)
	query := strings.Join(opts.Args, " ")

	builder, err := site.NewBuilder(cfg, logger.Discard())
	if err != nil {
		fail("Error preparing build", err)
	}

	if opts.Plain || !isTerminal() {
		posts, errs, err := builder.Collect()
		if err != nil {
			fail("Error reading posts", err)
		}
		printPosts(tui.FilterPosts(posts, query))
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+e.Error()))
		}
		return
	}

	var p *tea.Program

	sendPosts := func() {
		posts, errs, err := builder.Collect()
		if err == nil && len(posts) == 0 && len(errs) > 0 {
			err = errors.Join(errs...)
		}
		p.Send(tui.PostsMsg{Posts: posts, Err: err})
	}

	preview := func(pst *post.Post) (string, error) {
		return renderPreview(pst.Source)
	}

	m := tui.InitPostsModel(query, preview)
	p = tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithAltScreen())

	go sendPosts()

	if _, err := p.Run(); err != nil {
		fail("Error", err)
	}
}

func printPosts(posts []*post.Post) {
	for _, p := range posts {
		line := fmt.Sprintf("%s  %s  %s",
			styles.InfoStyle.Render(p.Date.Format(config.DateLayout)),
			styles.ValueStyle.Render(p.Title),
			styles.DimStyle.Render(p.URL))
		if len(p.Tags) > 0 {
			line += "  " + styles.TagStyle.Render("#"+strings.Join(p.Tags, " #"))
		}
		fmt.Println(line)
	}
}
