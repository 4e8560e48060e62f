package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/inkwell/internal/site"
	"github.com/gerunddev/inkwell/internal/styles"
)

// buildModel is the Bubble Tea model for the build progress display
type buildModel struct {
	spinner  spinner.Model
	status   string
	done     int
	total    int
	complete bool
	result   *site.Result
	err      error
}

// BuildMsg is sent when the build completes
type BuildMsg struct {
	Result *site.Result
	Err    error
}

// ProgressMsg reports that a source file has been handled
type ProgressMsg struct {
	Done  int
	Total int
	File  string
}

// InitBuildModel creates a new build progress model
func InitBuildModel() buildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return buildModel{
		spinner: s,
		status:  "Scanning sources...",
	}
}

func (m buildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m buildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.status = "Rendering " + filepath.Base(msg.File)
		return m, nil

	case BuildMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m buildModel) View() string {
	if m.complete {
		return Summary(m.result, m.err)
	}

	counter := ""
	if m.total > 0 {
		counter = styles.DimStyle.Render(fmt.Sprintf(" (%d/%d)", m.done, m.total))
	}
	return fmt.Sprintf("\n%s %s%s\n\n", m.spinner.View(), m.status, counter)
}

// Summary renders a finished build for the terminal. It is shared by the
// spinner view and plain output.
func Summary(result *site.Result, err error) string {
	if err != nil {
		return styles.ErrorStyle.Render("✗ Build failed: "+err.Error()) + "\n"
	}
	if result == nil {
		return ""
	}

	var b strings.Builder
	if len(result.Posts) == 0 {
		b.WriteString(styles.SuccessStyle.Render("✓ No posts found"))
	} else {
		b.WriteString(styles.SuccessStyle.Render(fmt.Sprintf("✓ Built %d post(s)", len(result.Posts))))
	}
	if len(result.Errors) > 0 {
		b.WriteString(", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors))))
	}
	if len(result.Collisions) > 0 {
		b.WriteString(", " + styles.WarningStyle.Render(fmt.Sprintf("%d collision(s)", len(result.Collisions))))
	}
	if len(result.Pruned) > 0 {
		b.WriteString(", " + styles.DimStyle.Render(fmt.Sprintf("%d stale page(s) removed", len(result.Pruned))))
	}
	b.WriteString("\n")

	for _, e := range result.Errors {
		b.WriteString(styles.ErrorStyle.Render("  ✗ "+e.Error()) + "\n")
	}
	for _, c := range result.Collisions {
		b.WriteString(styles.WarningStyle.Render("  ⚠ "+c+" written by more than one source") + "\n")
	}

	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", result.Duration().Round(time.Millisecond))) + "\n")
	return b.String()
}
