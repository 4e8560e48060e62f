package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Unified returns a unified diff from old to new, or "" when they are equal
func Unified(oldName, newName, oldText, newText string) string {
	if oldText == newText {
		return ""
	}
	edits := myers.ComputeEdits(span.URIFromPath(oldName), oldText, newText)
	return fmt.Sprint(gotextdiff.ToUnified(oldName, newName, oldText, edits))
}

// Page diffs the page currently on disk against a freshly rendered one.
// A missing page diffs against empty content.
func Page(pagePath string, rendered []byte) (string, error) {
	current, err := os.ReadFile(pagePath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read page: %w", err)
	}

	name := filepath.Base(pagePath)
	return Unified(name+" (built)", name+" (source)", string(current), string(rendered)), nil
}

// Render wraps a unified diff in a diff code fence and renders it with Glamour.
// Falls back to the fenced text when rendering fails.
func Render(unified string) string {
	diffMarkdown := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return diffMarkdown
	}

	rendered, err := renderer.Render(diffMarkdown)
	if err != nil {
		return diffMarkdown
	}

	return rendered
}
