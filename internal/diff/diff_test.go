package diff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	if got := Unified("a", "b", "same\n", "same\n"); got != "" {
		t.Errorf("equal input should give empty diff, got %q", got)
	}

	got := Unified("old.html", "new.html", "one\ntwo\nthree\n", "one\n2\nthree\n")
	for _, want := range []string{"--- old.html", "+++ new.html", "-two", "+2"} {
		if !strings.Contains(got, want) {
			t.Errorf("diff missing %q:\n%s", want, got)
		}
	}
}

func TestPage(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "post.html")
	if err := os.WriteFile(page, []byte("<p>old</p>\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Page(page, []byte("<p>new</p>\n"))
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if !strings.Contains(got, "-<p>old</p>") || !strings.Contains(got, "+<p>new</p>") {
		t.Errorf("unexpected diff:\n%s", got)
	}

	got, err = Page(page, []byte("<p>old</p>\n"))
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if got != "" {
		t.Errorf("unchanged page should give empty diff, got %q", got)
	}

	got, err = Page(filepath.Join(dir, "missing.html"), []byte("<p>fresh</p>\n"))
	if err != nil {
		t.Fatalf("Page on a missing file failed: %v", err)
	}
	if !strings.Contains(got, "+<p>fresh</p>") {
		t.Errorf("missing page should diff against empty content:\n%s", got)
	}
}

func TestRenderFallsBackToText(t *testing.T) {
	out := Render("-a\n+b\n")
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("rendered diff lost content: %q", out)
	}
}
