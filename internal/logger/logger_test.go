package logger

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestEventMethods(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.BuildStarted("/src", "/out")
	l.FileError("broken.md", errors.New("permission denied"))
	l.Collision("a.html", "x/a.md", "y/a.md")
	l.BuildCompleted(3, 1, 1500*time.Microsecond)

	out := buf.String()
	for _, want := range []string{
		"build started", "source_dir=/src",
		"file error", "permission denied",
		"output collision", "dest=a.html",
		"build completed", "posts=3", "errors=1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in log output, got: %s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.InfoLevel)

	l.Skipped("draft.md", "excluded")
	if buf.Len() != 0 {
		t.Errorf("Debug events should be filtered at info level, got: %s", buf.String())
	}

	l.Processing("post.md")
	if !strings.Contains(buf.String(), "processing") {
		t.Errorf("Expected processing event, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  log.Level
	}{
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"", log.InfoLevel},
		{"nonsense", log.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "build.log")

	l, cleanup, err := NewFileLogger(path, log.InfoLevel)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	l.PageWritten("index.html", 2)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "page written") {
		t.Errorf("Expected page written event in file, got: %s", data)
	}
}

func TestNewTeeLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.log")
	var buf bytes.Buffer

	l, cleanup, err := NewTeeLogger(path, log.InfoLevel, &buf)
	if err != nil {
		t.Fatalf("NewTeeLogger() error = %v", err)
	}
	l.PathIgnored("posts/one.md")
	l.DateFallback("x.md", "someday", time.Now())
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	for _, out := range []string{string(data), buf.String()} {
		if !strings.Contains(out, "path=posts/one.md") {
			t.Errorf("Expected path event in output, got: %s", out)
		}
		if strings.Contains(out, "date fallback") {
			t.Errorf("Debug event should be filtered, got: %s", out)
		}
	}
}
