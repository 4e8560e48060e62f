package commands

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/logger"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{
			name: "empty",
			args: nil,
			want: options{},
		},
		{
			name: "positional and plain",
			args: []string{"posts/a.md", "--plain"},
			want: options{Plain: true, Args: []string{"posts/a.md"}},
		},
		{
			name: "config with separate value",
			args: []string{"--config", "site.json", "query"},
			want: options{ConfigPath: "site.json", Args: []string{"query"}},
		},
		{
			name: "config with equals",
			args: []string{"--config=site.json"},
			want: options{ConfigPath: "site.json"},
		},
		{
			name:    "config without value",
			args:    []string{"--config"},
			wantErr: true,
		},
		{
			name:    "unknown flag",
			args:    []string{"--watch"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseArgs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfigPathOverride(t *testing.T) {
	orig := config.ConfigPath
	defer func() { config.ConfigPath = orig }()
	config.ConfigPath = func() string { return "/default/config.json" }

	if got := (options{}).configPath(); got != "/default/config.json" {
		t.Errorf("configPath() = %q", got)
	}
	if got := (options{ConfigPath: "x.json"}).configPath(); got != "x.json" {
		t.Errorf("configPath() = %q", got)
	}
}

func TestLoadConfigFromFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkwell.json")
	if err := os.WriteFile(path, []byte(`{"site_name": "Flagged"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{ConfigPath: path})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.SiteName != "Flagged" {
		t.Errorf("SiteName = %q", cfg.SiteName)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if cfg.SiteName != config.DefaultConfig().SiteName {
		t.Errorf("SiteName = %q", cfg.SiteName)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when the config already exists")
	}
}

func TestNewLoggerInteractiveWritesFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "build.log")

	l, cleanup, err := newLogger(cfg, true)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	l.BuildStarted("in", "out")
	cleanup()

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "build started") {
		t.Errorf("log file = %q", data)
	}
}

func TestRunBuildClosesLogOnFailure(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "build.log")
	cfgPath := filepath.Join(dir, "inkwell.json")

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(dir, "missing")
	cfg.OutputDir = filepath.Join(dir, "dist")
	cfg.LogFile = logPath
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}

	closed := 0
	orig := openLogger
	defer func() { openLogger = orig }()
	openLogger = func(cfg *config.Config, interactive bool) (*logger.Logger, func(), error) {
		l, cleanup, err := orig(cfg, interactive)
		return l, func() { closed++; cleanup() }, err
	}

	if code := runBuild([]string{"--plain", "--config", cfgPath}); code != 1 {
		t.Errorf("runBuild() = %d, want 1", code)
	}
	if closed != 1 {
		t.Errorf("log cleanup ran %d times, want 1", closed)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "build started") {
		t.Errorf("log file = %q", data)
	}
}

func TestRunBuildSucceeds(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "inkwell.json")

	cfg := config.DefaultConfig()
	cfg.SourceDir = filepath.Join(dir, "posts")
	cfg.OutputDir = filepath.Join(dir, "dist")
	cfg.LogFile = filepath.Join(dir, "build.log")
	if err := cfg.SaveTo(cfgPath); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(cfg.SourceDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfg.SourceDir, "hello.md"), []byte("# Hello\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if code := runBuild([]string{"--plain", "--config", cfgPath}); code != 0 {
		t.Errorf("runBuild() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "hello.html")); err != nil {
		t.Errorf("hello.html not written: %v", err)
	}
}

func TestRenderPreviewStripsFrontMatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(path, []byte("---\ntitle: Secret Title\n---\nVisible body\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := renderPreview(path)
	if err != nil {
		t.Fatalf("renderPreview failed: %v", err)
	}
	if !strings.Contains(out, "Visible body") {
		t.Errorf("preview missing body: %q", out)
	}
	if strings.Contains(out, "Secret Title") {
		t.Errorf("preview should not include front matter: %q", out)
	}

	if _, err := renderPreview(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestRelativeTo(t *testing.T) {
	if got := relativeTo("/site/posts", "/site/posts/a/b.md"); got != filepath.Join("a", "b.md") {
		t.Errorf("relativeTo = %q", got)
	}
}
