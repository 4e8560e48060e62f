package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// ParseLevel maps a config level name to a log level, defaulting to info
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	return NewTeeLogger(path, level)
}

// NewTeeLogger creates a logger that appends to the file at path and also
// writes to any extra writers
func NewTeeLogger(path string, level log.Level, extra ...io.Writer) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	writers := append([]io.Writer{f}, extra...)
	return NewMultiLogger(level, writers...), cleanup, nil
}

// NewMultiLogger creates a logger that writes to multiple outputs
func NewMultiLogger(level log.Level, writers ...io.Writer) *Logger {
	return NewWithLevel(io.MultiWriter(writers...), level)
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// BuildStarted logs the start of a build
func (l *Logger) BuildStarted(sourceDir, outputDir string) {
	l.Info("build started",
		"source_dir", sourceDir,
		"output_dir", outputDir)
}

// BuildCompleted logs the completion of a build
func (l *Logger) BuildCompleted(posts int, errors int, duration time.Duration) {
	l.Info("build completed",
		"posts", posts,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// Processing logs that a source file is about to be converted
func (l *Logger) Processing(file string) {
	l.Info("processing", "file", file)
}

// PostWritten logs a successfully written post page
func (l *Logger) PostWritten(source, dest string) {
	l.Debug("post written",
		"source", source,
		"dest", dest)
}

// PageWritten logs an aggregate page (index, tags, feed, sitemap)
func (l *Logger) PageWritten(dest string, entries int) {
	l.Info("page written",
		"dest", dest,
		"entries", entries)
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// FrontMatterError logs front matter that could not be decoded
func (l *Logger) FrontMatterError(file string, err error) {
	l.Warn("front matter ignored",
		"file", file,
		"error", err)
}

// DateFallback logs an unparseable date that was replaced
func (l *Logger) DateFallback(file, value string, used time.Time) {
	l.Debug("date fallback",
		"file", file,
		"value", value,
		"used", used.Format(time.DateOnly))
}

// Collision logs two sources mapping to the same output name
func (l *Logger) Collision(dest, first, second string) {
	l.Warn("output collision",
		"dest", dest,
		"first", first,
		"second", second)
}

// Pruned logs removal of a page whose source no longer exists
func (l *Logger) Pruned(dest string) {
	l.Info("stale page removed", "dest", dest)
}

// ManifestError logs a manifest-related error
func (l *Logger) ManifestError(operation string, err error) {
	l.Error("manifest error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, sourceDir, outputDir string) {
	l.Debug("config loaded",
		"path", path,
		"source_dir", sourceDir,
		"output_dir", outputDir)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// PathIgnored logs a build path argument; builds are always full rebuilds
func (l *Logger) PathIgnored(path string) {
	l.Info("path argument ignored, rebuilding whole site", "path", path)
}
