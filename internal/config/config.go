package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"golang.org/x/text/language"
)

// DateLayout is the layout of front-matter dates and of default_date
const DateLayout = "2006-01-02"

// Config represents the inkwell configuration
type Config struct {
	SourceDir          string   `json:"source_dir"`
	OutputDir          string   `json:"output_dir"`
	SiteName           string   `json:"site_name"`
	BaseURL            string   `json:"base_url,omitempty"`
	Language           string   `json:"language"`
	Stylesheet         string   `json:"stylesheet"`
	Script             string   `json:"script"`
	LayoutFile         string   `json:"layout_file,omitempty"`
	AboutPage          string   `json:"about_page"`
	DefaultDate        string   `json:"default_date"`
	DefaultDescription string   `json:"default_description"`
	Extensions         []string `json:"extensions,omitempty"`
	Highlight          bool     `json:"highlight"`
	HighlightStyle     string   `json:"highlight_style,omitempty"`
	SafeMode           bool     `json:"safe_mode"`
	Sanitize           bool     `json:"sanitize"`
	ExcludePatterns    []string `json:"exclude_patterns,omitempty"`
	Feed               bool     `json:"feed"`
	Sitemap            bool     `json:"sitemap"`
	LogFile            string   `json:"log_file,omitempty"`
	LogLevel           string   `json:"log_level,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		SourceDir:          "posts",
		OutputDir:          "dist",
		SiteName:           "MyBlog",
		Language:           "zh-CN",
		Stylesheet:         "styles.css",
		Script:             "script.js",
		AboutPage:          "about.md",
		DefaultDate:        "2026-01-01",
		DefaultDescription: "暂无描述",
		Extensions:         []string{"tables", "strikethrough", "footnote"},
		Highlight:          true,
		HighlightStyle:     "monokai",
		ExcludePatterns:    []string{}, // No exclusions by default
		Feed:               true,
		Sitemap:            true,
		LogLevel:           "info",
	}
}

// LocalConfigName is picked up from the working directory before the XDG location
const LocalConfigName = "inkwell.json"

// ConfigPath returns the path to the config file
// Can be overridden for testing
var ConfigPath = func() string {
	if _, err := os.Stat(LocalConfigName); err == nil {
		return LocalConfigName
	}
	return filepath.Join(xdg.ConfigHome, "inkwell", "config.json")
}

// DefaultLogPath returns where build logs go when log_file is unset
var DefaultLogPath = func() string {
	return filepath.Join(xdg.StateHome, "inkwell", "build.log")
}

// Load reads configuration from ConfigPath
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from path, returning defaults when the file is missing.
// Fields absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes configuration to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SourceDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.Stylesheet, validation.Required),
		validation.Field(&c.Script, validation.Required),
		validation.Field(&c.DefaultDate, validation.Required, validation.Date(DateLayout)),
		validation.Field(&c.Language, validation.By(languageTag)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

// languageTag accepts empty or a well-formed BCP 47 tag such as zh-CN
func languageTag(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := language.Parse(s); err != nil {
		return errors.New("must be a BCP 47 language tag")
	}
	return nil
}

// DefaultTime parses DefaultDate. Validate guarantees it parses.
func (c *Config) DefaultTime() time.Time {
	t, err := time.ParseInLocation(DateLayout, c.DefaultDate, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.SourceDir, err = expandPath(c.SourceDir)
	if err != nil {
		return fmt.Errorf("failed to expand source_dir: %w", err)
	}

	c.OutputDir, err = expandPath(c.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to expand output_dir: %w", err)
	}

	c.LayoutFile, err = expandPath(c.LayoutFile)
	if err != nil {
		return fmt.Errorf("failed to expand layout_file: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
