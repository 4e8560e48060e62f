package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/logger"
	"github.com/gerunddev/inkwell/internal/styles"
)

// options are the flags shared by every command
type options struct {
	ConfigPath string
	Plain      bool
	Args       []string
}

// parseArgs extracts --config and --plain, leaving positional arguments
func parseArgs(args []string) (options, error) {
	var opts options
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--plain":
			opts.Plain = true
		case arg == "--config" || arg == "-c":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a path", arg)
			}
			i++
			opts.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--") && len(arg) > 2:
			return opts, fmt.Errorf("unknown flag: %s", arg)
		default:
			opts.Args = append(opts.Args, arg)
		}
	}
	return opts, nil
}

// configPath returns the explicit --config path or the default location
func (o options) configPath() string {
	if o.ConfigPath != "" {
		return o.ConfigPath
	}
	return config.ConfigPath()
}

// loadConfig reads the config file named by opts
func loadConfig(opts options) (*config.Config, error) {
	return config.LoadFrom(opts.configPath())
}

// openLogger is newLogger, replaceable in tests
var openLogger = newLogger

// newLogger returns the build logger. Interactive runs log to a file so the
// terminal UI stays clean; plain runs log to stderr as well.
func newLogger(cfg *config.Config, interactive bool) (*logger.Logger, func(), error) {
	level := logger.ParseLevel(cfg.LogLevel)

	path := cfg.LogFile
	if path == "" && interactive {
		path = config.DefaultLogPath()
	}

	if path == "" {
		return logger.NewWithLevel(os.Stderr, level), func() {}, nil
	}

	if interactive {
		return logger.NewFileLogger(path, level)
	}
	return logger.NewTeeLogger(path, level, os.Stderr)
}

// isTerminal reports whether stdout is an interactive terminal
func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// report prints a styled error
func report(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(os.Stderr, styles.ErrorStyle.Render("✗ "+msg))
}

// fail prints a styled error and exits
func fail(msg string, err error) {
	report(msg, err)
	os.Exit(1)
}

// mustSetup parses flags, loads the config and reports failures the same way
// for every command
func mustSetup(args []string) (options, *config.Config) {
	opts, err := parseArgs(args)
	if err != nil {
		fail("Invalid arguments", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fail("Error loading config", err)
	}
	return opts, cfg
}
