package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/gerunddev/inkwell/internal/commands"
	"github.com/gerunddev/inkwell/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		commands.Build(nil)
		return
	}

	command := os.Args[1]

	switch command {
	case "build":
		commands.Build(os.Args[2:])
	case "posts", "ls":
		commands.Posts(os.Args[2:])
	case "preview":
		commands.Preview(os.Args[2:])
	case "diff":
		commands.Diff(os.Args[2:])
	case "status":
		commands.Status(os.Args[2:])
	case "init":
		commands.Init(os.Args[2:])
	case "version", "-v", "--version":
		fmt.Printf("inkwell v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		if impliesBuild(os.Args[1:]) {
			commands.Build(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// impliesBuild reports whether arguments that name no command still mean a
// full build: a lone positional argument, a Markdown path, or bare flags.
func impliesBuild(args []string) bool {
	if len(args) == 0 {
		return true
	}
	first := args[0]
	if len(args) == 1 && !strings.HasPrefix(first, "-") {
		return true
	}
	return strings.HasSuffix(strings.ToLower(first), ".md") || strings.HasPrefix(first, "--")
}

func printUsage() {
	usage := fmt.Sprintf(`inkwell - Static blog generator for a directory of Markdown posts

Usage:
  inkwell [command] [options]

Commands:
  build [path]    Rebuild the whole site (default command)
  posts [query]   Browse posts, fuzzy-filtered by title or tag
  preview <file>  Render a post in the terminal
  diff <file>     Compare a fresh render with the built page
  status          List sources changed since the last build
  init            Write the default config file
  version         Show version information
  help            Show this help message

Options:
  --config <path> Use this config file
  --plain         Plain output, no spinner or table

Examples:
  inkwell
  inkwell build --plain
  inkwell posts golang
  inkwell preview posts/hello.md
  inkwell diff posts/hello.md
  inkwell status
  inkwell init --config ./inkwell.json

Configuration:
  Config file: %s
  Build log:   %s

For more information, visit: https://github.com/gerunddev/inkwell
`, config.ConfigPath(), config.DefaultLogPath())
	fmt.Print(usage)
}
