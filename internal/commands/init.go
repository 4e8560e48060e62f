package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/inkwell/internal/config"
	"github.com/gerunddev/inkwell/internal/styles"
)

// Init writes the default configuration file
func Init(args []string) {
	opts, err := parseArgs(args)
	if err != nil {
		fail("Invalid arguments", err)
	}

	path := opts.configPath()
	if err := writeDefaultConfig(path); err != nil {
		fail("Error writing config", err)
	}

	fmt.Println(styles.SuccessStyle.Render("✓ Wrote " + path))
	fmt.Println(styles.DimStyle.Render("Edit it to set site_name and base_url, then run 'inkwell build'"))
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return config.DefaultConfig().SaveTo(path)
}
