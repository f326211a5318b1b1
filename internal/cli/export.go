package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/boomhacked/BrowserHunter/internal/config"
	"github.com/boomhacked/BrowserHunter/internal/export"
)

// Execute implements the go-flags Commander interface for ExportCommand.
func (c *ExportCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	output := c.Output
	if !filepath.IsAbs(output) && cfg.Export.Directory != "" && cfg.Export.Directory != "." {
		dir, err := config.ExpandPath(cfg.Export.Directory)
		if err != nil {
			return err
		}
		output = filepath.Join(dir, output)
	}

	title := c.Title
	if title == "" {
		title = cfg.Export.ReportTitle
	}

	annotations := ""
	if cfg.Annotations.File != "" {
		if path, err := config.ExpandPath(cfg.Annotations.File); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				annotations = path
			}
		}
	}

	entries, err := loadEntries(c.Args.File, c.Browser, annotations, log)
	if err != nil {
		return err
	}

	x := export.New(nil, export.Options{
		Timezone: displayZone(c.globals, cfg),
		Title:    title,
	})
	if err := x.ExportAuto(entries, output); err != nil {
		return err
	}

	fmt.Printf("Exported %d entries to %s\n", len(entries), output)
	return nil
}
