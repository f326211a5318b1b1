package cli

import (
	"fmt"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

type bookmarkJSON struct {
	URL          string `json:"url"`
	Title        string `json:"title,omitempty"`
	DateAdded    string `json:"date_added"`
	ParentFolder string `json:"parent_folder,omitempty"`
	Browser      string `json:"browser"`
}

// Execute implements the go-flags Commander interface for BookmarksCommand.
func (c *BookmarksCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	m, err := openMapper(c.Args.File, c.Browser, log)
	if err != nil {
		return err
	}
	defer m.Close()

	bookmarks := m.Bookmarks()

	if c.globals != nil && c.globals.JSON {
		out := make([]bookmarkJSON, len(bookmarks))
		for i, b := range bookmarks {
			out[i] = bookmarkJSON{
				URL:          b.URL,
				Title:        b.Title,
				DateAdded:    timeutil.Format(b.DateAdded, time.RFC3339),
				ParentFolder: b.ParentFolder,
				Browser:      b.Browser,
			}
		}
		return printJSON(out)
	}

	if len(bookmarks) == 0 {
		fmt.Println("No bookmarks found. Chromium browsers keep bookmarks in a JSON file, not the History database.")
		return nil
	}

	zone := displayZone(c.globals, cfg)
	for i, b := range bookmarks {
		title := b.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Printf("%d. %s\n", i+1, title)
		fmt.Printf("   %s\n", b.URL)
		fmt.Printf("   added %s\n", formatTime(b.DateAdded, zone))

		if i < len(bookmarks)-1 {
			fmt.Println()
		}
	}
	return nil
}
