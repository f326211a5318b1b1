package cli

import (
	"fmt"
	"strings"

	"github.com/boomhacked/BrowserHunter/internal/annotate"
	"github.com/boomhacked/BrowserHunter/internal/config"
)

// Execute implements the go-flags Commander interface for AnnotateCommand.
func (c *AnnotateCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	storePath := c.Store
	if storePath == "" {
		storePath, err = config.ExpandPath(cfg.Annotations.File)
		if err != nil {
			return err
		}
	}

	store, err := annotate.Open(nil, storePath)
	if err != nil {
		return err
	}

	if c.Clear {
		store.Clear(c.Key)
		if err := store.Save(); err != nil {
			return err
		}
		fmt.Printf("Cleared annotation for %s\n", c.Key)
		return nil
	}

	changed := false
	if c.Notes != "" {
		store.SetNotes(c.Key, c.Notes)
		changed = true
	}
	for _, tag := range c.Tag {
		store.AddTag(c.Key, tag)
		changed = true
	}
	for _, tag := range c.Untag {
		store.RemoveTag(c.Key, tag)
		changed = true
	}
	if c.Bookmark {
		store.SetBookmarked(c.Key, true)
		changed = true
	}
	if c.Unbookmark {
		store.SetBookmarked(c.Key, false)
		changed = true
	}

	if changed {
		if err := store.Save(); err != nil {
			return err
		}
	}

	a, ok := store.Get(c.Key)
	if !ok {
		fmt.Printf("No annotation for %s\n", c.Key)
		return nil
	}

	fmt.Printf("Annotation for %s\n", c.Key)
	if a.Notes != "" {
		fmt.Printf("  notes: %s\n", a.Notes)
	}
	if len(a.Tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(a.Tags, ", "))
	}
	if a.Bookmarked {
		fmt.Println("  bookmarked")
	}
	return nil
}
