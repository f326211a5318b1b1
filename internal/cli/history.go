package cli

import "fmt"

// Execute implements the go-flags Commander interface for HistoryCommand.
func (c *HistoryCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	entries, err := loadEntries(c.Args.File, c.Browser, c.Annotations, log)
	if err != nil {
		return err
	}
	entries = limitEntries(entries, c.Limit)

	if c.globals != nil && c.globals.JSON {
		return printJSON(toEntryJSON(entries))
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}
	printEntries(entries, displayZone(c.globals, cfg))
	return nil
}
