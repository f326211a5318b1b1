package cli

import (
	"fmt"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

type formJSON struct {
	FieldName string `json:"field_name"`
	Value     string `json:"value"`
	TimesUsed int    `json:"times_used"`
	FirstUsed string `json:"first_used"`
	LastUsed  string `json:"last_used"`
	Browser   string `json:"browser"`
}

// Execute implements the go-flags Commander interface for FormsCommand.
func (c *FormsCommand) Execute(args []string) error {
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

	formFile := c.Forms
	if formFile == "" {
		formFile = c.Args.File
	}
	forms := m.FormHistory(formFile)

	if c.globals != nil && c.globals.JSON {
		out := make([]formJSON, len(forms))
		for i, f := range forms {
			out[i] = formJSON{
				FieldName: f.FieldName,
				Value:     f.Value,
				TimesUsed: f.TimesUsed,
				FirstUsed: timeutil.Format(f.FirstUsed, time.RFC3339),
				LastUsed:  timeutil.Format(f.LastUsed, time.RFC3339),
				Browser:   f.Browser,
			}
		}
		return printJSON(out)
	}

	if len(forms) == 0 {
		fmt.Println("No form history found. Chromium browsers keep autofill in the Web Data database, which is not supported.")
		return nil
	}

	zone := displayZone(c.globals, cfg)
	for i, f := range forms {
		fmt.Printf("%d. %s = %q\n", i+1, f.FieldName, f.Value)
		fmt.Printf("   used %d times · last %s\n", f.TimesUsed, formatTime(f.LastUsed, zone))

		if i < len(forms)-1 {
			fmt.Println()
		}
	}
	return nil
}
