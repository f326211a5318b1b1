package cli

import (
	"fmt"
	"strings"

	"github.com/boomhacked/BrowserHunter/internal/analytics"
)

type sessionJSON struct {
	Start           string   `json:"start"`
	End             string   `json:"end"`
	DurationMinutes float64  `json:"duration_minutes"`
	Entries         int      `json:"entries"`
	Domains         []string `json:"domains"`
}

// Execute implements the go-flags Commander interface for SessionsCommand.
func (c *SessionsCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	gap := c.Gap
	if gap <= 0 {
		gap = cfg.Analysis.SessionGapMinutes
	}

	entries, err := loadEntries(c.Args.File, c.Browser, "", log)
	if err != nil {
		return err
	}

	sessions := analytics.SegmentSessions(entries, gap)
	zone := displayZone(c.globals, cfg)

	if c.globals != nil && c.globals.JSON {
		out := make([]sessionJSON, len(sessions))
		for i, s := range sessions {
			out[i] = sessionJSON{
				Start:           formatTime(s.Start, zone),
				End:             formatTime(s.End, zone),
				DurationMinutes: s.DurationMinutes,
				Entries:         s.EntryCount(),
				Domains:         s.Domains,
			}
		}
		return printJSON(out)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	fmt.Printf("Found %d sessions (gap %d minutes)\n\n", len(sessions), gap)
	for i, s := range sessions {
		fmt.Printf("%d. %s – %s (%.0f min, %d entries)\n",
			i+1, formatTime(s.Start, zone), formatTime(s.End, zone),
			s.DurationMinutes, s.EntryCount())
		if len(s.Domains) > 0 {
			fmt.Printf("   %s\n", strings.Join(s.Domains, ", "))
		}

		if i < len(sessions)-1 {
			fmt.Println()
		}
	}
	return nil
}
