package cli

import (
	"fmt"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

type downloadJSON struct {
	URL           string `json:"url"`
	TargetPath    string `json:"target_path"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time,omitempty"`
	TotalBytes    int64  `json:"total_bytes"`
	ReceivedBytes int64  `json:"received_bytes"`
	State         string `json:"state"`
	DangerType    string `json:"danger_type,omitempty"`
	MimeType      string `json:"mime_type,omitempty"`
	Browser       string `json:"browser"`
}

// Execute implements the go-flags Commander interface for DownloadsCommand.
func (c *DownloadsCommand) Execute(args []string) error {
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

	downloads := m.Downloads()

	if c.globals != nil && c.globals.JSON {
		out := make([]downloadJSON, len(downloads))
		for i, d := range downloads {
			out[i] = downloadJSON{
				URL:           d.URL,
				TargetPath:    d.TargetPath,
				StartTime:     timeutil.Format(d.StartTime, time.RFC3339),
				TotalBytes:    d.TotalBytes,
				ReceivedBytes: d.ReceivedBytes,
				State:         string(d.State),
				DangerType:    d.DangerType,
				MimeType:      d.MimeType,
				Browser:       d.Browser,
			}
			if !d.EndTime.IsZero() && !d.EndTime.Equal(timeutil.Epoch()) {
				out[i].EndTime = timeutil.Format(d.EndTime, time.RFC3339)
			}
		}
		return printJSON(out)
	}

	if len(downloads) == 0 {
		fmt.Println("No download records found.")
		return nil
	}

	zone := displayZone(c.globals, cfg)
	for i, d := range downloads {
		fmt.Printf("%d. %s\n", i+1, d.TargetPath)
		fmt.Printf("   %s\n", d.URL)

		meta := formatTime(d.StartTime, zone)
		meta += fmt.Sprintf(" · %s of %s · %s", formatBytes(d.ReceivedBytes), formatBytes(d.TotalBytes), d.State)
		if d.DangerType != "" {
			meta += " · danger: " + d.DangerType
		}
		fmt.Printf("   %s\n", meta)

		if i < len(downloads)-1 {
			fmt.Println()
		}
	}
	return nil
}
