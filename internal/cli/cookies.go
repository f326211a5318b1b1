package cli

import (
	"fmt"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

type cookieJSON struct {
	HostKey    string `json:"host_key"`
	Name       string `json:"name"`
	Value      string `json:"value,omitempty"`
	Path       string `json:"path"`
	Creation   string `json:"creation"`
	Expiry     string `json:"expiry,omitempty"`
	LastAccess string `json:"last_access,omitempty"`
	Secure     bool   `json:"secure"`
	HTTPOnly   bool   `json:"http_only"`
	Persistent bool   `json:"persistent"`
	Browser    string `json:"browser"`
}

// Execute implements the go-flags Commander interface for CookiesCommand.
func (c *CookiesCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	// Firefox keeps cookies alongside history; Chromium's live in a
	// separate Cookies database that the mapper snapshots on its own.
	historyFile := c.Args.File
	cookieFile := c.Cookies
	if cookieFile == "" {
		cookieFile = c.Args.File
	}

	m, err := openMapper(historyFile, c.Browser, log)
	if err != nil {
		return err
	}
	defer m.Close()

	cookies := m.Cookies(cookieFile)

	if c.globals != nil && c.globals.JSON {
		out := make([]cookieJSON, len(cookies))
		for i, ck := range cookies {
			out[i] = cookieJSON{
				HostKey:    ck.HostKey,
				Name:       ck.Name,
				Value:      ck.Value,
				Path:       ck.Path,
				Creation:   timeutil.Format(ck.Creation, time.RFC3339),
				Secure:     ck.Secure,
				HTTPOnly:   ck.HTTPOnly,
				Persistent: ck.Persistent,
				Browser:    ck.Browser,
			}
			if ck.Persistent {
				out[i].Expiry = timeutil.Format(ck.Expiry, time.RFC3339)
			}
			if !ck.LastAccess.IsZero() {
				out[i].LastAccess = timeutil.Format(ck.LastAccess, time.RFC3339)
			}
		}
		return printJSON(out)
	}

	if len(cookies) == 0 {
		fmt.Println("No cookies found.")
		return nil
	}

	zone := displayZone(c.globals, cfg)
	for i, ck := range cookies {
		fmt.Printf("%d. %s %s\n", i+1, ck.HostKey, ck.Name)

		meta := "created " + formatTime(ck.Creation, zone)
		if ck.Persistent {
			meta += " · expires " + formatTime(ck.Expiry, zone)
		} else {
			meta += " · session"
		}
		if ck.Secure {
			meta += " · secure"
		}
		if ck.HTTPOnly {
			meta += " · httponly"
		}
		fmt.Printf("   %s\n", meta)

		if i < len(cookies)-1 {
			fmt.Println()
		}
	}
	return nil
}
