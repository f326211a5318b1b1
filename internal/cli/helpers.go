package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/boomhacked/BrowserHunter/internal/annotate"
	"github.com/boomhacked/BrowserHunter/internal/browser"
	"github.com/boomhacked/BrowserHunter/internal/config"
	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

// loadConfig resolves the config for a command: an explicit --config path
// must exist, otherwise the default path is created on first use.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// newLogger builds the command logger. Quiet by default so extraction
// warnings only surface with --verbose.
func newLogger(globals *GlobalFlags, cfg *config.Config) *zap.Logger {
	level := zapcore.WarnLevel
	if cfg != nil {
		if parsed, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsed
		}
	}
	if globals != nil && globals.Verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	if cfg != nil && cfg.Logging.File != "" {
		zc.OutputPaths = append(zc.OutputPaths, cfg.Logging.File)
	}

	log, err := zc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// browserLabels maps --browser values to display labels.
var browserLabels = map[string]string{
	"chrome":  "Chrome",
	"edge":    "Edge",
	"brave":   "Brave",
	"firefox": "Firefox",
}

// openMapper picks the mapper for a history file. Firefox keeps history
// in places.sqlite; everything else is treated as a Chromium History
// file. --browser overrides the guess.
func openMapper(path, browserFlag string, log *zap.Logger) (browser.Mapper, error) {
	name := strings.ToLower(browserFlag)
	if name == "" {
		if strings.EqualFold(filepath.Base(path), "places.sqlite") {
			name = "firefox"
		} else {
			name = "chrome"
		}
	}

	label, ok := browserLabels[name]
	if !ok {
		return nil, fmt.Errorf("unknown browser %q (use chrome, edge, brave or firefox)", browserFlag)
	}

	if name == "firefox" {
		return browser.NewGeckoMapper(path, log)
	}
	return browser.NewChromiumMapper(path, label, log)
}

// loadEntries extracts history from path and overlays annotations when a
// store file is given.
func loadEntries(path, browserFlag, annotationsPath string, log *zap.Logger) ([]browser.HistoryEntry, error) {
	m, err := openMapper(path, browserFlag, log)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	entries := m.History()

	if annotationsPath != "" {
		store, err := annotate.Open(nil, annotationsPath)
		if err != nil {
			return nil, err
		}
		store.Apply(entries)
	}

	return entries, nil
}

// displayZone picks the timezone for human output: --timezone beats the
// config, which defaults to UTC.
func displayZone(globals *GlobalFlags, cfg *config.Config) string {
	if globals != nil && globals.Timezone != "" {
		return globals.Timezone
	}
	if cfg != nil && cfg.General.Timezone != "" {
		return cfg.General.Timezone
	}
	return "UTC"
}

// formatTime renders t in the display zone, "N/A" for the Unix epoch
// sentinel.
func formatTime(t time.Time, zone string) string {
	return timeutil.Format(timeutil.ConvertZone(t, zone), "")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// entryJSON is the JSON output shape for one history entry. Key ties the
// entry to its annotation across runs.
type entryJSON struct {
	Key        string   `json:"key"`
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	VisitTime  string   `json:"visit_time"`
	VisitCount int      `json:"visit_count"`
	TypedCount int      `json:"typed_count"`
	Browser    string   `json:"browser"`
	Bookmarked bool     `json:"bookmarked,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func toEntryJSON(entries []browser.HistoryEntry) []entryJSON {
	out := make([]entryJSON, len(entries))
	for i, e := range entries {
		out[i] = entryJSON{
			Key:        browser.EntryKey(e.URL, e.VisitTime),
			URL:        e.URL,
			Title:      e.Title,
			Domain:     e.Domain,
			VisitTime:  timeutil.Format(e.VisitTime, time.RFC3339),
			VisitCount: e.VisitCount,
			TypedCount: e.TypedCount,
			Browser:    e.Browser,
			Bookmarked: e.Bookmarked,
			Tags:       e.Tags,
			Notes:      e.Notes,
		}
	}
	return out
}

// printEntries renders entries for human consumption.
func printEntries(entries []browser.HistoryEntry, zone string) {
	for i, e := range entries {
		title := e.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Printf("%d. %s\n", i+1, title)
		fmt.Printf("   %s\n", e.URL)

		meta := formatTime(e.VisitTime, zone)
		meta += fmt.Sprintf(" · %d visits", e.VisitCount)
		meta += " · " + e.Browser
		if e.Bookmarked {
			meta += " · bookmarked"
		}
		fmt.Printf("   %s\n", meta)

		if e.Notes != "" {
			fmt.Printf("   notes: %s\n", e.Notes)
		}
		if len(e.Tags) > 0 {
			fmt.Printf("   tags: %s\n", strings.Join(e.Tags, ", "))
		}

		if i < len(entries)-1 {
			fmt.Println()
		}
	}
}

// limitEntries truncates entries to limit when limit is positive.
func limitEntries(entries []browser.HistoryEntry, limit int) []browser.HistoryEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
