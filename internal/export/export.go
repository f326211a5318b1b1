// Package export writes history entries to CSV, JSON and HTML report
// files. Writers go through an afero filesystem so tests never touch
// disk.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/boomhacked/BrowserHunter/internal/browser"
	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned for a format Export does not know.
var ErrUnsupportedFormat = errors.New("export: unsupported format")

// Options control the rendering of an export.
type Options struct {
	// Timezone is an IANA zone name visit times are converted to
	// before formatting. Empty leaves times in UTC.
	Timezone string
	// Title heads the HTML report. Ignored by other formats.
	Title string
}

// Exporter renders entries into one of the supported formats.
type Exporter struct {
	fs   afero.Fs
	opts Options
}

// New returns an Exporter writing through fs.
func New(fs afero.Fs, opts Options) *Exporter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Exporter{fs: fs, opts: opts}
}

// FormatForPath derives the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".html", ".htm":
		return FormatHTML, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "cannot infer format from %q", filepath.Ext(path))
}

// Export renders entries in the given format and writes them to path.
func (x *Exporter) Export(entries []browser.HistoryEntry, format Format, path string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = x.renderCSV(entries)
	case FormatJSON:
		data, err = x.renderJSON(entries)
	case FormatHTML:
		data, err = x.renderHTML(entries)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := x.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "export: create output directory")
		}
	}
	if err := afero.WriteFile(x.fs, path, data, 0o644); err != nil {
		return errors.Wrap(err, "export: write output")
	}
	return nil
}

// ExportAuto derives the format from the path extension and exports.
func (x *Exporter) ExportAuto(entries []browser.HistoryEntry, path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	return x.Export(entries, format, path)
}

func (x *Exporter) localize(t time.Time) time.Time {
	if x.opts.Timezone == "" {
		return t
	}
	return timeutil.ConvertZone(t, x.opts.Timezone)
}

var csvHeader = []string{
	"url", "title", "domain", "visit_time", "visit_count", "typed_count",
	"browser", "source_file", "bookmarked", "tags", "notes",
}

func (x *Exporter) renderCSV(entries []browser.HistoryEntry) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, errors.Wrap(err, "export: csv header")
	}
	for _, e := range entries {
		record := []string{
			e.URL,
			e.Title,
			e.Domain,
			timeutil.Format(x.localize(e.VisitTime), ""),
			strconv.Itoa(e.VisitCount),
			strconv.Itoa(e.TypedCount),
			e.Browser,
			e.SourceFile,
			strconv.FormatBool(e.Bookmarked),
			strings.Join(e.Tags, ","),
			e.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrap(err, "export: csv record")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "export: csv flush")
	}
	return []byte(buf.String()), nil
}

// jsonEntry is the export shape for one history entry.
type jsonEntry struct {
	URL        string   `json:"url"`
	Title      string   `json:"title,omitempty"`
	Domain     string   `json:"domain,omitempty"`
	VisitTime  string   `json:"visit_time"`
	VisitCount int      `json:"visit_count"`
	TypedCount int      `json:"typed_count"`
	Browser    string   `json:"browser"`
	SourceFile string   `json:"source_file,omitempty"`
	Bookmarked bool     `json:"bookmarked,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

func (x *Exporter) renderJSON(entries []browser.HistoryEntry) ([]byte, error) {
	out := make([]jsonEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, jsonEntry{
			URL:        e.URL,
			Title:      e.Title,
			Domain:     e.Domain,
			VisitTime:  timeutil.Format(x.localize(e.VisitTime), time.RFC3339),
			VisitCount: e.VisitCount,
			TypedCount: e.TypedCount,
			Browser:    e.Browser,
			SourceFile: e.SourceFile,
			Bookmarked: e.Bookmarked,
			Tags:       e.Tags,
			Notes:      e.Notes,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "export: marshal json")
	}
	return append(data, '\n'), nil
}

func (x *Exporter) renderHTML(entries []browser.HistoryEntry) ([]byte, error) {
	title := x.opts.Title
	if title == "" {
		title = "Browsing History Report"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	b.WriteString(reportStyle)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<p>Generated %s. %d entries.</p>\n",
		html.EscapeString(timeutil.Format(x.localize(time.Now().UTC()), "")), len(entries))
	b.WriteString("<table>\n<tr><th>Time</th><th>URL</th><th>Title</th><th>Browser</th><th>Visits</th></tr>\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td></tr>\n",
			html.EscapeString(timeutil.Format(x.localize(e.VisitTime), "")),
			html.EscapeString(e.URL),
			html.EscapeString(e.Title),
			html.EscapeString(e.Browser),
			e.VisitCount)
	}
	b.WriteString("</table>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

const reportStyle = `<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
th { background: #f0f0f0; }
</style>
`
