package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

func sampleEntries() []browser.HistoryEntry {
	return []browser.HistoryEntry{
		{
			URL:        "https://example.com/page?q=1",
			Title:      "Example Page",
			Domain:     "example.com",
			VisitTime:  time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
			VisitCount: 4,
			TypedCount: 1,
			Browser:    "Chrome",
			SourceFile: "History",
			Tags:       []string{"case-1", "reviewed"},
			Notes:      "flagged during triage",
		},
		{
			URL:        "https://other.org/<script>",
			Title:      `Needs "escaping" & more`,
			Domain:     "other.org",
			VisitTime:  time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
			VisitCount: 1,
			Browser:    "Firefox",
			SourceFile: "places.sqlite",
		},
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// --- csv ---

func TestExportCSVRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{})
	require.NoError(t, x.Export(sampleEntries(), FormatCSV, "out/history.csv"))

	r := csv.NewReader(strings.NewReader(readFile(t, fs, "out/history.csv")))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "https://example.com/page?q=1", records[1][0])
	assert.Equal(t, "4", records[1][4])
	assert.Equal(t, "case-1,reviewed", records[1][9])
	assert.Equal(t, "flagged during triage", records[1][10])
	assert.Equal(t, `Needs "escaping" & more`, records[2][1])
}

// --- json ---

func TestExportJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{})
	require.NoError(t, x.Export(sampleEntries(), FormatJSON, "history.json"))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, fs, "history.json")), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "https://example.com/page?q=1", decoded[0]["url"])
	assert.Equal(t, "2024-03-01T12:30:00Z", decoded[0]["visit_time"])
	assert.Equal(t, float64(4), decoded[0]["visit_count"])
	// omitempty keeps absent fields out
	_, hasNotes := decoded[1]["notes"]
	assert.False(t, hasNotes)
}

func TestExportJSONEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{})
	require.NoError(t, x.Export(nil, FormatJSON, "empty.json"))
	assert.Equal(t, "[]\n", readFile(t, fs, "empty.json"))
}

// --- html ---

func TestExportHTMLEscapes(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{Title: "Case <42>"})
	require.NoError(t, x.Export(sampleEntries(), FormatHTML, "report.html"))

	out := readFile(t, fs, "report.html")
	assert.Contains(t, out, "<title>Case &lt;42&gt;</title>")
	assert.Contains(t, out, "https://other.org/&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "2 entries.")
}

// --- timezone ---

func TestExportTimezoneConversion(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{Timezone: "America/New_York"})
	require.NoError(t, x.Export(sampleEntries(), FormatCSV, "tz.csv"))

	r := csv.NewReader(strings.NewReader(readFile(t, fs, "tz.csv")))
	records, err := r.ReadAll()
	require.NoError(t, err)
	// 12:30 UTC is 07:30 EST
	assert.Contains(t, records[1][3], "07:30:00")
}

// --- format selection ---

func TestFormatForPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.csv":        FormatCSV,
		"b.JSON":       FormatJSON,
		"report.html":  FormatHTML,
		"report.htm":   FormatHTML,
		"dir/deep.csv": FormatCSV,
	} {
		got, err := FormatForPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatForPath("history.xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatForPath("noext")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExportAuto(t *testing.T) {
	fs := afero.NewMemMapFs()
	x := New(fs, Options{})
	require.NoError(t, x.ExportAuto(sampleEntries(), "auto.json"))
	exists, err := afero.Exists(fs, "auto.json")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.ErrorIs(t, x.ExportAuto(nil, "auto.txt"), ErrUnsupportedFormat)
}

func TestExportUnknownFormat(t *testing.T) {
	x := New(afero.NewMemMapFs(), Options{})
	assert.ErrorIs(t, x.Export(nil, Format("xml"), "out.xml"), ErrUnsupportedFormat)
}
