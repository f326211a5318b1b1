package cli

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2021-03-01 12:00:00 UTC in Chromium microseconds.
const testChromiumBase = (int64(1614600000) + 11644473600) * 1e6

// writeTestConfig writes a minimal config and returns its path, so
// commands never touch the user's real config directory.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
general:
  timezone: "UTC"
annotations:
  file: "` + filepath.Join(t.TempDir(), "annotations.json") + `"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chromiumFixture builds a minimal Chromium History database.
func chromiumFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	stmts := []string{
		`CREATE TABLE urls (
			id INTEGER PRIMARY KEY,
			url TEXT,
			title TEXT,
			visit_count INTEGER,
			typed_count INTEGER,
			last_visit_time INTEGER,
			hidden INTEGER
		)`,
		`CREATE TABLE visits (id INTEGER PRIMARY KEY, url INTEGER, visit_time INTEGER)`,
		`INSERT INTO urls VALUES (1, 'https://example.com/alpha', 'Alpha', 5, 1, ` + strconv.FormatInt(testChromiumBase, 10) + `, 0)`,
		`INSERT INTO urls VALUES (2, 'https://other.test/beta', 'Beta', 2, 0, ` + strconv.FormatInt(testChromiumBase+3600e6, 10) + `, 0)`,
		`INSERT INTO visits VALUES (1, 1, ` + strconv.FormatInt(testChromiumBase, 10) + `)`,
		`INSERT INTO visits VALUES (2, 2, ` + strconv.FormatInt(testChromiumBase+3600e6, 10) + `)`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "statement: %s", stmt)
	}
	return path
}

func TestHistoryExecuteJSON(t *testing.T) {
	cfgPath := writeTestConfig(t)
	dbPath := chromiumFixture(t)

	c := &HistoryCommand{globals: &GlobalFlags{Config: cfgPath, JSON: true}}
	c.Args.File = dbPath

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "https://example.com/alpha", entries[0]["url"])
	assert.Equal(t, "Chrome", entries[0]["browser"])
	assert.NotEmpty(t, entries[0]["key"])
}

func TestHistoryExecuteLimit(t *testing.T) {
	c := &HistoryCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}, Limit: 1}
	c.Args.File = chromiumFixture(t)

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	assert.Len(t, entries, 1)
}

func TestHistoryExecuteMissingFile(t *testing.T) {
	c := &HistoryCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}}
	c.Args.File = "/nonexistent/History.db"
	assert.Error(t, c.Execute(nil))
}

func TestHistoryExecuteUnknownBrowser(t *testing.T) {
	c := &HistoryCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, Browser: "netscape"}
	c.Args.File = chromiumFixture(t)
	err := c.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown browser")
}

func TestSearchExecuteFiltersEntries(t *testing.T) {
	c := &SearchCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}, Sort: "date", Limit: 50}
	c.Args.File = chromiumFixture(t)
	c.Args.Query = []string{"alpha"}

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "https://example.com/alpha", entries[0]["url"])
}

func TestSearchExecuteRejectsBadDate(t *testing.T) {
	c := &SearchCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, Sort: "date", Since: "not-a-date"}
	c.Args.File = chromiumFixture(t)
	err := c.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
}

func TestSearchExecuteRejectsUnknownSortField(t *testing.T) {
	c := &SearchCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, Sort: "entropy"}
	c.Args.File = chromiumFixture(t)
	err := c.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort field")
}

func TestSessionsExecuteJSON(t *testing.T) {
	c := &SessionsCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}, Gap: 30}
	c.Args.File = chromiumFixture(t)

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var sessions []map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &sessions))
	// Two visits one hour apart with a 30 minute gap means two sessions.
	assert.Len(t, sessions, 2)
}

func TestStatsExecuteJSON(t *testing.T) {
	c := &StatsCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}}
	c.Args.File = chromiumFixture(t)

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var stats map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &stats))
	assert.Equal(t, float64(2), stats["total_entries"])
	assert.Equal(t, float64(7), stats["total_visits"])
	assert.Equal(t, float64(2), stats["unique_domains"])
}

func TestExportExecuteWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "history.csv")
	c := &ExportCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, Output: out}
	c.Args.File = chromiumFixture(t)

	var runErr error
	captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://example.com/alpha")
}

func TestAnnotateExecuteRoundTrip(t *testing.T) {
	cfgPath := writeTestConfig(t)
	storePath := filepath.Join(t.TempDir(), "annotations.json")

	set := &AnnotateCommand{globals: &GlobalFlags{Config: cfgPath}, Store: storePath, Key: "k1", Notes: "pivot point", Tag: []string{"case-7"}, Bookmark: true}
	var runErr error
	captureOutput(t, func() { runErr = set.Execute(nil) })
	require.NoError(t, runErr)

	show := &AnnotateCommand{globals: &GlobalFlags{Config: cfgPath}, Store: storePath, Key: "k1"}
	output := captureOutput(t, func() { runErr = show.Execute(nil) })
	require.NoError(t, runErr)
	assert.Contains(t, output, "pivot point")
	assert.Contains(t, output, "case-7")
	assert.Contains(t, output, "bookmarked")

	clear := &AnnotateCommand{globals: &GlobalFlags{Config: cfgPath}, Store: storePath, Key: "k1", Clear: true}
	captureOutput(t, func() { runErr = clear.Execute(nil) })
	require.NoError(t, runErr)

	gone := &AnnotateCommand{globals: &GlobalFlags{Config: cfgPath}, Store: storePath, Key: "k1"}
	output = captureOutput(t, func() { runErr = gone.Execute(nil) })
	require.NoError(t, runErr)
	assert.Contains(t, output, "No annotation")
}

func TestLookupExecuteRequiresTarget(t *testing.T) {
	c := &LookupCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}}
	err := c.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url or --domain")
}

func TestLookupExecuteWhoisRequiresDomain(t *testing.T) {
	c := &LookupCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, URL: "https://a.com", Whois: true}
	err := c.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--whois requires --domain")
}

func TestLookupExecuteWithoutKeyFails(t *testing.T) {
	c := &LookupCommand{globals: &GlobalFlags{Config: writeTestConfig(t)}, URL: "https://a.com"}
	assert.Error(t, c.Execute(nil))
}

func TestInspectExecuteSummaryJSON(t *testing.T) {
	c := &InspectCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}, Limit: 20}
	c.Args.File = chromiumFixture(t)

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Equal(t, "Chrome", summary["family"])
	assert.NotEmpty(t, summary["sha256"])
}

func TestInspectExecuteRows(t *testing.T) {
	c := &InspectCommand{globals: &GlobalFlags{Config: writeTestConfig(t), JSON: true}, Table: "urls", Limit: 20}
	c.Args.File = chromiumFixture(t)

	var runErr error
	output := captureOutput(t, func() { runErr = c.Execute(nil) })
	require.NoError(t, runErr)

	var rows inspectRowsJSON
	require.NoError(t, json.Unmarshal([]byte(output), &rows))
	assert.Equal(t, "urls", rows.Table)
	assert.Len(t, rows.Rows, 2)
}
