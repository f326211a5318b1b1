package browser

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Fixture databases mirror the table subsets the mappers query. Timestamps
// are fixed so tests can assert exact instants.

const (
	// 2021-03-01 12:00:00 UTC
	fixtureUnixSec      = int64(1614600000)
	fixtureChromiumBase = (fixtureUnixSec + 11644473600) * 1e6
	fixtureGeckoBase    = fixtureUnixSec * 1e6
)

func execAll(t *testing.T, db *sql.DB, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "statement: %s", stmt)
	}
}

func createDB(t *testing.T, name string, build func(*sql.DB)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	build(db)
	return path
}

func chromiumHistoryDB(t *testing.T) string {
	t.Helper()
	return createDB(t, "History.db", func(db *sql.DB) {
		execAll(t, db,
			`CREATE TABLE urls (
				id INTEGER PRIMARY KEY,
				url TEXT,
				title TEXT,
				visit_count INTEGER,
				typed_count INTEGER,
				last_visit_time INTEGER,
				hidden INTEGER
			)`,
			`CREATE TABLE visits (
				id INTEGER PRIMARY KEY,
				url INTEGER,
				visit_time INTEGER
			)`,
			`CREATE TABLE downloads (
				id INTEGER PRIMARY KEY,
				current_path TEXT,
				target_path TEXT,
				start_time INTEGER,
				end_time INTEGER,
				received_bytes INTEGER,
				total_bytes INTEGER,
				state INTEGER,
				danger_type INTEGER,
				mime_type TEXT,
				original_mime_type TEXT,
				tab_url TEXT,
				tab_referrer_url TEXT
			)`,
		)

		stmt, err := db.Prepare(`INSERT INTO urls VALUES (?, ?, ?, ?, ?, ?, ?)`)
		require.NoError(t, err)
		defer stmt.Close()
		_, err = stmt.Exec(1, "https://example.com/page?q=hello", "Example", 5, 2, fixtureChromiumBase, 0)
		require.NoError(t, err)
		_, err = stmt.Exec(2, "https://news.test/", "News", 1, 0, fixtureChromiumBase+60e6, 1)
		require.NoError(t, err)
		// Row with NULL title and a zero timestamp.
		_, err = stmt.Exec(3, "https://blank.test/", nil, 0, 0, 0, 0)
		require.NoError(t, err)

		execAll(t, db,
			`INSERT INTO visits VALUES (1, 1, `+itoa(fixtureChromiumBase)+`)`,
			`INSERT INTO visits VALUES (2, 2, `+itoa(fixtureChromiumBase+60e6)+`)`,
			`INSERT INTO downloads VALUES
				(1, '/tmp/a.part', '/home/u/a.zip', `+itoa(fixtureChromiumBase)+`, `+itoa(fixtureChromiumBase+5e6)+`,
				 2048, 4096, 3, 1, 'application/zip', '', 'https://dl.test/a.zip', ''),
				(2, '', '/home/u/b.pdf', `+itoa(fixtureChromiumBase+10e6)+`, 0,
				 100, 100, 1, 0, 'application/pdf', '', '', 'https://ref.test/')`,
		)
	})
}

func chromiumCookieDB(t *testing.T) string {
	t.Helper()
	return createDB(t, "Cookies.db", func(db *sql.DB) {
		execAll(t, db,
			`CREATE TABLE cookies (
				host_key TEXT,
				name TEXT,
				value TEXT,
				path TEXT,
				creation_utc INTEGER,
				expires_utc INTEGER,
				last_access_utc INTEGER,
				is_secure INTEGER,
				is_httponly INTEGER,
				is_persistent INTEGER
			)`,
			`INSERT INTO cookies VALUES
				('.example.com', 'sid', 'abc123', '/', `+itoa(fixtureChromiumBase)+`,
				 `+itoa(fixtureChromiumBase+86400e6)+`, `+itoa(fixtureChromiumBase)+`, 1, 1, 1),
				('.session.test', 'tmp', 'x', '/', `+itoa(fixtureChromiumBase)+`,
				 0, `+itoa(fixtureChromiumBase)+`, 0, 0, 0)`,
		)
	})
}

func geckoPlacesDB(t *testing.T) string {
	t.Helper()
	return createDB(t, "places.sqlite", func(db *sql.DB) {
		execAll(t, db,
			`CREATE TABLE moz_places (
				id INTEGER PRIMARY KEY,
				url TEXT,
				title TEXT,
				visit_count INTEGER,
				typed INTEGER,
				hidden INTEGER,
				last_visit_date INTEGER
			)`,
			`CREATE TABLE moz_historyvisits (
				id INTEGER PRIMARY KEY,
				place_id INTEGER,
				visit_date INTEGER
			)`,
			`CREATE TABLE moz_bookmarks (
				id INTEGER PRIMARY KEY,
				type INTEGER,
				fk INTEGER,
				parent INTEGER,
				title TEXT,
				dateAdded INTEGER
			)`,
			`CREATE TABLE moz_anno_attributes (id INTEGER PRIMARY KEY, name TEXT)`,
			`CREATE TABLE moz_annos (
				id INTEGER PRIMARY KEY,
				place_id INTEGER,
				anno_attribute_id INTEGER,
				content TEXT,
				dateAdded INTEGER,
				lastModified INTEGER
			)`,
			`INSERT INTO moz_places VALUES
				(1, 'https://mozilla.org/', 'Mozilla', 3, 1, 0, `+itoa(fixtureGeckoBase)+`),
				(2, 'https://forum.test/thread?id=9', 'Forum', 7, 0, 0, `+itoa(fixtureGeckoBase+120e6)+`)`,
			`INSERT INTO moz_historyvisits VALUES
				(1, 1, `+itoa(fixtureGeckoBase)+`),
				(2, 2, `+itoa(fixtureGeckoBase+120e6)+`)`,
			`INSERT INTO moz_bookmarks VALUES
				(10, 1, 1, 3, 'Mozilla Home', `+itoa(fixtureGeckoBase)+`),
				(11, 2, 0, 2, 'A Folder', `+itoa(fixtureGeckoBase)+`)`,
			`INSERT INTO moz_anno_attributes VALUES (1, 'downloads/destinationFileURI')`,
			`INSERT INTO moz_annos VALUES
				(1, 2, 1, 'file:///home/u/report.pdf', `+itoa(fixtureGeckoBase)+`, `+itoa(fixtureGeckoBase+3e6)+`)`,
		)
	})
}

func geckoFormHistoryDB(t *testing.T) string {
	t.Helper()
	return createDB(t, "formhistory.sqlite", func(db *sql.DB) {
		execAll(t, db,
			`CREATE TABLE moz_formhistory (
				id INTEGER PRIMARY KEY,
				fieldname TEXT,
				value TEXT,
				timesUsed INTEGER,
				firstUsed INTEGER,
				lastUsed INTEGER
			)`,
			`INSERT INTO moz_formhistory VALUES
				(1, 'email', 'user@test.org', 4, `+itoa(fixtureGeckoBase)+`, `+itoa(fixtureGeckoBase+9e6)+`)`,
		)
	})
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
