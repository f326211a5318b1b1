package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openGecko(t *testing.T, path string) *GeckoMapper {
	t.Helper()
	m, err := NewGeckoMapper(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestGeckoHistory(t *testing.T) {
	m := openGecko(t, geckoPlacesDB(t))

	entries := m.History()
	require.Len(t, entries, 2)

	// Ordered by visit_date DESC: forum entry first.
	forum := entries[0]
	assert.Equal(t, "https://forum.test/thread?id=9", forum.URL)
	assert.Equal(t, "Firefox", forum.Browser)
	assert.Equal(t, 7, forum.VisitCount)
	assert.True(t, forum.VisitTime.Equal(time.Unix(fixtureUnixSec+120, 0).UTC()))
	assert.Equal(t, "forum.test", forum.Domain)
	assert.Equal(t, []string{"9"}, forum.URLParams["id"])

	home := entries[1]
	assert.Equal(t, 1, home.TypedCount)
	assert.True(t, home.LastVisitTime.Equal(time.Unix(fixtureUnixSec, 0).UTC()))
}

func TestGeckoDownloads(t *testing.T) {
	m := openGecko(t, geckoPlacesDB(t))

	downloads := m.Downloads()
	require.Len(t, downloads, 1)

	d := downloads[0]
	assert.Equal(t, "https://forum.test/thread?id=9", d.URL)
	assert.Equal(t, "file:///home/u/report.pdf", d.TargetPath)
	assert.Equal(t, DownloadUnknown, d.State)
	assert.Zero(t, d.TotalBytes, "places.sqlite carries no byte counters")
	assert.False(t, d.EndTime.IsZero())
}

func TestGeckoBookmarks_FiltersToBookmarkType(t *testing.T) {
	m := openGecko(t, geckoPlacesDB(t))

	bookmarks := m.Bookmarks()
	require.Len(t, bookmarks, 1, "folder rows (type != 1) excluded")

	b := bookmarks[0]
	assert.Equal(t, "Mozilla Home", b.Title)
	assert.Equal(t, "https://mozilla.org/", b.URL)
	assert.Equal(t, "3", b.ParentFolder, "raw parent id, not resolved")
	assert.True(t, b.DateAdded.Equal(time.Unix(fixtureUnixSec, 0).UTC()))
}

func TestGeckoFormHistory(t *testing.T) {
	m := openGecko(t, geckoPlacesDB(t))

	forms := m.FormHistory(geckoFormHistoryDB(t))
	require.Len(t, forms, 1)

	f := forms[0]
	assert.Equal(t, "email", f.FieldName)
	assert.Equal(t, "user@test.org", f.Value)
	assert.Equal(t, 4, f.TimesUsed)
	assert.True(t, f.FirstUsed.Equal(time.Unix(fixtureUnixSec, 0).UTC()))
	assert.True(t, f.LastUsed.After(f.FirstUsed))
}

func TestGeckoFormHistory_NoPathGiven(t *testing.T) {
	m := openGecko(t, geckoPlacesDB(t))
	assert.Empty(t, m.FormHistory(""))
	assert.Empty(t, m.Cookies(""))
}

// --- shared model helpers ---

func TestEntryKey_Deterministic(t *testing.T) {
	ts := time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

	k1 := EntryKey("https://example.com/", ts)
	k2 := EntryKey("https://example.com/", ts.In(time.FixedZone("X", 3600)))
	require.Equal(t, k1, k2, "key is computed on the UTC instant")
	assert.Len(t, k1, 64)

	assert.NotEqual(t, k1, EntryKey("https://example.com/other", ts))
	assert.NotEqual(t, k1, EntryKey("https://example.com/", ts.Add(time.Second)))
}

func TestExtractDomainAndParams(t *testing.T) {
	assert.Equal(t, "sub.example.com", ExtractDomain("https://sub.example.com:8443/a/b?x=1"))
	assert.Equal(t, "", ExtractDomain("::not a url::"))

	params := ExtractParams("https://e.test/?a=1&a=2&b=3")
	assert.Equal(t, []string{"1", "2"}, params["a"])
	assert.Equal(t, []string{"3"}, params["b"])
}
