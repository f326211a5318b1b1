package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

func TestSortEntries_ByDate(t *testing.T) {
	entries := sampleEntries()

	asc := SortEntries(entries, SortByDate, true)
	assert.True(t, asc[0].VisitTime.Before(asc[2].VisitTime))

	desc := SortEntries(entries, SortByDate, false)
	assert.True(t, desc[0].VisitTime.After(desc[2].VisitTime))

	// Input untouched.
	assert.Equal(t, sampleEntries(), entries)
}

func TestSortEntries_ByVisitCount(t *testing.T) {
	got := SortEntries(sampleEntries(), SortByVisitCount, false)
	require.Len(t, got, 3)
	assert.Equal(t, 10, got[0].VisitCount)
	assert.Equal(t, 1, got[2].VisitCount)
}

func TestSortEntries_StringKeysCaseInsensitive(t *testing.T) {
	ts := time.Now().UTC()
	entries := []browser.HistoryEntry{
		entry("https://z.test/", "zebra", "Chrome", 1, ts),
		entry("https://a.test/", "APPLE", "Chrome", 1, ts),
		entry("https://m.test/", "mango", "Chrome", 1, ts),
	}

	got := SortEntries(entries, SortByTitle, true)
	assert.Equal(t, "APPLE", got[0].Title)
	assert.Equal(t, "zebra", got[2].Title)
}

func TestSortEntries_MissingTitleSortsAsEmpty(t *testing.T) {
	ts := time.Now().UTC()
	entries := []browser.HistoryEntry{
		entry("https://b.test/", "Beta", "Chrome", 1, ts),
		entry("https://a.test/", "", "Chrome", 1, ts),
	}
	got := SortEntries(entries, SortByTitle, true)
	assert.Equal(t, "", got[0].Title)
}

func TestSortEntries_StableOnTies(t *testing.T) {
	ts := time.Now().UTC()
	entries := []browser.HistoryEntry{
		entry("https://one.test/", "same", "Chrome", 5, ts),
		entry("https://two.test/", "same", "Chrome", 5, ts),
		entry("https://three.test/", "same", "Chrome", 5, ts),
	}
	wantOrder := []string{"https://one.test/", "https://two.test/", "https://three.test/"}

	for _, ascending := range []bool{true, false} {
		got := SortEntries(entries, SortByTitle, ascending)
		var urls []string
		for _, e := range got {
			urls = append(urls, e.URL)
		}
		assert.Equal(t, wantOrder, urls, "ascending=%v", ascending)
	}
}

func TestSortEntries_UnknownFieldFallsBackToDate(t *testing.T) {
	got := SortEntries(sampleEntries(), "bogus", true)
	assert.True(t, got[0].VisitTime.Before(got[1].VisitTime))
}
