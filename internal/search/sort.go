package search

import (
	"sort"
	"strings"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

// Sort fields for history entries.
const (
	SortByDate       = "date"
	SortByURL        = "url"
	SortByTitle      = "title"
	SortByDomain     = "domain"
	SortByVisitCount = "visit_count"
	SortByBrowser    = "browser"
)

// SortEntries returns a stably sorted copy of entries. String keys
// compare case-insensitively and a missing title sorts as the empty
// string. An unrecognized field sorts by date. Ties keep the original
// relative order in both directions.
func SortEntries(entries []browser.HistoryEntry, field string, ascending bool) []browser.HistoryEntry {
	out := make([]browser.HistoryEntry, len(entries))
	copy(out, entries)

	less := lessFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(&out[i], &out[j])
		}
		return less(&out[j], &out[i])
	})
	return out
}

func lessFunc(field string) func(a, b *browser.HistoryEntry) bool {
	switch field {
	case SortByURL:
		return func(a, b *browser.HistoryEntry) bool {
			return strings.ToLower(a.URL) < strings.ToLower(b.URL)
		}
	case SortByTitle:
		return func(a, b *browser.HistoryEntry) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortByDomain:
		return func(a, b *browser.HistoryEntry) bool {
			return strings.ToLower(a.Domain) < strings.ToLower(b.Domain)
		}
	case SortByVisitCount:
		return func(a, b *browser.HistoryEntry) bool {
			return a.VisitCount < b.VisitCount
		}
	case SortByBrowser:
		return func(a, b *browser.HistoryEntry) bool {
			return strings.ToLower(a.Browser) < strings.ToLower(b.Browser)
		}
	default:
		return func(a, b *browser.HistoryEntry) bool {
			return a.VisitTime.Before(b.VisitTime)
		}
	}
}
