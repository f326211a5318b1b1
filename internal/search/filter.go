// Package search filters, sorts and queries extracted history entries.
// A SearchFilter is an ordered list of pure predicates combined as AND;
// user-supplied regular expressions pass a complexity gate first and fail
// closed when rejected.
package search

import (
	"strings"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

// Predicate decides whether an entry survives filtering. Predicates are
// pure functions over immutable entries.
type Predicate func(*browser.HistoryEntry) bool

// SearchFilter accumulates predicates. Add methods return the filter for
// chaining; Apply runs them in order with per-entry short-circuiting.
type SearchFilter struct {
	predicates []Predicate
}

// NewFilter returns an empty filter that matches everything.
func NewFilter() *SearchFilter {
	return &SearchFilter{}
}

// searchText joins the fields a keyword filter inspects: URL, title,
// domain and annotation notes.
func searchText(e *browser.HistoryEntry) string {
	return strings.Join([]string{e.URL, e.Title, e.Domain, e.Notes}, " ")
}

// AddKeyword matches entries whose URL, title, domain or notes contain
// keyword. Case-insensitive unless caseSensitive; with useRegex the
// keyword is treated as a pattern and gated, rejecting every entry if
// invalid or unsafe.
func (f *SearchFilter) AddKeyword(keyword string, caseSensitive, useRegex bool) *SearchFilter {
	if useRegex {
		re := SafeCompile(keyword, !caseSensitive)
		f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
			if re == nil {
				return false
			}
			return safeMatch(re, searchText(e))
		})
		return f
	}

	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		text := searchText(e)
		if caseSensitive {
			return strings.Contains(text, keyword)
		}
		return strings.Contains(strings.ToLower(text), strings.ToLower(keyword))
	})
	return f
}

// AddURLPattern matches entries whose URL matches pattern. Regex by
// default; with useRegex false it is a plain case-insensitive substring.
func (f *SearchFilter) AddURLPattern(pattern string, useRegex bool) *SearchFilter {
	if useRegex {
		re := SafeCompile(pattern, true)
		f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
			if re == nil {
				return false
			}
			return safeMatch(re, e.URL)
		})
		return f
	}

	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		return strings.Contains(strings.ToLower(e.URL), strings.ToLower(pattern))
	})
	return f
}

// AddDomains matches entries whose domain is in the allow-set.
func (f *SearchFilter) AddDomains(domains []string) *SearchFilter {
	set := map[string]bool{}
	for _, d := range domains {
		set[d] = true
	}
	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		return set[e.Domain]
	})
	return f
}

// AddDateRange matches entries whose visit time lies within the
// inclusive bounds; a zero bound is open.
func (f *SearchFilter) AddDateRange(start, end time.Time) *SearchFilter {
	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		if !start.IsZero() && e.VisitTime.Before(start) {
			return false
		}
		if !end.IsZero() && e.VisitTime.After(end) {
			return false
		}
		return true
	})
	return f
}

// AddVisitCountRange matches entries whose visit count lies within the
// inclusive bounds; a bound of 0 is open.
func (f *SearchFilter) AddVisitCountRange(min, max int) *SearchFilter {
	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		if min > 0 && e.VisitCount < min {
			return false
		}
		if max > 0 && e.VisitCount > max {
			return false
		}
		return true
	})
	return f
}

// AddBrowsers matches entries from any of the given browsers.
func (f *SearchFilter) AddBrowsers(browsers []string) *SearchFilter {
	set := map[string]bool{}
	for _, b := range browsers {
		set[b] = true
	}
	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		return set[e.Browser]
	})
	return f
}

// AddBookmarked matches entries whose bookmarked flag equals the given
// state.
func (f *SearchFilter) AddBookmarked(bookmarked bool) *SearchFilter {
	f.predicates = append(f.predicates, func(e *browser.HistoryEntry) bool {
		return e.Bookmarked == bookmarked
	})
	return f
}

// AddPredicate appends a custom predicate.
func (f *SearchFilter) AddPredicate(p Predicate) *SearchFilter {
	f.predicates = append(f.predicates, p)
	return f
}

// Len returns the number of predicates added.
func (f *SearchFilter) Len() int {
	return len(f.predicates)
}

// Clear removes all predicates.
func (f *SearchFilter) Clear() {
	f.predicates = nil
}

// Apply returns the entries passing every predicate, in input order. The
// first failing predicate short-circuits the rest for that entry.
func (f *SearchFilter) Apply(entries []browser.HistoryEntry) []browser.HistoryEntry {
	if len(f.predicates) == 0 {
		return entries
	}

	out := []browser.HistoryEntry{}
	for i := range entries {
		keep := true
		for _, p := range f.predicates {
			if !p(&entries[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, entries[i])
		}
	}
	return out
}
