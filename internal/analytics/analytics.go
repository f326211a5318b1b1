// Package analytics computes aggregate statistics over extracted history
// entries: domain rankings, activity histograms, duplicate detection and
// idle-gap session segmentation. Everything operates on immutable
// in-memory slices; nothing is persisted.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

// DefaultSessionGapMinutes is the idle threshold splitting sessions.
const DefaultSessionGapMinutes = 30

// DomainCount pairs a domain with an accumulated visit count.
type DomainCount struct {
	Domain string
	Count  int
}

// URLCount pairs a URL and its title with an accumulated visit count.
type URLCount struct {
	URL    string
	Title  string
	Visits int
}

// Session is one contiguous run of visits with no idle gap above the
// threshold. Recomputed on demand, never stored.
type Session struct {
	Start           time.Time
	End             time.Time
	Entries         []browser.HistoryEntry
	Domains         []string
	DurationMinutes float64
}

// EntryCount returns the number of visits in the session.
func (s *Session) EntryCount() int { return len(s.Entries) }

// SegmentSessions splits entries into sessions: entries are sorted by
// visit time ascending, then walked in order; a gap above gapMinutes
// closes the current session and anchors a new one at the current entry.
// Duration is end minus start, not a sum of dwell times. Empty input
// yields an empty list; a single entry yields one zero-duration session.
func SegmentSessions(entries []browser.HistoryEntry, gapMinutes int) []Session {
	if len(entries) == 0 {
		return []Session{}
	}
	if gapMinutes <= 0 {
		gapMinutes = DefaultSessionGapMinutes
	}

	sorted := make([]browser.HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VisitTime.Before(sorted[j].VisitTime)
	})

	gap := time.Duration(gapMinutes) * time.Minute
	var sessions []Session
	current := newSession(sorted[0])

	for _, e := range sorted[1:] {
		if e.VisitTime.Sub(current.End) <= gap {
			current.End = e.VisitTime
			current.Entries = append(current.Entries, e)
			continue
		}
		sessions = append(sessions, finishSession(current))
		current = newSession(e)
	}
	return append(sessions, finishSession(current))
}

func newSession(e browser.HistoryEntry) Session {
	return Session{
		Start:   e.VisitTime,
		End:     e.VisitTime,
		Entries: []browser.HistoryEntry{e},
	}
}

func finishSession(s Session) Session {
	s.DurationMinutes = s.End.Sub(s.Start).Minutes()
	seen := map[string]bool{}
	for _, e := range s.Entries {
		if e.Domain != "" && !seen[e.Domain] {
			seen[e.Domain] = true
			s.Domains = append(s.Domains, e.Domain)
		}
	}
	return s
}

// TopDomains ranks domains by accumulated visit count, highest first,
// ties broken by domain name for a deterministic order.
func TopDomains(entries []browser.HistoryEntry, limit int) []DomainCount {
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Domain] += e.VisitCount
	}

	ranked := make([]DomainCount, 0, len(counts))
	for d, c := range counts {
		ranked = append(ranked, DomainCount{Domain: d, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Domain < ranked[j].Domain
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// MostVisitedURLs ranks distinct URLs by accumulated visit count.
func MostVisitedURLs(entries []browser.HistoryEntry, limit int) []URLCount {
	visits := map[string]*URLCount{}
	var order []string
	for _, e := range entries {
		uc, ok := visits[e.URL]
		if !ok {
			visits[e.URL] = &URLCount{URL: e.URL, Title: e.Title, Visits: e.VisitCount}
			order = append(order, e.URL)
			continue
		}
		uc.Visits += e.VisitCount
	}

	ranked := make([]URLCount, 0, len(order))
	for _, u := range order {
		ranked = append(ranked, *visits[u])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Visits > ranked[j].Visits
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TotalVisits sums visit counts across all entries.
func TotalVisits(entries []browser.HistoryEntry) int {
	total := 0
	for _, e := range entries {
		total += e.VisitCount
	}
	return total
}

// UniqueURLs counts distinct URLs.
func UniqueURLs(entries []browser.HistoryEntry) int {
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.URL] = true
	}
	return len(seen)
}

// UniqueDomains counts distinct domains.
func UniqueDomains(entries []browser.HistoryEntry) int {
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Domain] = true
	}
	return len(seen)
}

// DateRange returns the earliest and latest visit times, skipping zero
// timestamps. Both zero when no entry carries a usable time.
func DateRange(entries []browser.HistoryEntry) (time.Time, time.Time) {
	var min, max time.Time
	for _, e := range entries {
		if e.VisitTime.IsZero() {
			continue
		}
		if min.IsZero() || e.VisitTime.Before(min) {
			min = e.VisitTime
		}
		if max.IsZero() || e.VisitTime.After(max) {
			max = e.VisitTime
		}
	}
	return min, max
}

// BrowserDistribution counts entries per browser label.
func BrowserDistribution(entries []browser.HistoryEntry) map[string]int {
	dist := map[string]int{}
	for _, e := range entries {
		dist[e.Browser]++
	}
	return dist
}

// ActivityByHour buckets entries by hour of day (0-23) of their visit
// time.
func ActivityByHour(entries []browser.HistoryEntry) map[int]int {
	hours := map[int]int{}
	for _, e := range entries {
		if e.VisitTime.IsZero() {
			continue
		}
		hours[e.VisitTime.Hour()]++
	}
	return hours
}

// ActivityByWeekday buckets entries by day of week of their visit time.
func ActivityByWeekday(entries []browser.HistoryEntry) map[time.Weekday]int {
	days := map[time.Weekday]int{}
	for _, e := range entries {
		if e.VisitTime.IsZero() {
			continue
		}
		days[e.VisitTime.Weekday()]++
	}
	return days
}

// DuplicateGroups returns groups of entries sharing a URL, only for URLs
// that occur more than once.
func DuplicateGroups(entries []browser.HistoryEntry) [][]browser.HistoryEntry {
	byURL := map[string][]browser.HistoryEntry{}
	var order []string
	for _, e := range entries {
		if _, ok := byURL[e.URL]; !ok {
			order = append(order, e.URL)
		}
		byURL[e.URL] = append(byURL[e.URL], e)
	}

	var groups [][]browser.HistoryEntry
	for _, u := range order {
		if len(byURL[u]) > 1 {
			groups = append(groups, byURL[u])
		}
	}
	return groups
}

// searchEngineDomains identify URLs whose query strings may carry search
// terms.
var searchEngineDomains = []string{
	"google.com", "bing.com", "yahoo.com", "duckduckgo.com",
	"baidu.com", "yandex.com", "ask.com",
}

// searchQueryParams are the parameter names search engines put the query
// under, in probe order.
var searchQueryParams = []string{"q", "query", "search", "p", "text"}

// SearchQuery pairs an extracted search term with when it was issued.
type SearchQuery struct {
	Query string
	Time  time.Time
}

// SearchQueries extracts search terms from entries pointing at known
// search engines.
func SearchQueries(entries []browser.HistoryEntry) []SearchQuery {
	var queries []SearchQuery
	for _, e := range entries {
		if !isSearchEngine(e.Domain) {
			continue
		}
		for _, param := range searchQueryParams {
			if vals := e.URLParams[param]; len(vals) > 0 && vals[0] != "" {
				queries = append(queries, SearchQuery{Query: vals[0], Time: e.VisitTime})
				break
			}
		}
	}
	return queries
}

func isSearchEngine(domain string) bool {
	for _, se := range searchEngineDomains {
		if strings.Contains(domain, se) {
			return true
		}
	}
	return false
}

// SensitiveVisits returns entries whose domain matches one of the watch
// domains, either exactly or as a subdomain.
func SensitiveVisits(entries []browser.HistoryEntry, watch []string) []browser.HistoryEntry {
	var flagged []browser.HistoryEntry
	for _, e := range entries {
		for _, w := range watch {
			if e.Domain == w || strings.HasSuffix(e.Domain, "."+w) {
				flagged = append(flagged, e)
				break
			}
		}
	}
	return flagged
}

// IncognitoIndicators flags entries that look like one-off visits amid
// heavier usage: exactly one visit and never typed. A weak heuristic
// carried over from the desktop tool; private browsing leaves no history,
// so this only surfaces candidates for manual review.
func IncognitoIndicators(entries []browser.HistoryEntry) []browser.HistoryEntry {
	var suspicious []browser.HistoryEntry
	for _, e := range entries {
		if e.VisitCount == 1 && e.TypedCount == 0 {
			suspicious = append(suspicious, e)
		}
	}
	return suspicious
}

// Report is the combined summary over one entry set.
type Report struct {
	TotalEntries        int
	TotalVisits         int
	UniqueURLs          int
	UniqueDomains       int
	FirstVisit          time.Time
	LastVisit           time.Time
	BrowserDistribution map[string]int
	TopDomains          []DomainCount
	MostVisited         []URLCount
	ActivityByHour      map[int]int
	SearchQueryCount    int
	DuplicateGroups     int
}

// Summarize builds a Report over entries.
func Summarize(entries []browser.HistoryEntry) *Report {
	first, last := DateRange(entries)
	return &Report{
		TotalEntries:        len(entries),
		TotalVisits:         TotalVisits(entries),
		UniqueURLs:          UniqueURLs(entries),
		UniqueDomains:       UniqueDomains(entries),
		FirstVisit:          first,
		LastVisit:           last,
		BrowserDistribution: BrowserDistribution(entries),
		TopDomains:          TopDomains(entries, 10),
		MostVisited:         MostVisitedURLs(entries, 10),
		ActivityByHour:      ActivityByHour(entries),
		SearchQueryCount:    len(SearchQueries(entries)),
		DuplicateGroups:     len(DuplicateGroups(entries)),
	}
}
