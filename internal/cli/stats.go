package cli

import (
	"fmt"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/analytics"
	"github.com/boomhacked/BrowserHunter/internal/config"
	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

type statsJSON struct {
	File                string           `json:"file"`
	TotalEntries        int              `json:"total_entries"`
	TotalVisits         int              `json:"total_visits"`
	UniqueURLs          int              `json:"unique_urls"`
	UniqueDomains       int              `json:"unique_domains"`
	FirstVisit          string           `json:"first_visit,omitempty"`
	LastVisit           string           `json:"last_visit,omitempty"`
	BrowserDistribution map[string]int   `json:"browser_distribution"`
	TopDomains          []topDomainJSON  `json:"top_domains"`
	SearchQueries       []searchTermJSON `json:"search_queries,omitempty"`
	DuplicateGroups     int              `json:"duplicate_groups"`
	SensitiveVisits     []entryJSON      `json:"sensitive_visits,omitempty"`
}

type topDomainJSON struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

type searchTermJSON struct {
	Query string `json:"query"`
	Time  string `json:"time"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	entries, err := loadEntries(c.Args.File, c.Browser, "", log)
	if err != nil {
		return err
	}

	report := analytics.Summarize(entries)
	queries := analytics.SearchQueries(entries)

	watch := cfg.Analysis.SensitiveDomains
	if len(watch) == 0 {
		watch = config.DefaultSensitiveDomains()
	}
	var sensitive []entryJSON
	if c.Sensitive {
		sensitive = toEntryJSON(analytics.SensitiveVisits(entries, watch))
	}

	zone := displayZone(c.globals, cfg)

	if c.globals != nil && c.globals.JSON {
		out := statsJSON{
			File:                c.Args.File,
			TotalEntries:        report.TotalEntries,
			TotalVisits:         report.TotalVisits,
			UniqueURLs:          report.UniqueURLs,
			UniqueDomains:       report.UniqueDomains,
			BrowserDistribution: report.BrowserDistribution,
			DuplicateGroups:     report.DuplicateGroups,
			SensitiveVisits:     sensitive,
		}
		if !report.FirstVisit.IsZero() {
			out.FirstVisit = timeutil.Format(report.FirstVisit, time.RFC3339)
			out.LastVisit = timeutil.Format(report.LastVisit, time.RFC3339)
		}
		for _, d := range report.TopDomains {
			out.TopDomains = append(out.TopDomains, topDomainJSON{Domain: d.Domain, Count: d.Count})
		}
		for _, q := range queries {
			out.SearchQueries = append(out.SearchQueries, searchTermJSON{
				Query: q.Query,
				Time:  timeutil.Format(q.Time, time.RFC3339),
			})
		}
		return printJSON(out)
	}

	fmt.Println("History Statistics")
	fmt.Println("==================")
	fmt.Printf("File:            %s\n", c.Args.File)
	fmt.Printf("Entries:         %d\n", report.TotalEntries)
	fmt.Printf("Total visits:    %d\n", report.TotalVisits)
	fmt.Printf("Unique URLs:     %d\n", report.UniqueURLs)
	fmt.Printf("Unique domains:  %d\n", report.UniqueDomains)
	if !report.FirstVisit.IsZero() {
		fmt.Printf("First visit:     %s\n", formatTime(report.FirstVisit, zone))
		fmt.Printf("Last visit:      %s\n", formatTime(report.LastVisit, zone))
	}
	fmt.Printf("Duplicates:      %d groups\n", report.DuplicateGroups)

	if len(report.TopDomains) > 0 {
		fmt.Println()
		fmt.Println("Top Domains:")
		for _, d := range report.TopDomains {
			fmt.Printf("  %-28s %d\n", d.Domain, d.Count)
		}
	}

	if len(queries) > 0 {
		fmt.Println()
		fmt.Println("Search Queries:")
		for _, q := range queries {
			fmt.Printf("  %s  %q\n", formatTime(q.Time, zone), q.Query)
		}
	}

	if c.Sensitive && len(sensitive) > 0 {
		fmt.Println()
		fmt.Println("Sensitive Visits:")
		for _, e := range sensitive {
			fmt.Printf("  %s  %s\n", e.VisitTime, e.URL)
		}
	}

	return nil
}
