package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/boomhacked/BrowserHunter/internal/search"
)

// sortFieldAliases maps --sort values to sort fields.
var sortFieldAliases = map[string]string{
	"date":    search.SortByDate,
	"url":     search.SortByURL,
	"title":   search.SortByTitle,
	"domain":  search.SortByDomain,
	"visits":  search.SortByVisitCount,
	"browser": search.SortByBrowser,
}

// Execute implements the go-flags Commander interface for SearchCommand.
func (c *SearchCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	filter, err := c.buildFilter()
	if err != nil {
		return err
	}

	sortField, ok := sortFieldAliases[strings.ToLower(c.Sort)]
	if !ok {
		return fmt.Errorf("unknown sort field %q", c.Sort)
	}

	entries, err := loadEntries(c.Args.File, c.Browser, c.Annotations, log)
	if err != nil {
		return err
	}

	results := filter.Apply(entries)
	results = search.SortEntries(results, sortField, c.Asc)
	results = limitEntries(results, c.Limit)

	if c.globals != nil && c.globals.JSON {
		return printJSON(toEntryJSON(results))
	}

	query := strings.Join(c.Args.Query, " ")
	if len(results) == 0 {
		if query != "" {
			fmt.Printf("No results found for %q\n", query)
		} else {
			fmt.Println("No results found")
		}
		return nil
	}

	resultWord := "results"
	if len(results) == 1 {
		resultWord = "result"
	}
	if query != "" {
		fmt.Printf("Found %d %s for %q\n\n", len(results), resultWord, query)
	} else {
		fmt.Printf("Found %d %s\n\n", len(results), resultWord)
	}

	printEntries(results, displayZone(c.globals, cfg))
	return nil
}

// buildFilter assembles the filter from the free-form query plus the
// structured flags.
func (c *SearchCommand) buildFilter() (*search.SearchFilter, error) {
	var filter *search.SearchFilter
	query := strings.Join(c.Args.Query, " ")

	if c.Regex || c.CaseSensitive {
		// Structured mode: every term goes through AddKeyword with the
		// requested matching behavior.
		filter = search.NewFilter()
		for _, term := range c.Args.Query {
			filter.AddKeyword(term, c.CaseSensitive, c.Regex)
		}
	} else {
		filter = search.ParseQuery(query)
	}

	if len(c.Domain) > 0 {
		filter.AddDomains(c.Domain)
	}

	start, err := parseDate(c.Since, false)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value %q: %w", c.Since, err)
	}
	end, err := parseDate(c.Until, true)
	if err != nil {
		return nil, fmt.Errorf("invalid --until value %q: %w", c.Until, err)
	}
	if !start.IsZero() || !end.IsZero() {
		filter.AddDateRange(start, end)
	}

	if c.MinVisits > 0 || c.MaxVisits > 0 {
		filter.AddVisitCountRange(c.MinVisits, c.MaxVisits)
	}

	return filter, nil
}

// parseDate parses a YYYY-MM-DD day boundary. An end-of-range date
// covers the whole day.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
