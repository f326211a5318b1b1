package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Inspect   *InspectCommand
	History   *HistoryCommand
	Downloads *DownloadsCommand
	Cookies   *CookiesCommand
	Bookmarks *BookmarksCommand
	Forms     *FormsCommand
	Search    *SearchCommand
	Sessions  *SessionsCommand
	Stats     *StatsCommand
	Export    *ExportCommand
	Annotate  *AnnotateCommand
	Lookup    *LookupCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "browserhunter"
	parser.LongDescription = "Forensic extraction and analysis of browser history databases. Evidence files are never opened in place; every command works on a hashed read-only copy."

	cmds := &commands{
		Inspect:   &InspectCommand{globals: &globals, version: version},
		History:   &HistoryCommand{globals: &globals, version: version},
		Downloads: &DownloadsCommand{globals: &globals, version: version},
		Cookies:   &CookiesCommand{globals: &globals, version: version},
		Bookmarks: &BookmarksCommand{globals: &globals, version: version},
		Forms:     &FormsCommand{globals: &globals, version: version},
		Search:    &SearchCommand{globals: &globals, version: version},
		Sessions:  &SessionsCommand{globals: &globals, version: version},
		Stats:     &StatsCommand{globals: &globals, version: version},
		Export:    &ExportCommand{globals: &globals, version: version},
		Annotate:  &AnnotateCommand{globals: &globals, version: version},
		Lookup:    &LookupCommand{globals: &globals, version: version},
	}

	parser.AddCommand("inspect", "Explore an unknown SQLite database", "List tables, dump rows, and search columns of any SQLite database without knowing its schema.", cmds.Inspect)
	parser.AddCommand("history", "Extract history entries", "Extract and print history entries from a browser database.", cmds.History)
	parser.AddCommand("downloads", "Extract download records", "Extract and print download records from a browser database.", cmds.Downloads)
	parser.AddCommand("cookies", "Extract cookies", "Extract and print cookies from a cookie database.", cmds.Cookies)
	parser.AddCommand("bookmarks", "Extract bookmarks", "Extract and print bookmarks (Firefox places.sqlite).", cmds.Bookmarks)
	parser.AddCommand("forms", "Extract saved form values", "Extract and print saved form field values (Firefox formhistory.sqlite).", cmds.Forms)
	parser.AddCommand("search", "Filter and sort history entries", "Filter history entries by keyword, phrase, regex, domain, date range and visit count, then sort.", cmds.Search)
	parser.AddCommand("sessions", "Segment history into sessions", "Group history entries into browsing sessions split at idle gaps.", cmds.Sessions)
	parser.AddCommand("stats", "Aggregate statistics", "Print aggregate statistics: top domains, activity histograms, search queries, duplicates.", cmds.Stats)
	parser.AddCommand("export", "Export entries to a file", "Export history entries to CSV, JSON or HTML.", cmds.Export)
	parser.AddCommand("annotate", "Annotate an entry", "Attach notes, tags and bookmark flags to a history entry.", cmds.Annotate)
	parser.AddCommand("lookup", "Reputation lookup", "Query VirusTotal or Ip2Whois for a URL or domain. Requires API keys in the config.", cmds.Lookup)

	return parser, &globals, cmds
}

// Run is the main entry point for the BrowserHunter CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("browserhunter %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
