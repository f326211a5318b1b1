package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config   string `long:"config" description:"Path to config file" default:""`
	JSON     bool   `long:"json" description:"Output in JSON format"`
	Verbose  bool   `long:"verbose" description:"Enable verbose output"`
	Timezone string `long:"timezone" description:"IANA timezone for displayed times (overrides config)"`
	Version  bool   `long:"version" description:"Show version and exit"`
}

// fileArg is the positional evidence file shared by most subcommands.
type fileArg struct {
	File string `positional-arg-name:"FILE" description:"History database file" required:"yes"`
}

// InspectCommand — walk arbitrary SQLite schemas without knowing the browser.
type InspectCommand struct {
	Table   string   `long:"table" description:"Dump rows from a specific table"`
	Term    string   `long:"find" description:"Search all text columns of --table for a term"`
	Columns []string `long:"column" description:"Restrict --find to specific columns (repeatable)"`
	Limit   int      `long:"limit" description:"Maximum rows to print" default:"20"`
	Offset  int      `long:"offset" description:"Skip first N rows" default:"0"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// HistoryCommand — extract history entries from a browser database.
type HistoryCommand struct {
	Browser     string `long:"browser" description:"Browser label override: chrome | edge | brave | firefox"`
	Limit       int    `long:"limit" description:"Maximum entries to print (0 = all)" default:"0"`
	Annotations string `long:"annotations" description:"Annotation store to overlay onto entries"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// DownloadsCommand — extract download records.
type DownloadsCommand struct {
	Browser string `long:"browser" description:"Browser label override"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// CookiesCommand — extract cookies from a cookie database.
type CookiesCommand struct {
	Browser string `long:"browser" description:"Browser label override"`
	Cookies string `long:"cookies" description:"Separate cookie database (Chromium keeps cookies outside History)"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// BookmarksCommand — extract bookmarks (Firefox stores them in places.sqlite).
type BookmarksCommand struct {
	Browser string `long:"browser" description:"Browser label override"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// FormsCommand — extract saved form field values (Firefox formhistory.sqlite).
type FormsCommand struct {
	Browser string `long:"browser" description:"Browser label override"`
	Forms   string `long:"forms" description:"Form history database (defaults to FILE)"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// SearchCommand — filter and sort history entries.
type SearchCommand struct {
	Browser       string   `long:"browser" description:"Browser label override"`
	Regex         bool     `long:"regex" description:"Treat query terms as regular expressions"`
	CaseSensitive bool     `long:"case-sensitive" description:"Match keywords case-sensitively"`
	Domain        []string `long:"domain" description:"Filter by domain (repeatable)"`
	Since         string   `long:"since" description:"Only visits on or after this date (YYYY-MM-DD)"`
	Until         string   `long:"until" description:"Only visits on or before this date (YYYY-MM-DD)"`
	MinVisits     int      `long:"min-visits" description:"Minimum visit count"`
	MaxVisits     int      `long:"max-visits" description:"Maximum visit count"`
	Sort          string   `long:"sort" description:"Sort field: date | url | title | domain | visits | browser" default:"date"`
	Asc           bool     `long:"asc" description:"Sort ascending (default is descending)"`
	Limit         int      `long:"limit" description:"Maximum results (0 = all)" default:"50"`
	Annotations   string   `long:"annotations" description:"Annotation store to overlay before filtering"`

	Args struct {
		File  string   `positional-arg-name:"FILE" description:"History database file" required:"yes"`
		Query []string `positional-arg-name:"QUERY" description:"Search terms, \"quoted phrases\" and /regex/ spans"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// SessionsCommand — segment history into browsing sessions.
type SessionsCommand struct {
	Browser string `long:"browser" description:"Browser label override"`
	Gap     int    `long:"gap" description:"Idle minutes that split sessions" default:"30"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// StatsCommand — aggregate statistics over a history file.
type StatsCommand struct {
	Browser   string `long:"browser" description:"Browser label override"`
	Sensitive bool   `long:"sensitive" description:"List visits to sensitive services"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// ExportCommand — write history entries to CSV, JSON or HTML.
type ExportCommand struct {
	Browser string `long:"browser" description:"Browser label override"`
	Output  string `long:"output" short:"o" description:"Output file; extension picks the format" required:"yes"`
	Title   string `long:"title" description:"Report title for HTML output"`

	Args fileArg `positional-args:"yes"`

	globals *GlobalFlags
	version string
}

// AnnotateCommand — attach notes, tags and bookmark flags to entries.
type AnnotateCommand struct {
	Store      string   `long:"store" description:"Annotation store file (defaults to config)"`
	Key        string   `long:"key" description:"Entry key to annotate (from history --json output)" required:"yes"`
	Notes      string   `long:"notes" description:"Set notes on the entry"`
	Tag        []string `long:"tag" description:"Add a tag (repeatable)"`
	Untag      []string `long:"untag" description:"Remove a tag (repeatable)"`
	Bookmark   bool     `long:"bookmark" description:"Mark the entry"`
	Unbookmark bool     `long:"unbookmark" description:"Unmark the entry"`
	Clear      bool     `long:"clear" description:"Drop the annotation entirely"`

	globals *GlobalFlags
	version string
}

// LookupCommand — query reputation services for a URL or domain.
type LookupCommand struct {
	URL    string `long:"url" description:"URL to look up on VirusTotal"`
	Domain string `long:"domain" description:"Domain to look up on VirusTotal"`
	Whois  bool   `long:"whois" description:"Fetch the Ip2Whois record for --domain"`

	globals *GlobalFlags
	version string
}
