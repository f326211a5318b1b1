package browser

// Mapper extracts unified records from one browser family's databases.
// Artifact methods never fail on schema drift: a missing optional table or
// an unreadable row yields fewer records, logged, because browsers change
// schemas across versions and a single bad row must not sink the parse.
// Cookies and FormHistory take the path of the separate database those
// artifacts live in; an empty or nonexistent path yields an empty list.
type Mapper interface {
	// Browser returns the label attached to produced records, e.g.
	// "Chrome", "Edge", "Firefox".
	Browser() string
	// SourceFile returns the history database path this mapper reads.
	SourceFile() string
	// SourceHash returns the SHA-256 digest of the source file.
	SourceHash() string

	History() []HistoryEntry
	Downloads() []Download
	Bookmarks() []Bookmark
	Cookies(path string) []Cookie
	FormHistory(path string) []FormHistory

	// Close releases the underlying snapshot and its temp copies.
	Close() error
}
