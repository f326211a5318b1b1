// Package browser defines the unified record model extracted from browser
// databases and the per-family mappers that produce it. Records are value
// objects created during a single parse pass and never written back.
package browser

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"
)

// Browser family labels attached to records.
const (
	FamilyChromium = "Chromium"
	FamilyGecko    = "Gecko"
	FamilyUnknown  = "Unknown"
)

// HistoryEntry is a single visit extracted from a history database.
// Domain and URLParams are always derived from URL at construction. The
// Notes/Bookmarked/Tags fields are an annotation overlay owned by an
// external store and joined in by EntryKey at presentation time; they are
// zero-valued as parsed.
type HistoryEntry struct {
	ID            int64
	URL           string
	Title         string
	VisitTime     time.Time
	VisitCount    int
	TypedCount    int
	LastVisitTime time.Time // zero when the browser recorded none
	Hidden        bool
	Browser       string

	Domain    string
	URLParams url.Values

	SourceFile string
	SourceHash string

	Notes      string
	Bookmarked bool
	Tags       []string
}

// Derive fills Domain and URLParams from URL. Mappers call it once per
// entry; it is deterministic, so calling it again is harmless.
func (e *HistoryEntry) Derive() {
	e.Domain = ExtractDomain(e.URL)
	e.URLParams = ExtractParams(e.URL)
}

// DownloadState classifies a download row.
type DownloadState string

const (
	DownloadInProgress  DownloadState = "in_progress"
	DownloadComplete    DownloadState = "complete"
	DownloadCancelled   DownloadState = "cancelled"
	DownloadInterrupted DownloadState = "interrupted"
	DownloadUnknown     DownloadState = "unknown"
)

// Download is one download record. ReceivedBytes may exceed TotalBytes:
// interrupted downloads leave inconsistent byte counters behind and the
// raw values are preserved as evidence.
type Download struct {
	ID            int64
	URL           string
	TargetPath    string
	StartTime     time.Time
	EndTime       time.Time // zero when still in progress or unrecorded
	TotalBytes    int64
	ReceivedBytes int64
	State         DownloadState
	DangerType    string
	MimeType      string
	Browser       string
	SourceFile    string
}

// Cookie is one cookie row from a cookie database.
type Cookie struct {
	HostKey    string
	Name       string
	Value      string
	Path       string
	Creation   time.Time
	Expiry     time.Time // zero for session cookies
	LastAccess time.Time
	Secure     bool
	HTTPOnly   bool
	Persistent bool
	Browser    string
	SourceFile string
}

// Bookmark is one bookmark row. ParentFolder is the browser's raw folder
// identifier, not resolved to a path.
type Bookmark struct {
	ID           int64
	URL          string
	Title        string
	DateAdded    time.Time
	ParentFolder string
	Browser      string
	SourceFile   string
}

// FormHistory is one autofill/form-history row.
type FormHistory struct {
	ID         int64
	FieldName  string
	Value      string
	TimesUsed  int
	FirstUsed  time.Time
	LastUsed   time.Time
	Browser    string
	SourceFile string
}

// EntryKey derives the deterministic identifier correlating a history
// entry with externally stored annotations: SHA-256 of the URL
// concatenated with the RFC 3339 UTC visit time. The annotation store
// computes the same key on its side, so the derivation is part of the
// contract and must not change.
func EntryKey(rawURL string, visitTime time.Time) string {
	h := sha256.Sum256([]byte(rawURL + visitTime.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(h[:])
}

// ExtractDomain pulls the hostname from a URL string, empty on parse
// failure.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// ExtractParams pulls the query-string parameters from a URL string.
func ExtractParams(rawURL string) url.Values {
	u, err := url.Parse(rawURL)
	if err != nil {
		return url.Values{}
	}
	v, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return url.Values{}
	}
	return v
}
