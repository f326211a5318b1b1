package browser

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/boomhacked/BrowserHunter/internal/evidence"
	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

const (
	queryChromiumHistory = `
		SELECT
			urls.id,
			urls.url,
			urls.title,
			urls.visit_count,
			urls.typed_count,
			urls.last_visit_time,
			urls.hidden,
			visits.visit_time
		FROM urls
		LEFT JOIN visits ON urls.id = visits.url
		ORDER BY visits.visit_time DESC`

	queryChromiumDownloads = `
		SELECT
			id,
			current_path,
			target_path,
			start_time,
			end_time,
			received_bytes,
			total_bytes,
			state,
			danger_type,
			mime_type,
			original_mime_type,
			tab_url,
			tab_referrer_url
		FROM downloads
		ORDER BY start_time DESC`

	queryChromiumCookies = `
		SELECT
			host_key,
			name,
			value,
			path,
			creation_utc,
			expires_utc,
			last_access_utc,
			is_secure,
			is_httponly,
			is_persistent
		FROM cookies
		ORDER BY last_access_utc DESC`
)

// chromiumDownloadStates maps the raw state column to DownloadState.
var chromiumDownloadStates = map[int64]DownloadState{
	0: DownloadInProgress,
	1: DownloadComplete,
	2: DownloadCancelled,
	3: DownloadInterrupted,
}

// ChromiumMapper reads History-format databases used by Chrome, Edge,
// Brave, Opera and other Chromium derivatives. All timestamp columns are
// WebKit-epoch microseconds.
type ChromiumMapper struct {
	name string
	snap *evidence.Snapshot
	log  *zap.Logger
}

// NewChromiumMapper acquires a snapshot of the History database at path.
// name is the record label ("Chrome", "Edge", ...). The caller must Close
// the mapper.
func NewChromiumMapper(path, name string, log *zap.Logger) (*ChromiumMapper, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snap, err := evidence.Open(path, log)
	if err != nil {
		return nil, err
	}
	return &ChromiumMapper{name: name, snap: snap, log: log}, nil
}

func (m *ChromiumMapper) Browser() string    { return m.name }
func (m *ChromiumMapper) SourceFile() string { return m.snap.SourcePath }
func (m *ChromiumMapper) SourceHash() string { return m.snap.SourceHash }

// Close releases the snapshot and its temp copies.
func (m *ChromiumMapper) Close() error { return m.snap.Close() }

// History extracts visit records from urls joined with visits. Rows with
// no per-visit timestamp fall back to the URL's last_visit_time.
func (m *ChromiumMapper) History() []HistoryEntry {
	entries := []HistoryEntry{}

	rows, err := m.snap.DB().Query(queryChromiumHistory)
	if err != nil {
		m.log.Warn("history query failed", zap.String("browser", m.name), zap.Error(err))
		return entries
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                     int64
			rawURL, title          sql.NullString
			visitCount, typedCount sql.NullInt64
			lastVisit, hidden      sql.NullInt64
			visitTime              sql.NullInt64
		)
		if err := rows.Scan(&id, &rawURL, &title, &visitCount, &typedCount,
			&lastVisit, &hidden, &visitTime); err != nil {
			m.log.Warn("skipping malformed history row", zap.Error(err))
			continue
		}

		ts := visitTime.Int64
		if ts == 0 {
			ts = lastVisit.Int64
		}

		e := HistoryEntry{
			ID:            id,
			URL:           rawURL.String,
			Title:         title.String,
			VisitTime:     timeutil.ChromiumTime(ts),
			VisitCount:    int(visitCount.Int64),
			TypedCount:    int(typedCount.Int64),
			LastVisitTime: timeutil.ChromiumTime(lastVisit.Int64),
			Hidden:        hidden.Int64 != 0,
			Browser:       m.name,
			SourceFile:    m.snap.SourcePath,
			SourceHash:    m.snap.SourceHash,
		}
		e.Derive()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("history scan interrupted", zap.Error(err))
	}
	return entries
}

// Downloads extracts the downloads table, absent in some schema versions.
func (m *ChromiumMapper) Downloads() []Download {
	downloads := []Download{}

	rows, err := m.snap.DB().Query(queryChromiumDownloads)
	if err != nil {
		m.log.Debug("downloads table unavailable", zap.String("browser", m.name), zap.Error(err))
		return downloads
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                               int64
			currentPath, targetPath          sql.NullString
			startTime, endTime               sql.NullInt64
			received, total, state           sql.NullInt64
			dangerType                       sql.NullInt64
			mimeType, origMime, tabURL, tabR sql.NullString
		)
		if err := rows.Scan(&id, &currentPath, &targetPath, &startTime, &endTime,
			&received, &total, &state, &dangerType, &mimeType, &origMime,
			&tabURL, &tabR); err != nil {
			m.log.Warn("skipping malformed download row", zap.Error(err))
			continue
		}

		st, ok := chromiumDownloadStates[state.Int64]
		if !ok || !state.Valid {
			st = DownloadUnknown
		}

		d := Download{
			ID:            id,
			URL:           firstNonEmpty(tabURL.String, tabR.String),
			TargetPath:    firstNonEmpty(targetPath.String, currentPath.String),
			StartTime:     timeutil.ChromiumTime(startTime.Int64),
			TotalBytes:    total.Int64,
			ReceivedBytes: received.Int64,
			State:         st,
			DangerType:    chromiumDangerType(dangerType),
			MimeType:      firstNonEmpty(mimeType.String, origMime.String),
			Browser:       m.name,
			SourceFile:    m.snap.SourcePath,
		}
		if endTime.Int64 != 0 {
			d.EndTime = timeutil.ChromiumTime(endTime.Int64)
		}
		downloads = append(downloads, d)
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("downloads scan interrupted", zap.Error(err))
	}
	return downloads
}

// Bookmarks returns an empty list: Chromium keeps bookmarks in a JSON
// file, not in the History database.
func (m *ChromiumMapper) Bookmarks() []Bookmark {
	return []Bookmark{}
}

// Cookies extracts the separate Cookies database at path. Values are
// returned as stored; encrypted cookie values are not decrypted.
func (m *ChromiumMapper) Cookies(path string) []Cookie {
	cookies := []Cookie{}
	if path == "" {
		return cookies
	}

	snap, err := evidence.Open(path, m.log)
	if err != nil {
		m.log.Warn("cookie database unavailable",
			zap.String("file", evidence.Redact(path)), zap.Error(err))
		return cookies
	}
	defer snap.Close()

	rows, err := snap.DB().Query(queryChromiumCookies)
	if err != nil {
		m.log.Debug("cookies table unavailable", zap.Error(err))
		return cookies
	}
	defer rows.Close()

	for rows.Next() {
		var (
			host, name, value, cpath       sql.NullString
			creation, expires, lastAccess  sql.NullInt64
			secure, httpOnly, isPersistent sql.NullInt64
		)
		if err := rows.Scan(&host, &name, &value, &cpath, &creation, &expires,
			&lastAccess, &secure, &httpOnly, &isPersistent); err != nil {
			m.log.Warn("skipping malformed cookie row", zap.Error(err))
			continue
		}

		c := Cookie{
			HostKey:    host.String,
			Name:       name.String,
			Value:      value.String,
			Path:       cpath.String,
			Creation:   timeutil.ChromiumTime(creation.Int64),
			LastAccess: timeutil.ChromiumTime(lastAccess.Int64),
			Secure:     secure.Int64 != 0,
			HTTPOnly:   httpOnly.Int64 != 0,
			Persistent: isPersistent.Int64 != 0,
			Browser:    m.name,
			SourceFile: path,
		}
		if expires.Int64 != 0 {
			c.Expiry = timeutil.ChromiumTime(expires.Int64)
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("cookies scan interrupted", zap.Error(err))
	}
	return cookies
}

// FormHistory returns an empty list: Chromium autofill lives in the Web
// Data database, which this mapper does not cover.
func (m *ChromiumMapper) FormHistory(string) []FormHistory {
	return []FormHistory{}
}

// chromiumDangerType renders the raw danger_type code as a string.
func chromiumDangerType(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	switch v.Int64 {
	case 0:
		return "not_dangerous"
	case 1:
		return "dangerous_file"
	case 2:
		return "dangerous_url"
	case 3:
		return "dangerous_content"
	case 4:
		return "maybe_dangerous_content"
	case 5:
		return "uncommon_content"
	case 6:
		return "user_validated"
	case 7:
		return "dangerous_host"
	case 8:
		return "potentially_unwanted"
	default:
		return "unknown"
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
