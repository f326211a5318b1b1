package browser

import (
	"database/sql"
	"strconv"

	"go.uber.org/zap"

	"github.com/boomhacked/BrowserHunter/internal/evidence"
	"github.com/boomhacked/BrowserHunter/internal/timeutil"
)

const (
	queryGeckoHistory = `
		SELECT
			moz_places.id,
			moz_places.url,
			moz_places.title,
			moz_places.visit_count,
			moz_places.typed,
			moz_places.hidden,
			moz_places.last_visit_date,
			moz_historyvisits.visit_date
		FROM moz_places
		LEFT JOIN moz_historyvisits ON moz_places.id = moz_historyvisits.place_id
		ORDER BY moz_historyvisits.visit_date DESC`

	// Downloads are recorded as page annotations keyed by the
	// downloads/destinationFileURI attribute.
	queryGeckoDownloads = `
		SELECT
			moz_places.url,
			moz_annos.content,
			moz_annos.dateAdded,
			moz_annos.lastModified
		FROM moz_annos
		JOIN moz_anno_attributes ON moz_annos.anno_attribute_id = moz_anno_attributes.id
		JOIN moz_places ON moz_annos.place_id = moz_places.id
		WHERE moz_anno_attributes.name = 'downloads/destinationFileURI'
		ORDER BY moz_annos.dateAdded DESC`

	// type = 1 filters to actual bookmarks, excluding folders and
	// separators.
	queryGeckoBookmarks = `
		SELECT
			moz_bookmarks.id,
			moz_bookmarks.title,
			moz_bookmarks.dateAdded,
			moz_bookmarks.parent,
			moz_places.url
		FROM moz_bookmarks
		JOIN moz_places ON moz_bookmarks.fk = moz_places.id
		WHERE moz_bookmarks.type = 1
		ORDER BY moz_bookmarks.dateAdded DESC`

	queryGeckoCookies = `
		SELECT
			host,
			name,
			value,
			path,
			creationTime,
			expiry,
			lastAccessed,
			isSecure,
			isHttpOnly
		FROM moz_cookies
		ORDER BY lastAccessed DESC`

	queryGeckoFormHistory = `
		SELECT
			id,
			fieldname,
			value,
			timesUsed,
			firstUsed,
			lastUsed
		FROM moz_formhistory
		ORDER BY lastUsed DESC`
)

// GeckoMapper reads places.sqlite-format databases used by Firefox and
// other Gecko derivatives. Timestamp columns are microseconds since the
// Unix epoch, except cookie expiry which is plain Unix seconds.
type GeckoMapper struct {
	name string
	snap *evidence.Snapshot
	log  *zap.Logger
}

// NewGeckoMapper acquires a snapshot of the places database at path. The
// caller must Close the mapper.
func NewGeckoMapper(path string, log *zap.Logger) (*GeckoMapper, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snap, err := evidence.Open(path, log)
	if err != nil {
		return nil, err
	}
	return &GeckoMapper{name: "Firefox", snap: snap, log: log}, nil
}

func (m *GeckoMapper) Browser() string    { return m.name }
func (m *GeckoMapper) SourceFile() string { return m.snap.SourcePath }
func (m *GeckoMapper) SourceHash() string { return m.snap.SourceHash }

// Close releases the snapshot and its temp copies.
func (m *GeckoMapper) Close() error { return m.snap.Close() }

// History extracts visit records from moz_places joined with
// moz_historyvisits.
func (m *GeckoMapper) History() []HistoryEntry {
	entries := []HistoryEntry{}

	rows, err := m.snap.DB().Query(queryGeckoHistory)
	if err != nil {
		m.log.Warn("history query failed", zap.String("browser", m.name), zap.Error(err))
		return entries
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                        int64
			rawURL, title             sql.NullString
			visitCount, typed, hidden sql.NullInt64
			lastVisit, visitDate      sql.NullInt64
		)
		if err := rows.Scan(&id, &rawURL, &title, &visitCount, &typed, &hidden,
			&lastVisit, &visitDate); err != nil {
			m.log.Warn("skipping malformed history row", zap.Error(err))
			continue
		}

		ts := visitDate.Int64
		if ts == 0 {
			ts = lastVisit.Int64
		}

		e := HistoryEntry{
			ID:         id,
			URL:        rawURL.String,
			Title:      title.String,
			VisitTime:  timeutil.GeckoTime(ts),
			VisitCount: int(visitCount.Int64),
			TypedCount: int(typed.Int64),
			Hidden:     hidden.Int64 != 0,
			Browser:    m.name,
			SourceFile: m.snap.SourcePath,
			SourceHash: m.snap.SourceHash,
		}
		if lastVisit.Int64 != 0 {
			e.LastVisitTime = timeutil.GeckoTime(lastVisit.Int64)
		}
		e.Derive()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("history scan interrupted", zap.Error(err))
	}
	return entries
}

// Downloads extracts download annotations. places.sqlite carries no byte
// counters, so totals are zero and the state is unknown.
func (m *GeckoMapper) Downloads() []Download {
	downloads := []Download{}

	rows, err := m.snap.DB().Query(queryGeckoDownloads)
	if err != nil {
		m.log.Debug("download annotations unavailable", zap.Error(err))
		return downloads
	}
	defer rows.Close()

	var idx int64
	for rows.Next() {
		var (
			rawURL, content         sql.NullString
			dateAdded, lastModified sql.NullInt64
		)
		if err := rows.Scan(&rawURL, &content, &dateAdded, &lastModified); err != nil {
			m.log.Warn("skipping malformed download row", zap.Error(err))
			continue
		}

		d := Download{
			ID:         idx,
			URL:        rawURL.String,
			TargetPath: content.String,
			StartTime:  timeutil.GeckoTime(dateAdded.Int64),
			State:      DownloadUnknown,
			Browser:    m.name,
			SourceFile: m.snap.SourcePath,
		}
		if lastModified.Int64 != 0 {
			d.EndTime = timeutil.GeckoTime(lastModified.Int64)
		}
		downloads = append(downloads, d)
		idx++
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("downloads scan interrupted", zap.Error(err))
	}
	return downloads
}

// Bookmarks extracts bookmark rows joined to their target places.
func (m *GeckoMapper) Bookmarks() []Bookmark {
	bookmarks := []Bookmark{}

	rows, err := m.snap.DB().Query(queryGeckoBookmarks)
	if err != nil {
		m.log.Debug("bookmarks table unavailable", zap.Error(err))
		return bookmarks
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                int64
			title, rawURL     sql.NullString
			dateAdded, parent sql.NullInt64
		)
		if err := rows.Scan(&id, &title, &dateAdded, &parent, &rawURL); err != nil {
			m.log.Warn("skipping malformed bookmark row", zap.Error(err))
			continue
		}

		bookmarks = append(bookmarks, Bookmark{
			ID:           id,
			URL:          rawURL.String,
			Title:        title.String,
			DateAdded:    timeutil.GeckoTime(dateAdded.Int64),
			ParentFolder: formatParent(parent),
			Browser:      m.name,
			SourceFile:   m.snap.SourcePath,
		})
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("bookmarks scan interrupted", zap.Error(err))
	}
	return bookmarks
}

// Cookies extracts the separate cookies.sqlite database at path.
func (m *GeckoMapper) Cookies(path string) []Cookie {
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

	rows, err := snap.DB().Query(queryGeckoCookies)
	if err != nil {
		m.log.Debug("moz_cookies table unavailable", zap.Error(err))
		return cookies
	}
	defer rows.Close()

	for rows.Next() {
		var (
			host, name, value, cpath       sql.NullString
			creation, expiry, lastAccessed sql.NullInt64
			isSecure, isHTTPOnly           sql.NullInt64
		)
		if err := rows.Scan(&host, &name, &value, &cpath, &creation, &expiry,
			&lastAccessed, &isSecure, &isHTTPOnly); err != nil {
			m.log.Warn("skipping malformed cookie row", zap.Error(err))
			continue
		}

		c := Cookie{
			HostKey:    host.String,
			Name:       name.String,
			Value:      value.String,
			Path:       cpath.String,
			Creation:   timeutil.GeckoTime(creation.Int64),
			LastAccess: timeutil.GeckoTime(lastAccessed.Int64),
			Secure:     isSecure.Int64 != 0,
			HTTPOnly:   isHTTPOnly.Int64 != 0,
			Persistent: expiry.Int64 != 0,
			Browser:    m.name,
			SourceFile: path,
		}
		if expiry.Int64 != 0 {
			// expiry alone is stored as Unix seconds.
			c.Expiry = timeutil.UnixTime(expiry.Int64)
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("cookies scan interrupted", zap.Error(err))
	}
	return cookies
}

// FormHistory extracts the separate formhistory.sqlite database at path.
func (m *GeckoMapper) FormHistory(path string) []FormHistory {
	forms := []FormHistory{}
	if path == "" {
		return forms
	}

	snap, err := evidence.Open(path, m.log)
	if err != nil {
		m.log.Warn("form history database unavailable",
			zap.String("file", evidence.Redact(path)), zap.Error(err))
		return forms
	}
	defer snap.Close()

	rows, err := snap.DB().Query(queryGeckoFormHistory)
	if err != nil {
		m.log.Debug("moz_formhistory table unavailable", zap.Error(err))
		return forms
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                  int64
			fieldName, value    sql.NullString
			timesUsed           sql.NullInt64
			firstUsed, lastUsed sql.NullInt64
		)
		if err := rows.Scan(&id, &fieldName, &value, &timesUsed, &firstUsed,
			&lastUsed); err != nil {
			m.log.Warn("skipping malformed form history row", zap.Error(err))
			continue
		}

		forms = append(forms, FormHistory{
			ID:         id,
			FieldName:  fieldName.String,
			Value:      value.String,
			TimesUsed:  int(timesUsed.Int64),
			FirstUsed:  timeutil.GeckoTime(firstUsed.Int64),
			LastUsed:   timeutil.GeckoTime(lastUsed.Int64),
			Browser:    m.name,
			SourceFile: path,
		})
	}
	if err := rows.Err(); err != nil {
		m.log.Warn("form history scan interrupted", zap.Error(err))
	}
	return forms
}

func formatParent(v sql.NullInt64) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatInt(v.Int64, 10)
}
