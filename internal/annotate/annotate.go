// Package annotate keeps investigator notes, tags and bookmark flags for
// history entries. Annotations live in a JSON sidecar file keyed by
// entry key, never in the evidence itself.
package annotate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/boomhacked/BrowserHunter/internal/browser"
)

// Annotation is the stored overlay for one entry.
type Annotation struct {
	Notes      string    `json:"notes,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Bookmarked bool      `json:"bookmarked,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (a Annotation) empty() bool {
	return a.Notes == "" && len(a.Tags) == 0 && !a.Bookmarked
}

// Store loads and saves annotations for a single case file.
type Store struct {
	fs   afero.Fs
	path string

	annotations map[string]Annotation
	dirty       bool
}

// Open reads the annotation file at path, creating an empty store when
// the file does not exist yet.
func Open(fs afero.Fs, path string) (*Store, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	s := &Store{fs: fs, path: path, annotations: map[string]Annotation{}}

	data, err := afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "annotate: read store")
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.annotations); err != nil {
		return nil, errors.Wrapf(err, "annotate: parse %s", path)
	}
	return s, nil
}

// Save writes the store back to its file when anything changed.
func (s *Store) Save() error {
	if !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(s.annotations, "", "  ")
	if err != nil {
		return errors.Wrap(err, "annotate: marshal store")
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "annotate: create store directory")
		}
	}
	if err := afero.WriteFile(s.fs, s.path, append(data, '\n'), 0o600); err != nil {
		return errors.Wrap(err, "annotate: write store")
	}
	s.dirty = false
	return nil
}

// Get returns the annotation for key, zero when none exists.
func (s *Store) Get(key string) (Annotation, bool) {
	a, ok := s.annotations[key]
	return a, ok
}

// Len returns the number of stored annotations.
func (s *Store) Len() int { return len(s.annotations) }

// SetNotes replaces the notes on key.
func (s *Store) SetNotes(key, notes string) {
	a := s.annotations[key]
	a.Notes = notes
	s.put(key, a)
}

// SetBookmarked flips the bookmark flag on key.
func (s *Store) SetBookmarked(key string, bookmarked bool) {
	a := s.annotations[key]
	a.Bookmarked = bookmarked
	s.put(key, a)
}

// AddTag adds tag to key, ignoring duplicates.
func (s *Store) AddTag(key, tag string) {
	a := s.annotations[key]
	for _, t := range a.Tags {
		if t == tag {
			return
		}
	}
	a.Tags = append(a.Tags, tag)
	sort.Strings(a.Tags)
	s.put(key, a)
}

// RemoveTag removes tag from key.
func (s *Store) RemoveTag(key, tag string) {
	a := s.annotations[key]
	for i, t := range a.Tags {
		if t == tag {
			a.Tags = append(a.Tags[:i], a.Tags[i+1:]...)
			s.put(key, a)
			return
		}
	}
}

// Clear drops the annotation for key entirely.
func (s *Store) Clear(key string) {
	if _, ok := s.annotations[key]; !ok {
		return
	}
	delete(s.annotations, key)
	s.dirty = true
}

// put stores or drops the annotation depending on whether it still
// carries content.
func (s *Store) put(key string, a Annotation) {
	if a.empty() {
		delete(s.annotations, key)
	} else {
		a.UpdatedAt = time.Now().UTC()
		s.annotations[key] = a
	}
	s.dirty = true
}

// Apply copies stored annotations onto matching entries in place. The
// entry key ties an annotation to the same visit across runs.
func (s *Store) Apply(entries []browser.HistoryEntry) {
	if len(s.annotations) == 0 {
		return
	}
	for i := range entries {
		a, ok := s.annotations[browser.EntryKey(entries[i].URL, entries[i].VisitTime)]
		if !ok {
			continue
		}
		entries[i].Notes = a.Notes
		entries[i].Bookmarked = a.Bookmarked
		entries[i].Tags = append([]string(nil), a.Tags...)
	}
}
