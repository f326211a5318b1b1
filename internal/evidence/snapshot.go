// Package evidence acquires read-only, integrity-hashed snapshots of
// SQLite evidence files. The source file is never opened for writing and
// never locked exclusively: all queries run against a private temporary
// copy, which Close removes unconditionally. Opening SQLite files through
// the real library requires a file on disk, so a copy is the only way to
// query a live or locked database without touching the original.
package evidence

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// maxSourceSize is the hard ceiling on evidence file size (10 GiB).
const maxSourceSize = 10 * 1024 * 1024 * 1024

// deniedPrefixes are system locations a browser database can never
// legitimately live under.
var deniedPrefixes = []string{"/etc", "/sys", "/proc", "/dev", "/boot"}

// databaseExtensions are the file suffixes accepted by the strict Open
// used by the browser mappers.
var databaseExtensions = []string{".db", ".sqlite", ".sqlite3"}

// sidecarSuffixes are the SQLite WAL/SHM companion file suffixes.
var sidecarSuffixes = []string{"-wal", "-shm"}

// Snapshot is a read-only working copy of an evidence file. It owns a
// private temp directory holding the copy plus any sidecars, and the open
// connection against that copy. Close releases everything; a Snapshot must
// always be closed, including on error paths after a successful Open.
type Snapshot struct {
	// SourcePath is the original evidence file as given by the caller.
	SourcePath string
	// SourceHash is the hex SHA-256 digest of the source file, computed
	// before copying. It is the chain-of-custody anchor attached to every
	// record derived from this snapshot.
	SourceHash string
	// SourceSize is the source file size in bytes at acquisition time.
	SourceSize int64

	db      *sql.DB
	tempDir string
	log     *zap.Logger
}

// Open validates path, digests it, copies it into a private temp area and
// opens the copy read-only. The path must name an existing regular file
// with a recognized database extension. A nil logger is replaced by a nop.
func Open(path string, log *zap.Logger) (*Snapshot, error) {
	return open(path, log, true)
}

// OpenRelaxed is Open without the extension check, for inspecting
// arbitrary SQLite files regardless of how they are named.
func OpenRelaxed(path string, log *zap.Logger) (*Snapshot, error) {
	return open(path, log, false)
}

func open(path string, log *zap.Logger, strictName bool) (*Snapshot, error) {
	if log == nil {
		log = zap.NewNop()
	}

	size, err := validate(path, strictName)
	if err != nil {
		return nil, err
	}

	hash, err := HashFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrIntegrity, "%s: %v", Redact(path), err)
	}
	log.Debug("evidence file hashed",
		zap.String("file", Redact(path)),
		zap.String("sha256", hash),
		zap.Int64("size", size))

	snap := &Snapshot{
		SourcePath: path,
		SourceHash: hash,
		SourceSize: size,
		log:        log,
	}

	if err := snap.createWorkingCopy(); err != nil {
		snap.Close()
		return nil, err
	}

	return snap, nil
}

// validate refuses anything that is not a plain, readable, reasonably
// sized database file outside the system denylist. It returns the file
// size on success.
func validate(path string, strictName bool) (int64, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPath, "%s: no such file", Redact(path))
	}
	if !fi.Mode().IsRegular() {
		return 0, errors.Wrapf(ErrInvalidPath, "%s: not a regular file", Redact(path))
	}
	if fi.Size() > maxSourceSize {
		return 0, errors.Wrapf(ErrInvalidPath, "%s: exceeds size limit", Redact(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPath, "%s: cannot resolve", Redact(path))
	}
	for _, prefix := range deniedPrefixes {
		if abs == prefix || strings.HasPrefix(abs, prefix+string(os.PathSeparator)) {
			return 0, errors.Wrapf(ErrInvalidPath, "%s: located under protected system path", Redact(path))
		}
	}

	if strictName {
		lower := strings.ToLower(path)
		ok := false
		for _, ext := range databaseExtensions {
			if strings.HasSuffix(lower, ext) {
				ok = true
				break
			}
		}
		if !ok {
			return 0, errors.Wrapf(ErrInvalidPath, "%s: not a recognized database file", Redact(path))
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(ErrPermissionDenied, "%s", Redact(path))
	}
	f.Close()

	return fi.Size(), nil
}

// createWorkingCopy streams the source and its sidecars into a fresh
// owner-only temp directory and opens the main copy read-only.
func (s *Snapshot) createWorkingCopy() error {
	dir, err := os.MkdirTemp("", "browserhunter-")
	if err != nil {
		return errors.Wrapf(ErrCopyFailed, "create temp directory: %v", err)
	}
	s.tempDir = dir
	if err := os.Chmod(dir, 0o700); err != nil {
		return errors.Wrapf(ErrCopyFailed, "secure temp directory: %v", err)
	}

	copyPath := filepath.Join(dir, "snap-"+uuid.NewString()+".db")
	if err := copyFile(s.SourcePath, copyPath); err != nil {
		return errors.Wrapf(ErrCopyFailed, "%s: %v", Redact(s.SourcePath), err)
	}

	// WAL/SHM sidecars may hold not-yet-checkpointed rows. Missing or
	// uncopyable sidecars are expected for checkpointed databases, so a
	// failure here is logged and skipped, never fatal.
	for _, suffix := range sidecarSuffixes {
		src := s.SourcePath + suffix
		if _, err := os.Lstat(src); err != nil {
			continue
		}
		if err := copyFile(src, copyPath+suffix); err != nil {
			s.log.Warn("sidecar copy failed",
				zap.String("sidecar", suffix),
				zap.String("file", Redact(src)))
			continue
		}
		s.log.Debug("sidecar copied", zap.String("sidecar", suffix))
	}

	db, err := sql.Open("sqlite3", "file:"+copyPath+"?mode=ro")
	if err != nil {
		return errors.Wrapf(ErrCopyFailed, "open working copy: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return errors.Wrapf(ErrCopyFailed, "open working copy: %v", err)
	}
	s.db = db
	return nil
}

// copyFile creates dst exclusively with owner-only permissions and streams
// src into it. O_EXCL on a uuid-named file in a private directory leaves
// no create/open race to exploit.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// DB returns the read-only connection to the working copy.
func (s *Snapshot) DB() *sql.DB {
	return s.db
}

// Close releases the connection and deletes the working copies. Every
// cleanup step runs regardless of earlier failures; the first error is
// returned after all steps have been attempted.
func (s *Snapshot) Close() error {
	var first error
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			first = err
		}
		s.db = nil
	}
	if s.tempDir != "" {
		if err := os.RemoveAll(s.tempDir); err != nil && first == nil {
			first = err
		}
		s.tempDir = ""
	}
	return first
}

// HashFile returns the hex SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Redact strips directory components from a path for user-facing
// messages, so errors never leak the evidence tree layout.
func Redact(path string) string {
	return filepath.Base(path)
}
