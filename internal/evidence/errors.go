package evidence

import "errors"

// Acquisition failures are fatal: a snapshot either comes with verified
// provenance or not at all. Callers match with errors.Is.
var (
	// ErrInvalidPath covers missing, non-regular, oversized, wrongly
	// named, or denylisted source paths.
	ErrInvalidPath = errors.New("invalid database path")

	// ErrPermissionDenied means the source exists but cannot be read.
	ErrPermissionDenied = errors.New("database file is not readable")

	// ErrIntegrity means the content digest could not be computed.
	ErrIntegrity = errors.New("file integrity verification failed")

	// ErrCopyFailed means the private working copy could not be created.
	ErrCopyFailed = errors.New("temporary copy failed")
)
