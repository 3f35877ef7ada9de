// ============================================================================
// internal/ingest/errors.go
// Error taxonomy for the bulk-ingestion pipeline
// ============================================================================

package ingest

import "errors"

// Batch-fatal errors abort the whole ingestion before any row is processed
// and are surfaced directly to the caller with diagnostic context.
var (
	// ErrUnresolvableFilename means no filename pattern produced a course ID.
	ErrUnresolvableFilename = errors.New("unable to resolve course from filename")

	// ErrEmptyOrMalformedInput means fewer than 2 usable rows survived parsing.
	ErrEmptyOrMalformedInput = errors.New("empty or malformed input: no data rows to process")

	// ErrNoScoreColumns means the header row contains no week-assignment columns.
	ErrNoScoreColumns = errors.New("no week assignment score columns found in header")
)

// Row-scoped errors are caught per row by the batch reconciler, recorded in
// the failure list, and never propagated past the batch boundary.
var (
	// ErrMissingIdentity means a row carries neither an email nor a roll number.
	ErrMissingIdentity = errors.New("row has no email or roll number")

	// ErrStudentNotFound means every matching strategy came up empty.
	ErrStudentNotFound = errors.New("no student record matches row identity")

	// ErrPersistenceFailure wraps a store write error during score merge.
	ErrPersistenceFailure = errors.New("failed to persist merged results")
)

// IsBatchFatal reports whether an error must abort the whole upload rather
// than be recorded against a single row.
func IsBatchFatal(err error) bool {
	return errors.Is(err, ErrUnresolvableFilename) ||
		errors.Is(err, ErrEmptyOrMalformedInput) ||
		errors.Is(err, ErrNoScoreColumns)
}
