package seed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrUnknownMode is returned for mode names other than batch and stream.
	ErrUnknownMode = errors.New("unknown seeding mode")

	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid seed config")

	// ErrNoChunks is returned when the document yields no chunks. The table
	// is left untouched.
	ErrNoChunks = errors.New("document produced no chunks")

	// ErrEmbeddingFailed is returned when a chunk could not be embedded within
	// the allowed attempts. The run is aborted.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrClearFailed is returned when the previous rows could not be deleted.
	ErrClearFailed = errors.New("clearing table failed")
)
