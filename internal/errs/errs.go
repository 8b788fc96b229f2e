// Package errs defines the sentinel error kinds shared across the
// synchronizer. Call sites wrap these with fmt.Errorf("...: %w", ...) to add
// path and tab context; callers that need to distinguish failure modes use
// errors.Is against the sentinels below.
package errs

import "errors"

var (
	// ErrManifestMismatch is returned when a manifest's header tag or
	// version does not match what this package writes. The caller falls
	// back to treating the tab as non-synced.
	ErrManifestMismatch = errors.New("itemsync: manifest header or version mismatch")

	// ErrDirectoryCreateFailed is returned when the synchronized directory
	// could not be created.
	ErrDirectoryCreateFailed = errors.New("itemsync: failed to create synchronization directory")

	// ErrFileReadFailed is returned when an item file could not be read.
	ErrFileReadFailed = errors.New("itemsync: failed to read file")

	// ErrFileWriteFailed is returned when an item file could not be
	// written, copied, or renamed.
	ErrFileWriteFailed = errors.New("itemsync: failed to write file")

	// ErrNameExhausted is returned by the base-name allocator when no
	// unique name could be produced within the counter ceiling.
	ErrNameExhausted = errors.New("itemsync: exhausted unique name counter")

	// ErrSidecarDecodeFailed is returned when a _copyq.dat sidecar could
	// not be decoded. Callers treat the file as an unrecognized presence
	// marker rather than propagating this.
	ErrSidecarDecodeFailed = errors.New("itemsync: failed to decode sidecar")

	// ErrModelGone is returned when a pass observes that its model handle
	// no longer refers to a live model (e.g. the tab was unloaded mid-pass).
	ErrModelGone = errors.New("itemsync: model is gone")
)
