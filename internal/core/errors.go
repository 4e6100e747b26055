package core

import "github.com/coldharbor/journalpool/internal/sentinel"

// Sentinel errors returned by Pool methods. Callers compare with errors.Is;
// an open or refresh failure has no sentinel of its own and is returned as
// the underlying error wrapped with the journal name, since that error
// carries the actionable detail.
const (
	// ErrNotFound is returned when a journal name has no corresponding
	// entry on disk at first-install time.
	ErrNotFound = sentinel.Error("journalpool: journal not found")

	// ErrLocked is returned by Reader when a journal is administratively
	// locked, and by Lock when a different owner already holds the lock.
	ErrLocked = sentinel.Error("journalpool: journal is locked")

	// ErrRetry is returned by Lock when a slot is held by a live borrower
	// and cannot be reclaimed on this attempt. The caller is expected to
	// retry; the lock request is not rolled back.
	ErrRetry = sentinel.Error("journalpool: lock could not reclaim a borrowed slot, retry")

	// ErrPoolFull is returned by Reader when every entry in the segment
	// chain, up to max_segments, holds a live borrower.
	ErrPoolFull = sentinel.Error("journalpool: pool is at capacity")

	// ErrPoolClosed is returned by Reader once Close has run.
	ErrPoolClosed = sentinel.Error("journalpool: pool is closed")
)
