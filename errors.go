package journalpool

import "github.com/coldharbor/journalpool/internal/core"

// Sentinel errors returned by Pool methods. Compare with errors.Is.
const (
	// ErrNotFound indicates a journal name has no on-disk journal
	// registered in the catalog.
	ErrNotFound = core.ErrNotFound

	// ErrLocked indicates a journal is administratively locked by
	// another owner.
	ErrLocked = core.ErrLocked

	// ErrRetry indicates Lock could not reclaim a borrowed slot on this
	// attempt. The caller should retry.
	ErrRetry = core.ErrRetry

	// ErrPoolFull indicates a journal's segment chain is already at
	// capacity.
	ErrPoolFull = core.ErrPoolFull

	// ErrPoolClosed indicates the pool has been closed.
	ErrPoolClosed = core.ErrPoolClosed
)
