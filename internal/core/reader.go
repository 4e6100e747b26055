package core

import "context"

// Reader is the minimal contract the pool needs from a journal reader: the
// ability to pick up newly appended data without reopening, and to release
// its underlying resources. Handle embeds Reader, so these two methods are
// promoted onto the Handle (Close is overridden there); a domain-specific
// reader's other methods are not promoted and are reached through the
// Handle's Reader field.
type Reader interface {
	// Refresh re-reads whatever partition or column metadata has changed
	// since the reader was opened or last refreshed.
	Refresh() error

	// Close releases file descriptors, memory mappings, and any other
	// resource held by the reader. Called at most once per underlying
	// reader instance, from within the pool's release or shutdown path.
	Close() error
}

// OpenFunc opens a fresh Reader bound to the named journal. It is called at
// most once per slot, the first time that slot is used for a given name;
// afterwards the pool reuses the same Reader across borrows via Refresh.
type OpenFunc func(ctx context.Context, name string) (Reader, error)

// ExistsFunc reports whether a journal by the given name exists on disk. It
// is consulted once per installed head entry, by whichever goroutine wins
// the race to install it; after Unlock drops a name's chain, the next
// install consults it again.
type ExistsFunc func(ctx context.Context, name string) (bool, error)
