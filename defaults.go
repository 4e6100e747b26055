package journalpool

import "time"

// Default configuration values used when the corresponding Option is not
// supplied to NewPool.
const (
	// DefaultMaxSegments caps each journal's segment chain absent
	// WithMaxSegments, giving 64*32 = 2048 concurrent borrows per name.
	DefaultMaxSegments = 64

	// DefaultLockTimeout bounds how long Lock waits to acquire the
	// cross-process file lock absent WithLockTimeout.
	DefaultLockTimeout = 30 * time.Second
)
