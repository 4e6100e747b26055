// Package journal implements the pool's one concrete Reader: a memory
// mapped view over a journal's column and partition files on disk. The
// pool's concurrency protocol in internal/core is independent of this
// format; Reader exists to give that protocol something real to open,
// refresh, and close.
package journal
