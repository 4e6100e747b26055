// Package filelock provides a cross-process advisory lock used alongside
// the in-process administrative lock in internal/core: Pool.Lock only
// serializes borrowers within one process, so the root package pairs it
// with a flock-based file lock when a journal must be exclusive across
// processes too (for example, before a backup tool reads the partition
// files directly).
package filelock
