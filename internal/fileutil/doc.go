// Package fileutil provides directory and file helpers shared by the
// metadata catalog and the root pool.
//
// EnsureDir creates directories recursively; CopyFile copies files with
// optional fsync and atomic (temp-file-then-rename) semantics, used when
// snapshotting the metadata catalog.
package fileutil
