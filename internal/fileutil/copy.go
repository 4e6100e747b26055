package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrEmptySrc is returned when a source path is empty.
var ErrEmptySrc = errors.New("source path must not be empty")

// ErrEmptyDst is returned when a destination path is empty.
var ErrEmptyDst = errors.New("destination path must not be empty")

// CopyFileOptions configures file copy behavior.
type CopyFileOptions struct {
	Mode   *os.FileMode // Optional: set specific permissions after copy (ignored on Windows)
	Sync   bool         // If true, call Sync() before closing dst
	Atomic bool         // If true, write to a temp file then rename to dst (prevents partial reads)
}

// CopyFile copies a file from src to dst, creating parent directories as
// needed. A nil opts uses default behavior: mode 0644, no fsync, no atomic
// rename. Returns an error if src or dst is empty.
//
// The destination is opened with its final permissions from the start, so
// there is never a window where the file is world-readable before Chmod. If
// opts.Atomic is set, the copy lands in a sibling temp file first and is
// renamed into place once fully written and synced, so a concurrent reader
// of dst (a journal reader opening a metadata snapshot, for example) never
// observes a partially written file.
func CopyFile(src, dst string, opts *CopyFileOptions) (retErr error) {
	if src == "" {
		return ErrEmptySrc
	}
	if dst == "" {
		return ErrEmptyDst
	}

	if err := EnsureDirForFile(dst); err != nil {
		return fmt.Errorf("prepare destination: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if closeErr := srcFile.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("close source: %w", closeErr)
		}
	}()

	var o CopyFileOptions
	if opts != nil {
		o = *opts
	}

	dstFile, writePath, err := openDstFile(dst, resolveFileMode(&o), o.Atomic)
	if err != nil {
		return err
	}

	closed := false
	defer func() {
		if !closed {
			if closeErr := dstFile.Close(); closeErr != nil && retErr == nil {
				retErr = fmt.Errorf("close destination: %w", closeErr)
			}
		}
		if retErr != nil {
			_ = os.Remove(writePath)
		}
	}()

	if _, err = io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copy: %w", err)
	}

	if o.Sync || o.Atomic {
		if err := dstFile.Sync(); err != nil {
			return fmt.Errorf("sync: %w", err)
		}
	}

	closed = true
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("close destination: %w", err)
	}

	if writePath != dst {
		if err := os.Rename(writePath, dst); err != nil {
			return fmt.Errorf("rename temp file to destination: %w", err)
		}
	}

	return nil
}

// resolveFileMode returns the file mode from opts, defaulting to 0o644.
func resolveFileMode(opts *CopyFileOptions) os.FileMode {
	if opts.Mode != nil {
		return *opts.Mode
	}
	return 0o644
}

// openDstFile opens the destination for writing. When atomic is true it
// creates a uniquely named temp file next to dst instead, so two concurrent
// atomic copies to the same destination never collide on the temp name.
func openDstFile(dst string, mode os.FileMode, atomic bool) (*os.File, string, error) {
	if atomic {
		writePath := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+".tmp")
		tmpFile, err := os.OpenFile(writePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
		if err != nil {
			return nil, "", fmt.Errorf("create temp file: %w", err)
		}
		return tmpFile, writePath, nil
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return nil, "", fmt.Errorf("create destination: %w", err)
	}
	return f, dst, nil
}
