package filelock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// retryInterval is how often Acquire polls for the lock between attempts.
const retryInterval = 50 * time.Millisecond

// Lock wraps a flock.Flock held on a journal's lock sentinel file.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, polling at retryInterval until it
// succeeds or ctx is done.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	fl := flock.New(path)

	locked, err := fl.TryLockContext(ctx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquire file lock %s: %w", path, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquire file lock %s: %w", path, ctx.Err())
		}
		return nil, fmt.Errorf("acquire file lock %s: lock not acquired", path)
	}
	return &Lock{fl: fl}, nil
}

// Release releases the lock. The lock sentinel file is intentionally left
// on disk: removing it could invalidate a lock concurrently acquired by
// another process on a recreated file. Errors are logged, not returned,
// since release is always best-effort cleanup.
func (l *Lock) Release(log *slog.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil {
		log.Debug("release file lock", "path", l.fl.Path(), "err", err)
	}
}
