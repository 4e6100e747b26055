package core

import (
	"log/slog"
	"sync/atomic"
)

// logger holds a caller-supplied override; defaultLogger caches slog's
// process-wide default so Logger() need not call slog.Default() (which
// takes a lock) on every call.
var (
	logger        atomic.Pointer[slog.Logger]
	defaultLogger atomic.Pointer[slog.Logger]
)

// SetLogger installs l as the logger used by every Pool. A nil l reverts to
// slog's default. Intended to be called once during process startup.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}

// Logger returns the active logger: the caller-supplied override if set,
// otherwise a cached copy of slog.Default().
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if d := defaultLogger.Load(); d != nil {
		return d
	}
	d := slog.Default()
	defaultLogger.Store(d)
	return d
}
