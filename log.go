package journalpool

import (
	"log/slog"

	"github.com/coldharbor/journalpool/internal/core"
)

// SetLogger installs l as the logger used by every Pool in the process. A
// nil l reverts to slog's default.
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
