package metastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Register the pure-Go SQLite driver (no CGO required).
	_ "modernc.org/sqlite"

	"github.com/coldharbor/journalpool/internal/fileutil"
)

// sqliteBusyTimeoutMs bounds how long a catalog statement waits behind a
// concurrent writer before SQLite reports the database as locked.
const sqliteBusyTimeoutMs = 5000

// busyRetries and busyBackoff govern retrying a query that fails with
// SQLITE_BUSY despite the pragma above, the same backoff shape the teacher
// uses around its own baseline query.
const (
	busyRetries = 3
	busyBackoff = 50 * time.Millisecond
)

// Catalog is a SQLite-backed registry of known journals, each mapped to the
// base directory its partitions live under. It is the Configuration
// collaborator: Exists is consulted by whichever goroutine installs a
// name's pool entry, and BaseDir each time the pool opens a reader.
type Catalog struct {
	db         *sql.DB
	path       string
	existsStmt *sql.Stmt
	baseStmt   *sql.Stmt
	insertStmt *sql.Stmt
}

// Open opens (creating if absent) a SQLite catalog at sqlitePath and
// prepares its statements. The schema is created on first open.
func Open(sqlitePath string) (*Catalog, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
		sqlitePath, sqliteBusyTimeoutMs,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", sqlitePath, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journals (
			name      TEXT PRIMARY KEY,
			base_dir  TEXT NOT NULL,
			created   INTEGER NOT NULL
		)`); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on schema failure
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	existsStmt, err := db.Prepare(`SELECT 1 FROM journals WHERE name = ?`)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("prepare exists query: %w", err)
	}
	baseStmt, err := db.Prepare(`SELECT base_dir FROM journals WHERE name = ?`)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("prepare base_dir query: %w", err)
	}
	insertStmt, err := db.Prepare(`INSERT OR IGNORE INTO journals(name, base_dir, created) VALUES (?, ?, ?)`)
	if err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("prepare insert statement: %w", err)
	}

	return &Catalog{db: db, path: sqlitePath, existsStmt: existsStmt, baseStmt: baseStmt, insertStmt: insertStmt}, nil
}

// Close releases the prepared statements and the database connection.
func (c *Catalog) Close() error {
	return errors.Join(c.existsStmt.Close(), c.baseStmt.Close(), c.insertStmt.Close(), c.db.Close())
}

// Exists reports whether name is registered in the catalog, retrying up to
// busyRetries times on any query error other than no-rows (SQLITE_BUSY
// among them) before giving up.
func (c *Catalog) Exists(ctx context.Context, name string) (bool, error) {
	var found int
	var err error
	backoff := busyBackoff
	for attempt := 0; attempt < busyRetries; attempt++ {
		err = c.existsStmt.QueryRowContext(ctx, name).Scan(&found)
		if err == nil || errors.Is(err, sql.ErrNoRows) {
			break
		}
		if attempt < busyRetries-1 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return false, ctx.Err()
			}
			backoff *= 2
		}
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("query journal existence: %w", err)
	}
	return true, nil
}

// BaseDir returns the directory name's partitions live under. The caller
// must already know the journal exists.
func (c *Catalog) BaseDir(ctx context.Context, name string) (string, error) {
	var dir string
	if err := c.baseStmt.QueryRowContext(ctx, name).Scan(&dir); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("journal %q not registered", name)
		}
		return "", fmt.Errorf("query journal base dir: %w", err)
	}
	return dir, nil
}

// Register adds name to the catalog with the given base directory. A second
// registration of the same name is a no-op, leaving the original base
// directory in place.
func (c *Catalog) Register(ctx context.Context, name, baseDir string) error {
	if _, err := c.insertStmt.ExecContext(ctx, name, baseDir, time.Now().Unix()); err != nil {
		return fmt.Errorf("register journal %q: %w", name, err)
	}
	return nil
}

// Snapshot checkpoints the catalog's write-ahead log and atomically copies
// the resulting database file to destPath, so an operator can take a
// point-in-time backup of the journal registry without stopping the pool.
func (c *Catalog) Snapshot(ctx context.Context, destPath string) error {
	if _, err := c.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("checkpoint catalog before snapshot: %w", err)
	}
	if err := fileutil.CopyFile(c.path, destPath, &fileutil.CopyFileOptions{Sync: true, Atomic: true}); err != nil {
		return fmt.Errorf("snapshot catalog to %s: %w", destPath, err)
	}
	return nil
}
