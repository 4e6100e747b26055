package journalpool

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/coldharbor/journalpool/internal/config"
	"github.com/coldharbor/journalpool/internal/core"
	"github.com/coldharbor/journalpool/internal/filelock"
	"github.com/coldharbor/journalpool/internal/fileutil"
	"github.com/coldharbor/journalpool/internal/journal"
	"github.com/coldharbor/journalpool/internal/metastore"
)

// OwnerToken identifies the holder of a borrowed slot or an administrative
// lock, minted by NewOwnerToken.
type OwnerToken = core.OwnerToken

// NewOwnerToken mints a token guaranteed unique for the process lifetime.
func NewOwnerToken() OwnerToken {
	return core.NewOwnerToken()
}

// Handle is a borrowed journal reader. It exposes Refresh and Close
// directly; column and record access is through its Reader field, which
// holds the concrete *journal.Reader. Its Close returns the reader to the
// pool instead of releasing its resources, unless the pool has been closed
// or the slot was reclaimed out from under it.
type Handle = core.Handle

// Pool is a lock-free pool of journal readers, backed by a SQLite catalog
// of known journal names and paired with a cross-process file lock for
// administrative locking.
type Pool struct {
	core      *core.Pool
	catalog   *metastore.Catalog
	cfg       poolConfig
	locks     sync.Map // string -> *filelock.Lock
	sessionID string   // correlates this pool's log lines across a process's lifetime
}

// NewPool constructs a Pool from the given Options. WithBaseDir,
// WithCatalogPath, and WithLockDir are required.
func NewPool(opts ...Option) (*Pool, error) {
	cfg := defaultPoolConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return newPool(cfg)
}

// NewPoolFromFile loads a poolConfig from a YAML file at path, then applies
// any additional Options on top of it.
func NewPoolFromFile(path string, opts ...Option) (*Pool, error) {
	f, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg := defaultPoolConfig()
	cfg.maxSegments = f.MaxSegments
	cfg.baseDir = f.BaseDir
	cfg.catalogPath = f.CatalogPath
	cfg.lockDir = f.LockDir
	if f.LockTimeout > 0 {
		cfg.lockTimeout = f.LockTimeout
	}
	for _, o := range opts {
		o(&cfg)
	}
	return newPool(cfg)
}

func newPool(cfg poolConfig) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if err := fileutil.EnsureDir(cfg.baseDir); err != nil {
		return nil, fmt.Errorf("prepare base dir: %w", err)
	}
	if err := fileutil.EnsureDir(cfg.lockDir); err != nil {
		return nil, fmt.Errorf("prepare lock dir: %w", err)
	}

	cat, err := metastore.Open(cfg.catalogPath)
	if err != nil {
		return nil, err
	}

	p := &Pool{catalog: cat, cfg: cfg, sessionID: uuid.NewString()}

	corePool, err := core.NewPool(core.Config{
		MaxSegments: cfg.maxSegments,
		Open: func(ctx context.Context, name string) (core.Reader, error) {
			dir, err := cat.BaseDir(ctx, name)
			if err != nil {
				return nil, err
			}
			return journal.Open(ctx, dir, name)
		},
		Exists: cat.Exists,
	})
	if err != nil {
		_ = cat.Close()
		return nil, err
	}
	p.core = corePool
	core.Logger().Info("pool opened", "session", p.sessionID, "base_dir", cfg.baseDir)
	return p, nil
}

// MaxEntries returns the maximum number of concurrent borrows a single
// journal name can support.
func (p *Pool) MaxEntries() int {
	return p.core.MaxEntries()
}

// Register adds name to the pool's catalog, so subsequent Reader calls for
// name succeed. Safe to call more than once for the same name.
func (p *Pool) Register(ctx context.Context, name string) error {
	if err := fileutil.EnsureDir(filepath.Join(p.cfg.baseDir, name)); err != nil {
		return fmt.Errorf("prepare journal dir: %w", err)
	}
	return p.catalog.Register(ctx, name, p.cfg.baseDir)
}

// Reader acquires a Handle to the named journal.
func (p *Pool) Reader(ctx context.Context, name string) (*Handle, error) {
	return p.core.Reader(ctx, name)
}

// Lock administratively locks name: every borrowed slot is drained
// in-process, then a cross-process file lock is acquired so a Lock on the
// same name by a second process sharing the lock directory waits for it.
// Reader does not consult the file lock. On any failure after the
// in-process lock succeeds, the in-process lock is rolled back.
func (p *Pool) Lock(ctx context.Context, name string, owner OwnerToken) error {
	if err := p.core.Lock(name, owner); err != nil {
		return err
	}

	lockCtx := ctx
	if p.cfg.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, p.cfg.lockTimeout)
		defer cancel()
	}

	fl, err := filelock.Acquire(lockCtx, filepath.Join(p.cfg.lockDir, name+".lock"))
	if err != nil {
		p.core.Unlock(name, owner)
		return fmt.Errorf("acquire cross-process lock for %q: %w", name, err)
	}
	p.locks.Store(name, fl)
	return nil
}

// Unlock releases an administrative lock held by owner, both the
// in-process drain and the paired cross-process file lock.
func (p *Pool) Unlock(name string, owner OwnerToken) {
	p.core.Unlock(name, owner)
	if v, ok := p.locks.LoadAndDelete(name); ok {
		v.(*filelock.Lock).Release(core.Logger())
	}
}

// SnapshotCatalog writes a point-in-time copy of the journal registry to
// destPath, for operators taking a backup before a risky maintenance
// operation. Safe to call while the pool is serving readers.
func (p *Pool) SnapshotCatalog(ctx context.Context, destPath string) error {
	return p.catalog.Snapshot(ctx, destPath)
}

// Close closes the pool and its catalog. Idempotent.
func (p *Pool) Close() error {
	core.Logger().Info("pool closing", "session", p.sessionID)
	return errors.Join(p.core.Close(), p.catalog.Close())
}
