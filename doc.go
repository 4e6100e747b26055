// Package journalpool provides a lock-free pool of journal readers shared
// across goroutines within one process.
//
// A pool hands out Handles bound to a journal name; a Handle wraps a
// journal reader (Refresh picks up newly appended partitions, and the
// reader's column access is through the Handle's Reader field) but its
// Close returns the underlying reader to the pool for reuse instead of
// tearing it down, unless the pool has been closed or the slot the Handle
// came from was reclaimed out from under it.
//
// # Basic usage
//
//	pool, err := journalpool.NewPool(
//		journalpool.WithBaseDir("/var/lib/journals"),
//		journalpool.WithCatalogPath("/var/lib/journals/catalog.db"),
//		journalpool.WithLockDir("/var/lib/journals/locks"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	h, err := pool.Reader(ctx, "trades")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer h.Close()
//
// # Administrative locking
//
// Lock drains every borrowed slot for a name before an exclusive operation
// (a backup, a schema change) and pairs the in-process drain with a
// cross-process file lock, so a Lock on the same name from a second process
// sharing the lock directory waits until this one is released:
//
//	owner := journalpool.NewOwnerToken()
//	for {
//		err := pool.Lock(ctx, "trades", owner)
//		if err == nil {
//			break
//		}
//		if !errors.Is(err, journalpool.ErrRetry) {
//			log.Fatal(err)
//		}
//	}
//	defer pool.Unlock("trades", owner)
//
// # Catalog backups
//
// SnapshotCatalog checkpoints and copies the journal registry without
// stopping the pool, useful before a maintenance window:
//
//	if err := pool.SnapshotCatalog(ctx, "/var/backups/catalog-2024-01-01.db"); err != nil {
//		log.Fatal(err)
//	}
package journalpool
