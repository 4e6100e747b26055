package metastore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// TestExistsFalseForUnregisteredName verifies Exists reports false for a
// name never registered.
func TestExistsFalseForUnregisteredName(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ok, err := c.Exists(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if ok {
		t.Error("Exists(ghost) = true, want false")
	}
}

// TestRegisterThenExists verifies a registered name is found afterward and
// its base directory is retrievable.
func TestRegisterThenExists(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	if err := c.Register(ctx, "trades", "/data/journals"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ok, err := c.Exists(ctx, "trades")
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !ok {
		t.Fatal("Exists(trades) = false, want true")
	}

	dir, err := c.BaseDir(ctx, "trades")
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if dir != "/data/journals" {
		t.Errorf("BaseDir = %q, want /data/journals", dir)
	}
}

// TestRegisterIsIdempotent verifies registering the same name twice keeps
// the original base directory.
func TestRegisterIsIdempotent(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	if err := c.Register(ctx, "trades", "/data/a"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := c.Register(ctx, "trades", "/data/b"); err != nil {
		t.Fatalf("second Register: %v", err)
	}

	dir, err := c.BaseDir(ctx, "trades")
	if err != nil {
		t.Fatalf("BaseDir: %v", err)
	}
	if dir != "/data/a" {
		t.Errorf("BaseDir after re-register = %q, want /data/a (first write wins)", dir)
	}
}

// TestBaseDirUnknownNameFails verifies BaseDir errors for an unregistered
// name instead of returning an empty string silently.
func TestBaseDirUnknownNameFails(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	if _, err := c.BaseDir(context.Background(), "ghost"); err == nil {
		t.Fatal("BaseDir(ghost) returned nil error, want not-registered error")
	}
}

// TestSnapshotProducesIndependentCopy verifies Snapshot writes a catalog
// file that can be opened on its own and reflects registrations made before
// the snapshot was taken.
func TestSnapshotProducesIndependentCopy(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()
	if err := c.Register(ctx, "trades", "/data/journals"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := c.Snapshot(ctx, dest); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	backup, err := Open(dest)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer backup.Close()

	ok, err := backup.Exists(ctx, "trades")
	if err != nil {
		t.Fatalf("Exists on snapshot: %v", err)
	}
	if !ok {
		t.Fatal("Exists(trades) on snapshot = false, want true")
	}
}
