package journal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/mmap"
)

// Reader is a memory mapped view over one journal's partition directories.
// A journal on disk is a directory of partitions, each holding one file per
// column; Reader keeps every column file of every partition it has seen
// mapped for the lifetime of the Reader, and only grows, it never shrinks,
// across calls to Refresh.
type Reader struct {
	name    string
	dir     string
	log     *slog.Logger
	mu      sync.Mutex
	parts   []*partition
	known   map[string]struct{} // partition directory names already mapped
	mapped  int64                // total bytes currently mapped, for logging
}

// partition is one time-bounded slice of a journal: a directory holding one
// memory mapped file per column.
type partition struct {
	name    string
	columns map[string]*mmap.ReaderAt
	symbols map[string]*symbolTable
}

// Open maps every partition currently present under dir/name. It fails if
// the journal directory does not exist; existence itself is expected to
// have already been checked by the caller's ExistsFunc.
func Open(_ context.Context, dir, name string) (*Reader, error) {
	r := &Reader{
		name:  name,
		dir:   filepath.Join(dir, name),
		log:   slog.Default().With("journal", name),
		known: make(map[string]struct{}),
	}
	if err := r.mapNewPartitions(); err != nil {
		return nil, err
	}
	r.log.Debug("opened journal reader", "partitions", len(r.parts), "mapped", humanize.Bytes(uint64(r.mapped)))
	return r, nil
}

// Refresh maps any partition directories created since the last Open or
// Refresh. Columns within an already-mapped partition are assumed
// append-only on the underlying file; this reader does not remap a column
// whose partition it has already seen, matching a time-series journal's
// write-once-per-partition column files.
func (r *Reader) Refresh() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.parts)
	if err := r.mapNewPartitions(); err != nil {
		return err
	}
	if n := len(r.parts) - before; n > 0 {
		r.log.Debug("refreshed journal reader", "new_partitions", n, "mapped", humanize.Bytes(uint64(r.mapped)))
	}
	return nil
}

// mapNewPartitions must be called with mu held, or during Open before any
// other goroutine can observe r.
func (r *Reader) mapNewPartitions() error {
	ents, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("read journal directory %s: %w", r.dir, err)
	}

	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, pn := range names {
		if _, ok := r.known[pn]; ok {
			continue
		}
		p, err := r.mapPartition(pn)
		if err != nil {
			return err
		}
		r.known[pn] = struct{}{}
		r.parts = append(r.parts, p)
	}
	return nil
}

func (r *Reader) mapPartition(name string) (*partition, error) {
	pdir := filepath.Join(r.dir, name)
	ents, err := os.ReadDir(pdir)
	if err != nil {
		return nil, fmt.Errorf("read partition directory %s: %w", pdir, err)
	}

	p := &partition{
		name:    name,
		columns: make(map[string]*mmap.ReaderAt),
		symbols: make(map[string]*symbolTable),
	}
	for _, e := range ents {
		if e.IsDir() || filepath.Ext(e.Name()) != ".d" {
			continue
		}
		col := e.Name()[:len(e.Name())-len(".d")]
		path := filepath.Join(pdir, e.Name())
		rd, err := mmap.Open(path)
		if err != nil {
			return nil, fmt.Errorf("map column %s/%s: %w", name, col, err)
		}
		p.columns[col] = rd
		r.mapped += int64(rd.Len())

		symPath := filepath.Join(pdir, col+".symbols")
		if st, err := loadSymbolTable(symPath); err == nil {
			p.symbols[col] = st
		}
	}
	return p, nil
}

// Partitions returns the names of every partition mapped so far, oldest
// first.
func (r *Reader) Partitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.parts))
	for i, p := range r.parts {
		names[i] = p.name
	}
	return names
}

// Column returns the memory mapped column file for the given partition and
// column name. The returned ReaderAt is valid until the Reader is closed.
func (r *Reader) Column(partitionName, column string) (*mmap.ReaderAt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parts {
		if p.name != partitionName {
			continue
		}
		rd, ok := p.columns[column]
		return rd, ok
	}
	return nil, false
}

// Symbol resolves a dictionary-encoded symbol id for column in partition.
// Columns without a ".symbols" side file are not symbol-encoded; the second
// return value is false in that case too.
func (r *Reader) Symbol(partitionName, column string, id int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.parts {
		if p.name != partitionName {
			continue
		}
		st, ok := p.symbols[column]
		if !ok {
			return "", false
		}
		return st.lookup(id)
	}
	return "", false
}

// Close unmaps every column file across every partition. Errors from
// individual unmaps are joined rather than stopping at the first, so one
// bad file descriptor does not leak the rest.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, p := range r.parts {
		for col, rd := range p.columns {
			if err := rd.Close(); err != nil {
				errs = append(errs, fmt.Errorf("unmap %s/%s: %w", p.name, col, err))
			}
		}
	}
	r.log.Debug("closed journal reader", "released", humanize.Bytes(uint64(r.mapped)))
	return errors.Join(errs...)
}
