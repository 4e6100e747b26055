package core

import "sync/atomic"

// entrySize is the fixed slot count of every entry in a chain, matching the
// teacher's fixed-width resource arrays rather than a growable slice: a
// constant width keeps slot indexes stable for the lifetime of an entry, so
// a Handle can cheaply remember "my slot is (entry, i)" without pinning a
// slice header.
const entrySize = 32

// slot is one reusable borrow unit. allocation is the owner-token CAS cell:
// zero means free, any other value names the current borrower. reader
// caches the opened journal reader across borrows; releaseTime records when
// the slot was last returned, consulted by releaseAll's deadline sweep.
type slot struct {
	allocation  atomic.Uint64
	releaseTime atomic.Int64
	reader      atomic.Pointer[Reader]
}

// entry is one 32-slot segment in a name's chain. nextStatus arbitrates
// which goroutine grows the chain: a goroutine that wins the CAS from 0 to 1
// is solely responsible for allocating and publishing the next entry: every
// other goroutine that loses the CAS spins on next until it appears.
type entry struct {
	slots      [entrySize]slot
	lockOwner  atomic.Uint64
	nextStatus atomic.Uint32
	next       atomic.Pointer[entry]

	index int
	name  string

	// pool is a non-owning back-reference used only to recognize a
	// Handle whose home entry was not produced by this Pool (a foreign
	// or hand-built Handle passed to Close through the wrong pool).
	pool *Pool
}
