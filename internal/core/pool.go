package core

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool is a lock-free pool of journal readers, one segment chain per
// journal name. Acquisition and release never take a mutex; every decision
// is a compare-and-swap on a slot's allocation cell. The only structure not
// built on these compare-and-swaps is the name map itself, which relies on
// sync.Map's own internal synchronization for put-if-absent.
type Pool struct {
	entries sync.Map // string -> *entry
	closed  atomic.Bool
	cfg     Config
}

// NewPool validates cfg and constructs a Pool. An invalid Config is a
// programmer error and is reported as an error rather than a panic, since a
// Pool is typically long-lived server-side state rather than a short-lived
// test fixture; see DESIGN.md for why this departs from the teacher's
// panic-on-invalid-config constructors.
func NewPool(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pool config: %w", err)
	}
	return &Pool{cfg: cfg}, nil
}

// MaxEntries returns the maximum number of concurrent borrows a single
// journal name can support: the segment cap times the fixed slot width.
func (p *Pool) MaxEntries() int {
	return p.cfg.MaxSegments * entrySize
}

// Reader acquires a handle to the named journal, growing the segment chain
// or reusing a previously opened reader as needed.
func (p *Pool) Reader(ctx context.Context, name string) (*Handle, error) {
	if p.closed.Load() {
		return nil, ErrPoolClosed
	}

	head, err := p.entryFor(ctx, name)
	if err != nil {
		return nil, err
	}

	if OwnerToken(head.lockOwner.Load()) != 0 {
		return nil, ErrLocked
	}

	e := head
	for {
		for i := range e.slots {
			owner := NewOwnerToken()
			if e.slots[i].allocation.CompareAndSwap(0, uint64(owner)) {
				return p.finishAcquire(ctx, e, i, owner)
			}
		}

		next, err := p.advance(ctx, e)
		if err != nil {
			return nil, err
		}
		e = next
	}
}

// entryFor returns the head entry for name, installing a fresh one and
// checking on-disk existence if this goroutine is the first to see this
// name. The entry is left installed even when the existence check fails,
// matching the chosen resolution in DESIGN.md: only the installing
// goroutine ever pays the existence-check cost for a given name.
func (p *Pool) entryFor(ctx context.Context, name string) (*entry, error) {
	if v, ok := p.entries.Load(name); ok {
		return v.(*entry), nil
	}

	fresh := &entry{index: 0, name: name, pool: p}
	actual, loaded := p.entries.LoadOrStore(name, fresh)
	head := actual.(*entry)
	if loaded {
		return head, nil
	}

	ok, err := p.cfg.Exists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check journal existence: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return head, nil
}

// advance returns the next entry in e's chain, growing the chain if e is
// the tail and the segment cap has not been reached. Exactly one goroutine
// wins the right to grow via nextStatus; every other goroutine racing on
// the same boundary spins until the winner publishes its entry.
func (p *Pool) advance(ctx context.Context, e *entry) (*entry, error) {
	if n := e.next.Load(); n != nil {
		return n, nil
	}
	if e.index+1 >= p.cfg.MaxSegments {
		return nil, ErrPoolFull
	}
	if e.nextStatus.CompareAndSwap(0, 1) {
		grown := &entry{index: e.index + 1, name: e.name, pool: p}
		e.next.Store(grown)
		return grown, nil
	}
	for {
		if n := e.next.Load(); n != nil {
			return n, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}
}

// finishAcquire opens or refreshes the reader cached in slot i of e, then
// wraps it in a Handle. If the pool closed between the CAS above and this
// point, the Handle is returned without an interceptor: its eventual Close
// frees the reader directly instead of routing through CanClose.
func (p *Pool) finishAcquire(ctx context.Context, e *entry, i int, owner OwnerToken) (*Handle, error) {
	s := &e.slots[i]

	rp := s.reader.Load()
	if rp == nil {
		r, err := p.cfg.Open(ctx, e.name)
		if err != nil {
			s.allocation.Store(0)
			return nil, fmt.Errorf("open journal %q: %w", e.name, err)
		}
		s.reader.Store(&r)
		rp = &r
	} else if err := (*rp).Refresh(); err != nil {
		s.allocation.Store(0)
		return nil, fmt.Errorf("refresh journal %q: %w", e.name, err)
	}

	h := &Handle{Reader: *rp, home: e, slot: i, owner: owner}
	if p.closed.Load() {
		return h, nil
	}
	h.interceptor = p
	return h, nil
}

// CanClose implements CloseInterceptor. It is invoked by Handle.Close, once
// per Handle, at most once.
func (p *Pool) CanClose(h *Handle) bool {
	if h.home == nil || h.home.pool != p {
		Logger().Error("closing handle foreign to this pool", "journal", h.home)
		return true
	}

	s := &h.home.slots[h.slot]
	if OwnerToken(s.allocation.Load()) != h.owner {
		Logger().Error("closing handle that no longer owns its slot",
			"journal", h.home.name, "slot", h.slot)
		return true
	}

	if p.closed.Load() {
		s.reader.Store(nil)
		return true
	}

	s.releaseTime.Store(time.Now().UnixNano())
	s.allocation.Store(0)
	return false
}

// Lock administratively drains every slot across name's entry chain so no
// borrow can proceed until Unlock. If name has no entry yet (no Reader call
// has ever been made for it), Lock succeeds immediately without creating
// one: there is nothing to drain, and a later first Reader call for name is
// free to proceed. Re-entrant: a second Lock call by the same owner
// succeeds, walking and draining the chain again. A foreign owner's call
// fails ErrLocked; encountering a live borrower fails ErrRetry without
// undoing slots already reclaimed in this pass and without clearing the lock
// owner, so the caller can simply retry (or Unlock to give up).
func (p *Pool) Lock(name string, owner OwnerToken) error {
	v, ok := p.entries.Load(name)
	if !ok {
		return nil
	}
	head := v.(*entry)

	if !head.lockOwner.CompareAndSwap(0, uint64(owner)) {
		if OwnerToken(head.lockOwner.Load()) != owner {
			return ErrLocked
		}
	}

	for e := head; e != nil; e = e.next.Load() {
		for i := range e.slots {
			s := &e.slots[i]
			if s.allocation.CompareAndSwap(0, uint64(owner)) {
				if rp := s.reader.Load(); rp != nil {
					if err := (*rp).Close(); err != nil {
						Logger().Warn("close reader during lock", "journal", name, "err", err)
					}
					s.reader.Store(nil)
				}
				s.allocation.Store(0)
				continue
			}
			return ErrRetry
		}
	}
	return nil
}

// Unlock releases an administrative lock held by owner. A call from any
// other owner, or when name is not locked, is a no-op. The entry chain is
// dropped from the name map so the next Reader call for name starts fresh,
// matching the redesign note that Unlock need not resume service to the old
// chain's cached readers, all of which Lock already closed.
func (p *Pool) Unlock(name string, owner OwnerToken) {
	v, ok := p.entries.Load(name)
	if !ok {
		return
	}
	head := v.(*entry)
	if OwnerToken(head.lockOwner.Load()) != owner {
		return
	}
	p.entries.Delete(name)
	head.lockOwner.Store(0)
}

// Close marks the pool closed and best-effort releases every cached reader
// that is not currently borrowed. Idempotent: a second call is a no-op.
// Readers still checked out at the time of this call are torn down lazily,
// the next time their Handle is closed, via CanClose's closed branch above.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.releaseAll(int64(1) << 62)
	return nil
}

// releaseAll claims and closes every slot whose releaseTime is older than
// deadline, across every name and every entry in every chain. Close calls
// this with an effectively infinite deadline. Claiming a slot that is
// currently borrowed fails its CAS and is skipped; that borrower's eventual
// Close will find the pool closed and free it then.
func (p *Pool) releaseAll(deadline int64) {
	var g errgroup.Group
	p.entries.Range(func(_, v any) bool {
		for e := v.(*entry); e != nil; e = e.next.Load() {
			e := e
			for i := range e.slots {
				i := i
				g.Go(func() error {
					p.releaseSlot(e, i, deadline)
					return nil
				})
			}
		}
		return true
	})
	_ = g.Wait()
}

func (p *Pool) releaseSlot(e *entry, i int, deadline int64) {
	s := &e.slots[i]
	if s.releaseTime.Load() >= deadline {
		return
	}

	owner := NewOwnerToken()
	if !s.allocation.CompareAndSwap(0, uint64(owner)) {
		return
	}
	defer s.allocation.Store(0)

	if s.releaseTime.Load() >= deadline {
		return
	}

	rp := s.reader.Load()
	if rp == nil {
		return
	}
	if err := (*rp).Close(); err != nil {
		Logger().Warn("close reader during shutdown", "journal", e.name, "slot", i, "err", err)
	}
	s.reader.Store(nil)
}
