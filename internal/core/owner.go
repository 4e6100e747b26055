package core

import "sync/atomic"

// OwnerToken identifies the holder of a slot or an administrative lock.
// Zero means unheld. Tokens are minted from a single process-wide counter
// so two concurrent acquisitions can never observe the same value, the
// same guarantee the teacher gets from Instance.gen but applied to a
// pool-wide counter rather than a per-instance generation.
type OwnerToken uint64

var ownerSeq atomic.Uint64

// NewOwnerToken mints a token guaranteed unique for the lifetime of the
// process. Token 0 is never issued.
func NewOwnerToken() OwnerToken {
	return OwnerToken(ownerSeq.Add(1))
}
