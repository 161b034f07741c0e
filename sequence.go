// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Sequence is one endpoint's claim/commit state over a shared ring.
//
// A Sequence is Owned when exactly one goroutine ever operates on it (the
// SP side of SPSC/SPMC, or the SC side of SPSC/MPSC), and Shared when
// multiple goroutines race on it (the MP side of MPSC/MPMC, the MC side of
// SPMC/MPMC). Owned sequences claim by reading their own relaxed value;
// Shared sequences claim by fetch-and-add on a separate claimed cursor and
// publish via a CAS-spin on the visible count, so concurrent claimants can
// do their I/O in parallel while publication order stays contiguous.
type Sequence interface {
	// fetch returns the published logical value and whether closed.
	fetch() (uint64, bool)
	// close closes the sequence and returns the value observed at closing.
	close() uint64
	// isClosed is a fast closed check without decoding the logical value.
	isClosed() bool
	// newCache allocates a Cache bound to this sequence's opposite number.
	// Owned sequences enforce at most one outstanding cache.
	newCache() *Cache
	// claim reserves the next counter value for this endpoint. limit is the
	// opposite endpoint's sequence; boundOffset is 0 for a receiver (bound
	// = limit.count) and capacity for a sender (bound = limit.count +
	// capacity). ok is false (closed false) on a confirmed WouldBlock.
	claim(cache *Cache, limit Sequence, boundOffset uint64) (k uint64, ok, closed bool)
	// commit publishes a previously claimed counter value k.
	commit(k uint64) (ok, closed bool)
}

// Cache is a Half's local, lazily-refreshed shadow of the opposite
// endpoint's limit. Refreshing it requires an atomic load of the other
// side's Sequence; everything else is plain memory access, which is why
// claim/commit amortize that load across many operations instead of
// issuing it every call.
type Cache struct {
	limit uint64
}

// refresh re-reads the opposite sequence's published value into the cache,
// applying boundOffset (capacity for a sender's view of the receiver, 0 for
// a receiver's view of the sender).
func (c *Cache) refresh(limit Sequence, boundOffset uint64) uint64 {
	v, _ := limit.fetch()
	c.limit = v + boundOffset
	return c.limit
}

// ownedSequence is the Sequence variant for a single-writer endpoint
// (SP of SPSC/SPMC, SC of SPSC/MPSC): a Lamport-style ring cursor where
// the publishing atomic is read back with a relaxed load (cheap,
// same-core) and the opposite side is read with an acquire load only
// when the cache is exhausted.
type ownedSequence struct {
	counter  Counter
	cacheOut atomix.Bool
}

func newOwnedSequence(n uint64) *ownedSequence {
	return &ownedSequence{counter: newCounter(n)}
}

func (s *ownedSequence) fetch() (uint64, bool) { return s.counter.Fetch() }
func (s *ownedSequence) close() uint64         { return s.counter.Close() }
func (s *ownedSequence) isClosed() bool        { return s.counter.IsClosed() }

func (s *ownedSequence) newCache() *Cache {
	if !s.cacheOut.CompareAndSwapAcqRel(false, true) {
		panic("ringchan: owned sequence already has an outstanding cache")
	}
	return &Cache{}
}

func (s *ownedSequence) claim(cache *Cache, limit Sequence, boundOffset uint64) (uint64, bool, bool) {
	cur, closed := s.counter.fetchRelaxed()
	if closed {
		return 0, false, true
	}
	if !lessU64(cur, cache.limit) {
		if !lessU64(cur, cache.refresh(limit, boundOffset)) {
			return 0, false, false
		}
	}
	return cur, true, false
}

func (s *ownedSequence) commit(k uint64) (bool, bool) {
	pre, closed := s.counter.Increment()
	if closed {
		return false, true
	}
	if pre != k {
		panic("ringchan: owned sequence committed out of claim order")
	}
	return true, false
}

// sharedSequence is the Sequence variant for a multi-writer endpoint (MP of
// MPSC/MPMC, MC of SPMC/MPMC). claimed is fetch-and-added to reserve a
// counter value; commit spins a CAS on counter from k to k+1, serializing
// publication in claim order regardless of which claimant finishes its I/O
// first (see DESIGN.md for the grounding).
type sharedSequence struct {
	counter Counter
	claimed Counter
}

func newSharedSequence(n uint64) *sharedSequence {
	return &sharedSequence{counter: newCounter(n), claimed: newCounter(n)}
}

func (s *sharedSequence) fetch() (uint64, bool) { return s.counter.Fetch() }
func (s *sharedSequence) close() uint64         { return s.counter.Close() }
func (s *sharedSequence) isClosed() bool        { return s.counter.IsClosed() }

func (s *sharedSequence) newCache() *Cache { return &Cache{} }

func (s *sharedSequence) claim(cache *Cache, limit Sequence, boundOffset uint64) (uint64, bool, bool) {
	sw := spin.Wait{}
	for {
		if s.counter.IsClosed() {
			return 0, false, true
		}
		k, closed := s.claimed.Increment()
		if closed {
			return 0, false, true
		}
		if lessU64(k, cache.limit) {
			return k, true, false
		}
		if lessU64(k, cache.refresh(limit, boundOffset)) {
			return k, true, false
		}
		if s.claimed.CompareAndSwap(k+1, k) {
			return 0, false, false
		}
		// Revert lost the race: another claimant already advanced past us.
		// The limit may have moved too, so loop back to the check above.
		sw.Once()
	}
}

func (s *sharedSequence) commit(k uint64) (bool, bool) {
	sw := spin.Wait{}
	for {
		if s.counter.IsClosed() {
			return false, true
		}
		if s.counter.CompareAndSwap(k, k+1) {
			return true, false
		}
		sw.Once()
	}
}
