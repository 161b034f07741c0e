// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import (
	"sync"
	"testing"
)

// TestOwnedSequenceClaimCommit walks an Owned sequence through a claim
// cycle against a fixed capacity-4 bound and checks that claims stop at the
// bound and resume once the receiver advances and a refresh sees it.
func TestOwnedSequenceClaimCommit(t *testing.T) {
	sender := newOwnedSequence(0)
	receiver := newOwnedSequence(0)
	cache := sender.newCache()

	for k := uint64(0); k < 4; k++ {
		got, ok, closed := sender.claim(cache, receiver, 4)
		if closed {
			t.Fatalf("claim(%d): unexpectedly closed", k)
		}
		if !ok {
			t.Fatalf("claim(%d): got !ok, want ok (capacity 4 not yet exhausted)", k)
		}
		if got != k {
			t.Fatalf("claim(%d): got counter %d, want %d", k, got, k)
		}
		if ok, closed := sender.commit(got); !ok || closed {
			t.Fatalf("commit(%d): got (%v, %v), want (true, false)", k, ok, closed)
		}
	}

	if _, ok, _ := sender.claim(cache, receiver, 4); ok {
		t.Fatal("claim beyond capacity: got ok, want !ok")
	}

	// Receiver frees one slot; claim must succeed again after a cache
	// refresh observes the new limit.
	if _, ok, closed := receiver.commit(0); !ok || closed {
		t.Fatal("receiver commit(0) failed unexpectedly")
	}
	got, ok, closed := sender.claim(cache, receiver, 4)
	if closed || !ok {
		t.Fatalf("claim after receiver advance: got (%d, %v, %v), want (4, true, false)", got, ok, closed)
	}
	if got != 4 {
		t.Fatalf("claim after receiver advance: got %d, want 4", got)
	}
}

// TestOwnedSequenceSingleCache checks that a second outstanding Cache on
// the same Owned sequence panics, per its single-cache invariant.
func TestOwnedSequenceSingleCache(t *testing.T) {
	s := newOwnedSequence(0)
	s.newCache()

	defer func() {
		if recover() == nil {
			t.Fatal("second newCache: expected panic, got none")
		}
	}()
	s.newCache()
}

// TestOwnedSequenceCommitOutOfOrder checks that committing a counter
// other than the one returned by the preceding claim panics, since an
// Owned sequence has exactly one claimant and must commit in claim order.
func TestOwnedSequenceCommitOutOfOrder(t *testing.T) {
	s := newOwnedSequence(0)
	lim := newOwnedSequence(0)
	cache := s.newCache()

	if _, ok, _ := s.claim(cache, lim, 4); !ok {
		t.Fatal("claim: got !ok")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("out-of-order commit: expected panic, got none")
		}
	}()
	s.commit(5)
}

// TestSharedSequenceConcurrentClaim drives many goroutines claiming and
// committing against one Shared sequence and checks that every claimed
// counter in [0, total) was committed exactly once, with no gaps — the
// FIFO-publication guarantee the commit-CAS-spin exists to provide.
func TestSharedSequenceConcurrentClaim(t *testing.T) {
	if RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}
	const goroutines = 16
	const perGoroutine = 2000
	const total = goroutines * perGoroutine

	s := newSharedSequence(0)
	lim := newOwnedSequence(uint64(total)) // pretend the bound is always open

	seen := make([]int32, total)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache := s.newCache()
			for range perGoroutine {
				k, ok, closed := s.claim(cache, lim, 0)
				if closed || !ok {
					t.Errorf("claim: got (%v, %v, %v), want (_, true, false)", k, ok, closed)
					return
				}
				seen[k]++
				if ok, closed := s.commit(k); !ok || closed {
					t.Errorf("commit(%d): got (%v, %v), want (true, false)", k, ok, closed)
					return
				}
			}
		}()
	}
	wg.Wait()

	for i, n := range seen {
		if n != 1 {
			t.Fatalf("counter %d claimed %d times, want exactly 1", i, n)
		}
	}
	final, closed := s.fetch()
	if closed {
		t.Fatal("fetch: got closed, want open")
	}
	if final != total {
		t.Fatalf("final committed count: got %d, want %d", final, total)
	}
}

// TestSequenceCloseStopsClaim checks that close() makes every subsequent
// claim report closed, regardless of variant.
func TestSequenceCloseStopsClaim(t *testing.T) {
	for name, s := range map[string]Sequence{
		"owned":  newOwnedSequence(0),
		"shared": newSharedSequence(0),
	} {
		lim := newOwnedSequence(100)
		cache := s.newCache()
		s.close()
		if _, ok, closed := s.claim(cache, lim, 4); ok || !closed {
			t.Fatalf("%s: claim after close: got (ok=%v, closed=%v), want (false, true)", name, ok, closed)
		}
	}
}
