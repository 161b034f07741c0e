// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import (
	"math"
	"sync"
	"testing"
)

// TestCounterFetch checks the basic construct/fetch round trip.
func TestCounterFetch(t *testing.T) {
	c := newCounter(41)
	v, closed := c.Fetch()
	if closed {
		t.Fatalf("Fetch: got closed, want open")
	}
	if v != 41 {
		t.Fatalf("Fetch: got %d, want 41", v)
	}
}

// TestCounterIncrement checks the pre-increment value contract.
func TestCounterIncrement(t *testing.T) {
	c := newCounter(10)
	for i := uint64(10); i < 20; i++ {
		pre, closed := c.Increment()
		if closed {
			t.Fatalf("Increment(%d): got closed", i)
		}
		if pre != i {
			t.Fatalf("Increment: got pre-value %d, want %d", pre, i)
		}
	}
	v, _ := c.Fetch()
	if v != 20 {
		t.Fatalf("Fetch after 10 increments: got %d, want 20", v)
	}
}

// TestCounterClose checks that Close is idempotent and preserves the
// observed value, and that every subsequent operation reports closed.
func TestCounterClose(t *testing.T) {
	c := newCounter(7)
	if got := c.Close(); got != 7 {
		t.Fatalf("Close: got %d, want 7", got)
	}
	if got := c.Close(); got != 7 {
		t.Fatalf("second Close: got %d, want 7", got)
	}
	if !c.IsClosed() {
		t.Fatal("IsClosed: got false, want true")
	}
	if _, closed := c.Fetch(); !closed {
		t.Fatal("Fetch after Close: got open, want closed")
	}
	if _, closed := c.Increment(); !closed {
		t.Fatal("Increment after Close: got open, want closed")
	}
}

// TestCounterCompareAndSwap exercises the logical-value CAS used by
// sharedSequence's claimed-revert path.
func TestCounterCompareAndSwap(t *testing.T) {
	c := newCounter(5)
	if c.CompareAndSwap(4, 99) {
		t.Fatal("CompareAndSwap with wrong expected value unexpectedly succeeded")
	}
	if !c.CompareAndSwap(5, 6) {
		t.Fatal("CompareAndSwap with correct expected value unexpectedly failed")
	}
	v, _ := c.Fetch()
	if v != 6 {
		t.Fatalf("Fetch after CompareAndSwap: got %d, want 6", v)
	}
}

// TestCounterWrapSafety is scenario S7: initialize a counter near the
// logical maximum and increment it concurrently from many goroutines,
// then check the final value against the expected total under the
// counter's cyclic ordering (lessU64).
func TestCounterWrapSafety(t *testing.T) {
	if RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}
	const goroutines = 8
	const perGoroutine = 8000

	start := uint64(math.MaxUint64>>1) - 100
	c := newCounter(start)

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				if _, closed := c.Increment(); closed {
					t.Error("unexpected close during increment storm")
					return
				}
			}
		}()
	}
	wg.Wait()

	got, closed := c.Fetch()
	if closed {
		t.Fatal("Fetch: got closed, want open")
	}
	// Logical values are 63 bits wide, so the expected total wraps there.
	want := (start + goroutines*perGoroutine) & (math.MaxUint64 >> 1)
	if got != want {
		t.Fatalf("final value: got %d, want %d", got, want)
	}
	if !lessU64(start, got) {
		t.Fatalf("lessU64(%d, %d): got false, want true across the wrap", start, got)
	}
}
