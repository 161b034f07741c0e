// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Counter is an overflow-safe, monotonically increasing ordinal with an
// encoded close bit.
//
// The logical value occupies all but the low-order bit of the stored word;
// the low bit is the "closed" flag. Once set it is permanent: every
// operation on a closed Counter reports closure and the logical value
// observed at the moment of closing is preserved for later inspection.
//
// Comparisons between two live counters take the difference of their
// 63-bit logical values and read it as signed (int64((a-b)<<1) < 0), which
// gives the correct cyclic ordering across a single wrap of the logical
// value. The spec this type is drawn from additionally reserves two
// high bits for explicit wrap classification to support 32-bit targets;
// that is dropped here as the accepted simplification for 64-bit-only
// deployment (see DESIGN.md).
type Counter struct {
	raw atomix.Uint64
}

const closedBit = 1

// newCounter constructs a Counter holding logical value n, not closed.
func newCounter(n uint64) Counter {
	var c Counter
	c.raw.StoreRelaxed(n << 1)
	return c
}

// Fetch returns the current logical value and whether the counter is closed.
func (c *Counter) Fetch() (uint64, bool) {
	raw := c.raw.LoadAcquire()
	return raw >> 1, raw&closedBit != 0
}

// fetchRelaxed is the same as Fetch but with relaxed ordering, for use by
// the sole writer of an owned sequence reading its own published value.
func (c *Counter) fetchRelaxed() (uint64, bool) {
	raw := c.raw.LoadRelaxed()
	return raw >> 1, raw&closedBit != 0
}

// Increment advances the counter by one (internally by two, skipping the
// close bit) and returns the pre-increment logical value. Reports closed
// if the counter was already closed; the increment still executes on the
// underlying word (harmless, since a closed counter is never read for its
// numeric value again) but the caller must treat the operation as failed.
func (c *Counter) Increment() (uint64, bool) {
	raw := c.raw.AddAcqRel(2)
	if raw&closedBit != 0 {
		return 0, true
	}
	return (raw - 2) >> 1, false
}

// Close atomically sets the close bit, preserving whatever logical value
// was observed at the moment of closing, and returns that value.
func (c *Counter) Close() uint64 {
	sw := spin.Wait{}
	for {
		raw := c.raw.LoadAcquire()
		if raw&closedBit != 0 {
			return raw >> 1
		}
		if c.raw.CompareAndSwapAcqRel(raw, raw|closedBit) {
			return raw >> 1
		}
		sw.Once()
	}
}

// IsClosed reports whether the close bit is set.
func (c *Counter) IsClosed() bool {
	return c.raw.LoadAcquire()&closedBit != 0
}

// CompareAndSwap performs a logical-value CAS. It fails if the stored raw
// value differs from old (including, always, when the counter is closed —
// a closed raw value never matches a non-closed expectation).
func (c *Counter) CompareAndSwap(old, new uint64) bool {
	return c.raw.CompareAndSwapAcqRel(old<<1, new<<1)
}

// lessU64 reports whether a precedes b under wraparound-safe cyclic
// ordering of 63-bit logical values: the difference, shifted into the top
// bits of the word, interpreted as signed.
func lessU64(a, b uint64) bool {
	return int64((a-b)<<1) < 0
}
