// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// bufInfo supplies the occupied-range bounds a ringBuffer needs to drain
// itself on teardown. head implements this by exposing its sender and
// receiver sequences' published counters.
type bufInfo interface {
	start() uint64 // oldest still-occupied counter (receiver's position)
	end() uint64   // next counter to be written (sender's position)
}

// ringBuffer is the fixed-capacity, power-of-two slot array shared by every
// Half derived from the same channel. It does not itself track which slots
// hold valid data — that is the Sequence protocol's job — but it knows how
// to destroy whatever range a bufInfo reports as still occupied when the
// channel is torn down.
type ringBuffer[T any] struct {
	body []T
	mask uint64
	info bufInfo
}

func newRingBuffer[T any](capacity uint64, info bufInfo) *ringBuffer[T] {
	return &ringBuffer[T]{
		body: make([]T, capacity),
		mask: capacity - 1,
		info: info,
	}
}

func (b *ringBuffer[T]) cap() uint64 { return b.mask + 1 }

// slot returns the slot bound to counter c.
func (b *ringBuffer[T]) slot(c uint64) *T {
	return &b.body[c&b.mask]
}

// drain destructs every slot in [info.start(), info.end()) exactly once.
// It is called once the last Half on both sides has been closed. For slot
// types with a Close method, Close is invoked in place before the slot is
// zeroed; the zeroing itself lets the garbage collector reclaim anything
// the slot referenced even for types that don't.
func (b *ringBuffer[T]) drain() {
	start, end := b.info.start(), b.info.end()
	for c := start; lessU64(c, end); c++ {
		s := b.slot(c)
		if cl, ok := any(s).(interface{ Close() }); ok {
			cl.Close()
		}
		var zero T
		*s = zero
	}
}
