// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// Sender is the producer-side handle to a bounded channel.
type Sender[T any] struct {
	h *sendHalf[T]
}

// TrySend attempts to deliver elem without blocking. It returns
// ErrWouldBlock if the channel is full, or a *ClosedError[T] carrying elem
// back to the caller if the channel has closed.
func (s *Sender[T]) TrySend(elem *T) error { return s.h.trySend(elem) }

// Send blocks until elem is delivered or the channel closes, in which case
// it returns a *ClosedError[T] carrying elem back to the caller.
func (s *Sender[T]) Send(elem T) error { return s.h.send(elem) }

// Close releases this handle. The channel only closes for real once every
// Sender handle derived from it (including clones) has been closed.
func (s *Sender[T]) Close() { s.h.close() }

// IsClosed reports whether the channel has closed. It does not imply the
// channel is drained — a concurrently closed receiver side still permits
// in-flight sends to be rejected, but a closed sender side with live
// receivers simply means no further data will ever arrive.
func (s *Sender[T]) IsClosed() bool { return s.h.isClosed() }

// Cap returns the channel's fixed capacity.
func (s *Sender[T]) Cap() int { return int(s.h.ring.cap()) }

// Clone returns an additional Sender handle sharing this channel. It
// panics unless the channel was constructed with a shared sender side
// (NewMPSC or NewMPMC).
func (s *Sender[T]) Clone() *Sender[T] {
	if _, ok := s.h.mine.(*sharedSequence); !ok {
		panic("ringchan: Clone requires a channel built with a shared sender (NewMPSC or NewMPMC)")
	}
	return &Sender[T]{h: newSendHalf[T](s.h.ring, s.h.head, s.h.capacity)}
}

// Receiver is the consumer-side handle to a bounded channel.
type Receiver[T any] struct {
	h *recvHalf[T]
}

// TryRecv attempts to take a value without blocking. It returns
// ErrWouldBlock if the channel is empty but still open, or ErrClosed once
// the sender side has gone and every published value has been drained.
func (r *Receiver[T]) TryRecv() (T, error) { return r.h.tryRecv() }

// Recv blocks until a value is available or the channel closes and
// drains, in which case it returns ErrClosed.
func (r *Receiver[T]) Recv() (T, error) { return r.h.recv() }

// Close releases this handle. The channel only closes for real once every
// Receiver handle derived from it (including clones) has been closed.
func (r *Receiver[T]) Close() { r.h.close() }

// IsClosed reports whether the channel has closed. See Sender.IsClosed
// for the same drain caveat.
func (r *Receiver[T]) IsClosed() bool { return r.h.isClosed() }

// Cap returns the channel's fixed capacity.
func (r *Receiver[T]) Cap() int { return int(r.h.ring.cap()) }

// Drain forces the sender Sequence closed, letting TryRecv/Recv finish
// draining the channel without waiting for every live Sender handle
// (including clones) to call Close individually. Useful once the caller
// knows no more sends will occur but hasn't tracked down every clone.
func (r *Receiver[T]) Drain() {
	r.h.theirs.close()
}

// Clone returns an additional Receiver handle sharing this channel. It
// panics unless the channel was constructed with a shared receiver side
// (NewSPMC or NewMPMC).
func (r *Receiver[T]) Clone() *Receiver[T] {
	if _, ok := r.h.mine.(*sharedSequence); !ok {
		panic("ringchan: Clone requires a channel built with a shared receiver (NewSPMC or NewMPMC)")
	}
	return &Receiver[T]{h: newRecvHalf[T](r.h.ring, r.h.head)}
}

// newChannel wires a fresh ring, head, and endpoint pair. Capacity rounds
// up to the next power of two; it must be >= 2 before rounding.
func newChannel[T any](capacity int, sharedSender, sharedReceiver bool) (*Sender[T], *Receiver[T]) {
	if capacity < 2 {
		capacityInvalid(capacity)
	}
	n := uint64(roundToPow2(capacity))

	var senderSeq, receiverSeq Sequence
	if sharedSender {
		senderSeq = newSharedSequence(0)
	} else {
		senderSeq = newOwnedSequence(0)
	}
	if sharedReceiver {
		receiverSeq = newSharedSequence(0)
	} else {
		receiverSeq = newOwnedSequence(0)
	}

	hd := newHead(senderSeq, receiverSeq)
	ring := newRingBuffer[T](n, hd)
	hd.onBothReleased = ring.drain

	return &Sender[T]{h: newSendHalf[T](ring, hd, n)}, &Receiver[T]{h: newRecvHalf[T](ring, hd)}
}

// NewSPSC creates a bounded channel with exactly one sender and one
// receiver. Neither endpoint supports Clone.
func NewSPSC[T any](capacity int) (*Sender[T], *Receiver[T]) {
	return newChannel[T](capacity, false, false)
}

// NewMPSC creates a bounded channel with a cloneable sender and a single
// receiver.
func NewMPSC[T any](capacity int) (*Sender[T], *Receiver[T]) {
	return newChannel[T](capacity, true, false)
}

// NewSPMC creates a bounded channel with a single sender and a cloneable
// receiver.
func NewSPMC[T any](capacity int) (*Sender[T], *Receiver[T]) {
	return newChannel[T](capacity, false, true)
}

// NewMPMC creates a bounded channel with cloneable senders and receivers.
func NewMPMC[T any](capacity int) (*Sender[T], *Receiver[T]) {
	return newChannel[T](capacity, true, true)
}
