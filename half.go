// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// sendHalf is the producer-side endpoint view: the shared ring, the shared
// head, which Sequence is "mine" (the sender's) vs "theirs" (the
// receiver's, used only to refresh the flow-control cache), my own Cache,
// and the preallocated waiter node used for blocking Send.
type sendHalf[T any] struct {
	ring        *ringBuffer[T]
	head        *head
	mine        Sequence
	theirs      Sequence
	cache       *Cache
	capacity    uint64
	closedLocal bool
	node        *waiterNode
}

func newSendHalf[T any](ring *ringBuffer[T], hd *head, capacity uint64) *sendHalf[T] {
	hd.acquireSender()
	return &sendHalf[T]{
		ring:     ring,
		head:     hd,
		mine:     hd.sender,
		theirs:   hd.receiver,
		cache:    hd.sender.newCache(),
		capacity: capacity,
		node:     newWaiterNode(roleSend),
	}
}

// trySend is the non-blocking fast path. On success the slot is published
// and a parked receiver (if any) is woken. On failure the payload is never
// written past the slot's lifetime: a bitwise copy is held in val until
// commit succeeds, and any closed-induced rescue returns that copy rather
// than re-reading the slot (which may have raced with other claimants in
// the Shared case).
func (h *sendHalf[T]) trySend(elem *T) error {
	if h.closedLocal {
		return &ClosedError[T]{Value: *elem}
	}
	k, ok, closed := h.mine.claim(h.cache, h.theirs, h.capacity)
	if closed {
		h.closedLocal = true
		return &ClosedError[T]{Value: *elem}
	}
	if !ok {
		if !h.theirs.isClosed() {
			return ErrWouldBlock
		}
		// Receiver side has gone away while the ring was full. Re-check
		// once more against a refreshed cache: a slot may have freed up in
		// the gap between our failed claim and observing the receiver's
		// closure. If it still doesn't fit, no further capacity will ever
		// free up, so this is terminal rather than transient.
		h.cache.refresh(h.theirs, h.capacity)
		k2, ok2, closed2 := h.mine.claim(h.cache, h.theirs, h.capacity)
		if closed2 || !ok2 {
			h.closedLocal = true
			return &ClosedError[T]{Value: *elem}
		}
		k = k2
	}

	val := *elem
	*h.ring.slot(k) = val

	committed, closed2 := h.mine.commit(k)
	if !committed || closed2 {
		h.closedLocal = true
		var zero T
		*h.ring.slot(k) = zero // never published; nobody will claim k
		return &ClosedError[T]{Value: val}
	}

	h.head.sched.wakeOne(roleRecv)
	return nil
}

// send blocks until elem is delivered or the channel closes. It registers
// a wake-handle before parking and retries the fast path immediately if
// registration is refused (the refusal itself proves a receiver just
// freed capacity).
func (h *sendHalf[T]) send(elem T) error {
	for {
		err := h.trySend(&elem)
		if err == nil {
			return nil
		}
		if !IsWouldBlock(err) {
			return err
		}
		if h.head.sched.register(h.node) {
			h.head.sched.park(h.node)
		}
	}
}

func (h *sendHalf[T]) isClosed() bool {
	if h.closedLocal {
		return true
	}
	if h.head.isClosed() {
		h.closedLocal = true
		return true
	}
	return false
}

func (h *sendHalf[T]) close() { h.head.releaseSender() }

// recvHalf is sendHalf's mirror image on the consumer side.
type recvHalf[T any] struct {
	ring        *ringBuffer[T]
	head        *head
	mine        Sequence
	theirs      Sequence
	cache       *Cache
	closedLocal bool
	node        *waiterNode
}

func newRecvHalf[T any](ring *ringBuffer[T], hd *head) *recvHalf[T] {
	hd.acquireReceiver()
	return &recvHalf[T]{
		ring:   ring,
		head:   hd,
		mine:   hd.receiver,
		theirs: hd.sender,
		cache:  hd.receiver.newCache(),
		node:   newWaiterNode(roleRecv),
	}
}

// tryRecv is the non-blocking fast path. It returns (zero, ErrClosed) only
// once the sender side is gone and the ring has been fully drained;
// (zero, ErrWouldBlock) means the ring is merely empty right now.
func (h *recvHalf[T]) tryRecv() (T, error) {
	var zero T
	k, ok, closed := h.mine.claim(h.cache, h.theirs, 0)
	if closed {
		h.closedLocal = true
		return zero, ErrClosed
	}
	if !ok {
		if !h.theirs.isClosed() {
			return zero, ErrWouldBlock
		}
		// Sender side has gone away. Re-check once more: a message may
		// have been published in the gap between our failed claim and
		// observing the sender's closure (the same hazard the Chain's
		// segment hand-off guards against).
		h.cache.refresh(h.theirs, 0)
		k2, ok2, closed2 := h.mine.claim(h.cache, h.theirs, 0)
		if closed2 || !ok2 {
			h.closedLocal = true
			return zero, ErrClosed
		}
		k = k2
	}

	val := *h.ring.slot(k)
	*h.ring.slot(k) = zero
	h.mine.commit(k)
	h.head.sched.wakeOne(roleSend)
	return val, nil
}

// recv blocks until a value is available or the channel closes and drains.
func (h *recvHalf[T]) recv() (T, error) {
	for {
		v, err := h.tryRecv()
		if err == nil {
			return v, nil
		}
		if IsClosed(err) {
			return v, err
		}
		if h.head.sched.register(h.node) {
			h.head.sched.park(h.node)
		}
	}
}

func (h *recvHalf[T]) isClosed() bool {
	if h.closedLocal {
		return true
	}
	if h.head.isClosed() {
		h.closedLocal = true
		return true
	}
	return false
}

func (h *recvHalf[T]) close() { h.head.releaseReceiver() }
