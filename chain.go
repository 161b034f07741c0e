// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import "code.hybscloud.com/atomix"

// chainNode is one ring segment in an unbounded chain. The very first node
// (the chain's head) carries no ring and exists only to anchor the walk;
// every subsequent node doubles the previous node's capacity.
//
// next is a three-state slot: nil means empty (nothing grown past this
// node yet), the chain's closedMarker sentinel means permanently closed,
// and any other value is the next segment.
type chainNode[T any] struct {
	ring     *ringBuffer[T]
	sender   Sequence
	receiver Sequence
	next     atomix.Pointer[chainNode[T]]
}

func (n *chainNode[T]) start() uint64 { v, _ := n.receiver.fetch(); return v }
func (n *chainNode[T]) end() uint64   { v, _ := n.sender.fetch(); return v }

// chain is the unbounded counterpart of head+ringBuffer: a forward-only
// linked list of segments shared by every Half derived from it, with its
// own chain-wide live counts and wake scheduler.
type chain[T any] struct {
	sharedSender   bool
	sharedReceiver bool

	first atomix.Pointer[chainNode[T]] // oldest segment a receiver might still need
	last  atomix.Pointer[chainNode[T]] // cached last segment; senders refresh on a lost grow race

	closedMarker *chainNode[T]

	senderLive   atomix.Int64
	receiverLive atomix.Int64
	closed       atomix.Bool

	sched *scheduler
}

func newChain[T any](sharedSender, sharedReceiver bool) *chain[T] {
	c := &chain[T]{
		sharedSender:   sharedSender,
		sharedReceiver: sharedReceiver,
		closedMarker:   &chainNode[T]{},
		sched:          newScheduler(),
	}
	head := c.newSegment(0)
	c.first.StoreRelease(head)
	c.last.StoreRelease(head)
	return c
}

func (c *chain[T]) newSegment(capacity uint64) *chainNode[T] {
	n := &chainNode[T]{}
	if c.sharedSender {
		n.sender = newSharedSequence(0)
	} else {
		n.sender = newOwnedSequence(0)
	}
	if c.sharedReceiver {
		n.receiver = newSharedSequence(0)
	} else {
		n.receiver = newOwnedSequence(0)
	}
	if capacity > 0 {
		n.ring = newRingBuffer[T](capacity, n)
	}
	return n
}

func (c *chain[T]) isClosed() bool { return c.closed.LoadAcquire() }

func (c *chain[T]) acquireSender() { c.senderLive.AddAcqRel(1) }

func (c *chain[T]) releaseSender() {
	if c.senderLive.AddAcqRel(-1) == 0 {
		c.closed.StoreRelease(true)
		c.closeStructure()
		c.sched.wakeAll()
	}
}

func (c *chain[T]) acquireReceiver() { c.receiverLive.AddAcqRel(1) }

func (c *chain[T]) releaseReceiver() {
	if c.receiverLive.AddAcqRel(-1) == 0 {
		c.closed.StoreRelease(true)
		c.closeStructure()
		c.sched.wakeAll()
	}
}

// closeStructure walks to the last segment and CASes its empty successor
// slot to closedMarker. Losing the race just means another release
// already closed it.
func (c *chain[T]) closeStructure() {
	node := c.lastSegment()
	for {
		if node.next.CompareAndSwapAcqRel(nil, c.closedMarker) {
			return
		}
		next := node.next.LoadAcquire()
		if next == c.closedMarker {
			return
		}
		node = next
	}
}

// lastSegment returns the true last segment, refreshing the cached hint
// if other goroutines have grown the chain since it was last read.
func (c *chain[T]) lastSegment() *chainNode[T] {
	node := c.last.LoadAcquire()
	for {
		next := node.next.LoadAcquire()
		if next == nil || next == c.closedMarker {
			return node
		}
		node = next
	}
}

// grow appends a new segment doubling node's capacity (or capacity 1 if
// node is the empty head) after node, or adopts whoever won the race to
// grow first. Returns nil if the chain closed before anyone could grow.
func (c *chain[T]) grow(node *chainNode[T]) *chainNode[T] {
	var newCap uint64
	if node.ring == nil {
		newCap = 1
	} else {
		newCap = node.ring.cap() * 2
	}
	candidate := c.newSegment(newCap)
	if node.next.CompareAndSwapAcqRel(nil, candidate) {
		c.last.StoreRelease(candidate)
		return candidate
	}
	existing := node.next.LoadAcquire()
	if existing == c.closedMarker {
		return nil
	}
	return existing
}

// trySend claims a slot on the current last segment, growing the chain
// when it is full. cache is the sender's per-segment Cache; it is reset
// each time the walk crosses into a new segment since counters restart
// at zero per segment.
func (c *chain[T]) trySend(elem *T, node *chainNode[T], cache *Cache) (*chainNode[T], error) {
	for {
		if node.ring == nil {
			// The chain's anchor node carries no storage; grow past it
			// before attempting a claim.
			next := c.grow(node)
			if next == nil {
				return node, &ClosedError[T]{Value: *elem}
			}
			node = next
			*cache = Cache{}
			continue
		}

		k, ok, closed := node.sender.claim(cache, node.receiver, node.ring.cap())
		if closed {
			return node, &ClosedError[T]{Value: *elem}
		}
		if ok {
			val := *elem
			*node.ring.slot(k) = val
			committed, closed2 := node.sender.commit(k)
			if !committed || closed2 {
				var zero T
				*node.ring.slot(k) = zero
				return node, &ClosedError[T]{Value: val}
			}
			c.sched.wakeOne(roleRecv)
			return node, nil
		}
		next := c.grow(node)
		if next == nil {
			return node, &ClosedError[T]{Value: *elem}
		}
		node = next
		*cache = Cache{}
	}
}

// tryRecv drains the chain in segment order. It returns the segment the
// receiver should continue from next, so the caller can remember its
// position across calls instead of walking from the very first segment
// every time.
func (c *chain[T]) tryRecv(node *chainNode[T], cache *Cache) (T, *chainNode[T], error) {
	var zero T
	for {
		k, ok, _ := node.receiver.claim(cache, node.sender, 0)
		if ok {
			val := *node.ring.slot(k)
			*node.ring.slot(k) = zero
			node.receiver.commit(k)
			c.sched.wakeOne(roleSend)
			return val, node, nil
		}

		next := node.next.LoadAcquire()
		if next == nil {
			if !c.closed.LoadAcquire() {
				return zero, node, ErrWouldBlock
			}
			// Last-moment recheck: a send may have committed between our
			// failed claim and observing the chain's closure.
			k2, ok2, _ := node.receiver.claim(cache, node.sender, 0)
			if ok2 {
				val := *node.ring.slot(k2)
				*node.ring.slot(k2) = zero
				node.receiver.commit(k2)
				return val, node, nil
			}
			return zero, node, ErrClosed
		}
		// Last-moment recheck before leaving this segment: a send may have
		// committed here between our failed claim and observing the
		// successor slot.
		if k2, ok2, _ := node.receiver.claim(cache, node.sender, 0); ok2 {
			val := *node.ring.slot(k2)
			*node.ring.slot(k2) = zero
			node.receiver.commit(k2)
			c.sched.wakeOne(roleSend)
			return val, node, nil
		}
		if next == c.closedMarker {
			return zero, node, ErrClosed
		}
		// The sender only ever writes to the last segment, and this one
		// has already been grown past, so advance.
		node = next
		*cache = Cache{}
	}
}
