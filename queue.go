// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// QueueSender is the producer-side handle to an unbounded chain queue.
type QueueSender[T any] struct {
	c     *chain[T]
	node  *chainNode[T]
	cache *Cache
	wnode *waiterNode
	local bool
}

func newQueueSender[T any](c *chain[T]) *QueueSender[T] {
	c.acquireSender()
	first := c.first.LoadAcquire()
	var cache Cache
	return &QueueSender[T]{c: c, node: first, cache: &cache, wnode: newWaiterNode(roleSend)}
}

// TrySend appends elem without blocking, growing the chain if the current
// last segment is full. It only fails (with *ClosedError[T]) once the
// chain has closed.
func (s *QueueSender[T]) TrySend(elem *T) error {
	if s.local {
		return &ClosedError[T]{Value: *elem}
	}
	node, err := s.c.trySend(elem, s.node, s.cache)
	s.node = node
	if err != nil {
		s.local = true
	}
	return err
}

// Send blocks until elem is appended or the chain closes.
func (s *QueueSender[T]) Send(elem T) error {
	for {
		err := s.TrySend(&elem)
		if err == nil {
			return nil
		}
		if !IsWouldBlock(err) {
			return err
		}
		if s.c.sched.register(s.wnode) {
			s.c.sched.park(s.wnode)
		}
	}
}

func (s *QueueSender[T]) Close() { s.c.releaseSender() }

func (s *QueueSender[T]) IsClosed() bool { return s.local || s.c.isClosed() }

// Clone returns an additional QueueSender handle sharing this chain. It
// panics unless the chain was constructed with a shared sender side.
func (s *QueueSender[T]) Clone() *QueueSender[T] {
	if !s.c.sharedSender {
		panic("ringchan: Clone requires a queue built with a shared sender (NewQueueMPSC or NewQueueMPMC)")
	}
	return newQueueSender[T](s.c)
}

// QueueReceiver is the consumer-side handle to an unbounded chain queue.
type QueueReceiver[T any] struct {
	c     *chain[T]
	node  *chainNode[T]
	cache *Cache
	wnode *waiterNode
	local bool
}

func newQueueReceiver[T any](c *chain[T]) *QueueReceiver[T] {
	c.acquireReceiver()
	first := c.first.LoadAcquire()
	var cache Cache
	return &QueueReceiver[T]{c: c, node: first, cache: &cache, wnode: newWaiterNode(roleRecv)}
}

// TryRecv takes the oldest available value without blocking. It returns
// ErrWouldBlock if the chain is momentarily empty but open, or ErrClosed
// once the chain has closed and every segment has been fully drained.
func (r *QueueReceiver[T]) TryRecv() (T, error) {
	var zero T
	if r.local {
		return zero, ErrClosed
	}
	val, node, err := r.c.tryRecv(r.node, r.cache)
	r.node = node
	if IsClosed(err) {
		r.local = true
	}
	return val, err
}

// Recv blocks until a value is available or the chain closes and drains.
func (r *QueueReceiver[T]) Recv() (T, error) {
	for {
		v, err := r.TryRecv()
		if err == nil {
			return v, nil
		}
		if IsClosed(err) {
			return v, err
		}
		if r.c.sched.register(r.wnode) {
			r.c.sched.park(r.wnode)
		}
	}
}

func (r *QueueReceiver[T]) Close() { r.c.releaseReceiver() }

func (r *QueueReceiver[T]) IsClosed() bool { return r.local || r.c.isClosed() }

// Drain forces the chain's sender side to report closed, letting TryRecv
// finish draining without waiting for every live QueueSender handle
// (including clones) to call Close individually.
func (r *QueueReceiver[T]) Drain() {
	r.c.closed.StoreRelease(true)
	r.c.closeStructure()
	r.c.sched.wakeAll()
}

// Clone returns an additional QueueReceiver handle sharing this chain. It
// panics unless the chain was constructed with a shared receiver side.
func (r *QueueReceiver[T]) Clone() *QueueReceiver[T] {
	if !r.c.sharedReceiver {
		panic("ringchan: Clone requires a queue built with a shared receiver (NewQueueSPMC or NewQueueMPMC)")
	}
	return newQueueReceiver[T](r.c)
}

// NewQueueSPSC creates an unbounded chain queue with exactly one sender
// and one receiver.
func NewQueueSPSC[T any]() (*QueueSender[T], *QueueReceiver[T]) {
	c := newChain[T](false, false)
	return newQueueSender[T](c), newQueueReceiver[T](c)
}

// NewQueueMPSC creates an unbounded chain queue with a cloneable sender
// and a single receiver.
func NewQueueMPSC[T any]() (*QueueSender[T], *QueueReceiver[T]) {
	c := newChain[T](true, false)
	return newQueueSender[T](c), newQueueReceiver[T](c)
}

// NewQueueSPMC creates an unbounded chain queue with a single sender and
// a cloneable receiver.
func NewQueueSPMC[T any]() (*QueueSender[T], *QueueReceiver[T]) {
	c := newChain[T](false, true)
	return newQueueSender[T](c), newQueueReceiver[T](c)
}

// NewQueueMPMC creates an unbounded chain queue with cloneable senders
// and receivers.
func NewQueueMPMC[T any]() (*QueueSender[T], *QueueReceiver[T]) {
	c := newChain[T](true, true)
	return newQueueSender[T](c), newQueueReceiver[T](c)
}
