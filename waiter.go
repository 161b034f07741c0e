// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import "code.hybscloud.com/atomix"

// waiterRole distinguishes which side of the channel a parked goroutine is
// blocked on.
type waiterRole uint8

const (
	roleSend waiterRole = 1
	roleRecv waiterRole = 2
)

// waiterNode is one parked goroutine's entry in the waiterQueue. Each Half
// carries exactly one preallocated node (see half.go), so registering for
// a park never allocates: only the notify channel's buffered slot is
// reused across park cycles.
type waiterNode struct {
	role   waiterRole
	notify chan struct{}
	next   atomix.Pointer[waiterNode]
}

func newWaiterNode(role waiterRole) *waiterNode {
	return &waiterNode{role: role, notify: make(chan struct{}, 1)}
}

// waiterQueue is a Michael-Scott lock-free FIFO holding parked goroutines
// for one channel. Its core invariant is role homogeneity: at any instant
// every non-sentinel node shares one role. A push whose role mismatches
// the queue's current occupants is refused rather than enqueued, which
// tells the caller "the opposite endpoint is already parked, so capacity
// exists right now — retry the fast path instead of blocking."
type waiterQueue struct {
	head atomix.Pointer[waiterNode]
	tail atomix.Pointer[waiterNode]
}

func newWaiterQueue() *waiterQueue {
	sentinel := &waiterNode{}
	q := &waiterQueue{}
	q.head.StoreRelease(sentinel)
	q.tail.StoreRelease(sentinel)
	return q
}

// register attempts to push n onto the queue. It returns true if the push
// succeeded (the caller should park), or false if refused (the caller
// should retry the non-blocking fast path without parking).
func (q *waiterQueue) register(n *waiterNode) bool {
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		next := tail.next.LoadAcquire()
		if tail != q.tail.LoadAcquire() {
			continue
		}
		if next == nil {
			if head != tail && tail.role != n.role {
				return false
			}
			if tail.next.CompareAndSwapAcqRel(nil, n) {
				q.tail.CompareAndSwapAcqRel(tail, n)
				return true
			}
		} else {
			if head != tail && next.role != n.role {
				return false
			}
			q.tail.CompareAndSwapAcqRel(tail, next)
		}
	}
}

// pop removes and returns the notify channel of the next waiter with the
// given role, or nil if the queue is empty or holds the other role.
func (q *waiterQueue) pop(role waiterRole) chan struct{} {
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		next := head.next.LoadAcquire()
		if head != q.head.LoadAcquire() {
			continue
		}
		if head == tail {
			if next == nil {
				return nil
			}
			q.tail.CompareAndSwapAcqRel(tail, next)
			continue
		}
		if next.role != role {
			return nil
		}
		notify := next.notify
		if q.head.CompareAndSwapAcqRel(head, next) {
			return notify
		}
	}
}

// popAny removes and returns the next waiter's notify channel regardless
// of role, or nil if empty. Used only when waking everyone on close.
func (q *waiterQueue) popAny() chan struct{} {
	for {
		head := q.head.LoadAcquire()
		next := head.next.LoadAcquire()
		if next == nil {
			return nil
		}
		if q.head.CompareAndSwapAcqRel(head, next) {
			return next.notify
		}
	}
}
