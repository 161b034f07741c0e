// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// scheduler is a channel's park/unpark glue over its waiterQueue. It holds
// no goroutine state itself: each Half owns its own preallocated
// waiterNode and calls back into scheduler to register it, park on it, and
// have the opposite endpoint wake it.
//
// The notify channel inside each node is the "token" park primitive the
// protocol requires: it is buffered with capacity one, so a wake that
// lands before the corresponding park is not lost — the send simply fills
// the buffer and the subsequent receive returns immediately.
type scheduler struct {
	queue *waiterQueue
}

func newScheduler() *scheduler {
	return &scheduler{queue: newWaiterQueue()}
}

// register publishes n before the caller parks. Returns false if the
// opposite role is already queued, telling the caller to retry its
// non-blocking fast path instead of parking.
func (s *scheduler) register(n *waiterNode) bool {
	return s.queue.register(n)
}

// park blocks the calling goroutine until woken via n.notify.
func (s *scheduler) park(n *waiterNode) {
	<-n.notify
}

// wakeOne pops at most one waiter of the given role and notifies it.
// Called after a successful TrySend (wakes a roleRecv waiter, since data
// just became available) or TryRecv (wakes a roleSend waiter, since a slot
// just freed up).
func (s *scheduler) wakeOne(role waiterRole) {
	notify := s.queue.pop(role)
	if notify == nil {
		return
	}
	select {
	case notify <- struct{}{}:
	default:
	}
}

// wakeAll notifies every currently queued waiter regardless of role.
// Called when the channel closes from either side.
func (s *scheduler) wakeAll() {
	for {
		notify := s.queue.popAny()
		if notify == nil {
			return
		}
		select {
		case notify <- struct{}{}:
		default:
		}
	}
}
