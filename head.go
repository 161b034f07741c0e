// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import "code.hybscloud.com/atomix"

// head is the per-channel shared record: both endpoint sequences, a live
// Half count per side, and a convenience closed flag. It is allocated once
// by the constructor and shared by every Half derived from it; it
// implements bufInfo so a ringBuffer can ask it for the occupied range.
//
// Each sequence closes independently, on its own side's live count
// reaching zero — closing the sender sequence must not stop a receiver
// from draining whatever was already published, and vice versa. closed is
// a simple OR of both, kept only so isClosed() queries are cheap and do
// not need to inspect either sequence.
type head struct {
	sender   Sequence
	receiver Sequence

	senderLive   atomix.Int64
	receiverLive atomix.Int64
	closed       atomix.Bool
	drained      atomix.Bool

	sched *scheduler

	// onBothReleased drains the ring buffer; set once by the constructor
	// after the ringBuffer exists (head has no generic type parameter of
	// its own, so it cannot hold a *ringBuffer[T] directly).
	onBothReleased func()
}

func newHead(sender, receiver Sequence) *head {
	return &head{sender: sender, receiver: receiver, sched: newScheduler()}
}

func (h *head) start() uint64 { v, _ := h.receiver.fetch(); return v }
func (h *head) end() uint64   { v, _ := h.sender.fetch(); return v }

func (h *head) isClosed() bool { return h.closed.LoadAcquire() }

// acquireSender increments the sender-side live count. Called from every
// Sender construction (including clones of a Shared sender).
func (h *head) acquireSender() { h.senderLive.AddAcqRel(1) }

// releaseSender decrements the sender-side live count; when it reaches
// zero the sender sequence closes and every queued waiter is woken (a
// receiver blocked on empty needs to learn that no more data is coming).
func (h *head) releaseSender() {
	if h.senderLive.AddAcqRel(-1) == 0 {
		h.sender.close()
		h.closed.StoreRelease(true)
		h.sched.wakeAll()
		h.maybeDrain()
	}
}

func (h *head) acquireReceiver() { h.receiverLive.AddAcqRel(1) }

// releaseReceiver is releaseSender's mirror image for the receiver side.
func (h *head) releaseReceiver() {
	if h.receiverLive.AddAcqRel(-1) == 0 {
		h.receiver.close()
		h.closed.StoreRelease(true)
		h.sched.wakeAll()
		h.maybeDrain()
	}
}

// maybeDrain runs onBothReleased exactly once, the moment the second of
// the two sides reaches a live count of zero. This is this package's
// stand-in for the ring buffer's Drop: Go has no destructor to hook, so
// the last Half's Close call does the work explicitly instead.
func (h *head) maybeDrain() {
	if h.senderLive.LoadAcquire() != 0 || h.receiverLive.LoadAcquire() != 0 {
		return
	}
	if h.drained.CompareAndSwapAcqRel(false, true) && h.onBothReleased != nil {
		h.onBothReleased()
	}
}
