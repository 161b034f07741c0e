// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan_test

import (
	"testing"

	"github.com/corvid-systems/ringchan"
)

// TestQueueUnboundedGrowth is scenario S6: send far more items than any
// single fixed-size ring would hold, without receiving, then receive
// everything back in exact order. The chain must keep growing rather
// than ever reporting ErrWouldBlock to the sender.
func TestQueueUnboundedGrowth(t *testing.T) {
	const n = 20000
	send, recv := ringchan.NewQueueSPSC[int]()

	for i := 0; i < n; i++ {
		v := i
		if err := send.TrySend(&v); err != nil {
			t.Fatalf("TrySend(%d): %v", i, err)
		}
	}
	send.Close()

	for i := 0; i < n; i++ {
		v, err := recv.Recv()
		if err != nil {
			t.Fatalf("Recv(%d): %v", i, err)
		}
		if v != i {
			t.Fatalf("Recv(%d): got %d, want %d", i, v, i)
		}
	}
	if _, err := recv.Recv(); !ringchan.IsClosed(err) {
		t.Fatalf("final Recv: got %v, want ErrClosed", err)
	}
}

// TestQueueCloseWhileBlocked checks a QueueReceiver parked on an empty,
// never-yet-grown chain wakes once the sender side closes.
func TestQueueCloseWhileBlocked(t *testing.T) {
	send, recv := ringchan.NewQueueSPSC[int]()

	done := make(chan error, 1)
	go func() {
		_, err := recv.Recv()
		done <- err
	}()

	send.Close()

	select {
	case err := <-done:
		if !ringchan.IsClosed(err) {
			t.Fatalf("blocked Recv after close: got %v, want ErrClosed", err)
		}
	case <-timeoutChan():
		t.Fatal("blocked Recv did not wake within the deadline")
	}
}

// TestQueueCloseWhileBlockedSender mirrors TestQueueCloseWhileBlocked on
// the sender side. Unlike a bounded channel, a QueueSender never has
// capacity to wait for (trySend always grows the chain instead), so this
// is a regression guard: Send must complete promptly rather than parking
// forever, even racing against a concurrent receiver Close.
func TestQueueCloseWhileBlockedSender(t *testing.T) {
	send, recv := ringchan.NewQueueSPSC[int]()

	done := make(chan error, 1)
	go func() {
		done <- send.Send(1)
	}()

	recv.Close()

	select {
	case err := <-done:
		if err != nil && !ringchan.IsClosed(err) {
			t.Fatalf("Send racing receiver close: got %v, want nil or ErrClosed", err)
		}
	case <-timeoutChan():
		t.Fatal("Send did not complete within the deadline")
	}
	send.Close()
}

// TestQueueMPSCClone checks that multiple cloned QueueSender handles can
// contribute concurrently and that the receiver sees every item before
// observing closed, and that Clone panics on the non-shared receiver
// side.
func TestQueueMPSCClone(t *testing.T) {
	if ringchan.RaceEnabled {
		t.Skip("skip: lock-free algorithm uses cross-variable memory ordering")
	}
	send, recv := ringchan.NewQueueMPSC[int]()

	const producers = 4
	const perProducer = 2000
	for p := 0; p < producers; p++ {
		tx := send.Clone()
		go func(tx *ringchan.QueueSender[int]) {
			defer tx.Close()
			for i := 0; i < perProducer; i++ {
				tx.Send(i)
			}
		}(tx)
	}
	send.Close()

	count := 0
	for {
		_, err := recv.Recv()
		if ringchan.IsClosed(err) {
			break
		}
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		count++
	}
	if count != producers*perProducer {
		t.Fatalf("received %d items, want %d", count, producers*perProducer)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Clone on single-receiver queue: expected panic, got none")
		}
	}()
	recv.Clone()
}
