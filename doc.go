// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ringchan provides lock-free, channel-like FIFO queues built on a
// shared Counter/Sequence/Head protocol.
//
// Two storage shapes are available:
//
//   - Bounded: a fixed-capacity ring buffer. [NewSPSC], [NewMPSC],
//     [NewSPMC], [NewMPMC].
//   - Unbounded: a forward-only chain of ring segments, each doubling the
//     previous segment's capacity, that grows on demand.
//     [NewQueueSPSC], [NewQueueMPSC], [NewQueueSPMC], [NewQueueMPMC].
//
// Both shapes distinguish producer/consumer multiplicity in their name:
//
//   - SPSC: Single-Sender Single-Receiver
//   - MPSC: Multi-Sender Single-Receiver
//   - SPMC: Single-Sender Multi-Receiver
//   - MPMC: Multi-Sender Multi-Receiver
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	send, recv := ringchan.NewSPSC[Event](1024)
//	send, recv := ringchan.NewMPMC[*Request](4096)
//
// Builder API auto-selects multiplicity from the Single* constraints:
//
//	send, recv := ringchan.Build[Event](ringchan.New(1024).SingleSender().SingleReceiver())  // SPSC
//	send, recv := ringchan.Build[Event](ringchan.New(1024).SingleReceiver())                 // MPSC
//	send, recv := ringchan.Build[Event](ringchan.New(1024).SingleSender())                   // SPMC
//	send, recv := ringchan.Build[Event](ringchan.New(1024))                                  // MPMC
//
// # Basic Usage
//
// Every channel exposes both a non-blocking fast path and a blocking
// counterpart:
//
//	send, recv := ringchan.NewMPMC[int](1024)
//
//	value := 42
//	if err := send.TrySend(&value); ringchan.IsWouldBlock(err) {
//	    // channel full — handle backpressure
//	}
//	if err := send.Send(value); err != nil {
//	    // channel closed while waiting for room
//	}
//
//	v, err := recv.TryRecv()
//	if ringchan.IsWouldBlock(err) {
//	    // channel empty — try again later
//	}
//	v, err = recv.Recv() // blocks until data arrives or the channel closes
//
// # Closing
//
// Both Sender and Receiver are reference-counted per side: the channel's
// sender half only closes once every Sender handle derived from it
// (including clones) has called Close, and likewise for the receiver
// half. Closing one side never discards data the other side has already
// published — a Receiver may keep draining a channel whose Sender side
// has already closed.
//
//	send.Close()
//	for {
//	    v, err := recv.Recv()
//	    if ringchan.IsClosed(err) {
//	        break // sender gone and fully drained
//	    }
//	    process(v)
//	}
//
// # Common Patterns
//
// Pipeline stage (SPSC):
//
//	send, recv := ringchan.NewSPSC[Data](1024)
//
//	go func() { // producer
//	    defer send.Close()
//	    for data := range input {
//	        send.Send(data)
//	    }
//	}()
//
//	go func() { // consumer
//	    for {
//	        data, err := recv.Recv()
//	        if ringchan.IsClosed(err) {
//	            return
//	        }
//	        process(data)
//	    }
//	}()
//
// Event aggregation (MPSC), one Sender clone per source:
//
//	send, recv := ringchan.NewMPSC[Event](4096)
//
//	for _, s := range sensors {
//	    go func(s Sensor, tx *ringchan.Sender[Event]) {
//	        defer tx.Close()
//	        for ev := range s.Events() {
//	            tx.Send(ev)
//	        }
//	    }(s, send.Clone())
//	}
//	send.Close() // release the constructor's own handle
//
// Work distribution (SPMC), one Receiver clone per worker:
//
//	send, recv := ringchan.NewSPMC[Task](1024)
//
//	for range numWorkers {
//	    go func(rx *ringchan.Receiver[Task]) {
//	        defer rx.Close()
//	        for {
//	            task, err := rx.Recv()
//	            if ringchan.IsClosed(err) {
//	                return
//	            }
//	            task.Execute()
//	        }
//	    }(recv.Clone())
//	}
//	recv.Close()
//
// # Bounded vs Unbounded
//
// Bounded channels (NewSPSC/NewMPSC/NewSPMC/NewMPMC) have a fixed capacity
// rounded up to the next power of two; TrySend/Send apply backpressure
// once full. Unbounded queues (NewQueueSPSC/NewQueueMPSC/NewQueueSPMC/
// NewQueueMPMC) never apply backpressure — TrySend only fails once the
// queue has closed, growing the underlying chain as needed instead.
//
// uintptr and unsafe.Pointer payloads (index-based pools, zero-copy
// handoff) need no separate queue family: ringchan is generic, so
// Sender[uintptr]/Receiver[uintptr] and Sender[unsafe.Pointer]/
// Receiver[unsafe.Pointer] already cover those cases directly.
//
// # Error Handling
//
// [ErrWouldBlock] (an alias of [code.hybscloud.com/iox]'s ErrWouldBlock)
// signals a transient non-blocking failure; [ErrClosed] signals the
// terminal closed-and-drained state. TrySend/Send additionally wrap
// ErrClosed in a [ClosedError] carrying back whatever payload could not
// be delivered:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := send.TrySend(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !ringchan.IsWouldBlock(err) {
//	        var ce *ringchan.ClosedError[Item]
//	        errors.As(err, &ce)
//	        return ce.Value // rescue the undelivered item
//	    }
//	    backoff.Wait()
//	}
//
// [IsWouldBlock], [IsClosed], [IsSemantic], and [IsNonFailure] classify
// errors for callers that want to branch without an errors.Is call.
//
// # Capacity
//
// Bounded capacity rounds up to the next power of 2:
//
//	ringchan.NewMPMC[int](3)     // actual capacity: 4
//	ringchan.NewMPMC[int](1000)  // actual capacity: 1024
//
// Minimum capacity is 2; constructors panic below that. Length is
// intentionally not exposed — accurate counts in a lock-free ring require
// expensive cross-core synchronization. Track counts in application logic
// when needed.
//
// # Thread Safety
//
// Each endpoint's Clone method only succeeds where the channel's
// multiplicity allows it (e.g. Receiver.Clone panics on an SPSC or MPSC
// channel, which have exactly one receiver). Operating two unrelated
// goroutines against the single-sided end of an SPSC/MPSC/SPMC channel
// without cloning is undefined behavior — it is the caller's job to match
// goroutine count to the declared multiplicity.
//
// # Graceful Shutdown
//
// Shared (multi-endpoint) sides track liveness via a per-clone reference
// count, so draining normally waits for every clone to call Close. When a
// caller knows sends have stopped but hasn't tracked down every Sender
// clone, [Drainer] forces the sender side closed immediately:
//
//	prodWg.Wait()
//	recv.Drain()
//	for {
//	    v, err := recv.Recv()
//	    if ringchan.IsClosed(err) {
//	        break
//	    }
//	    process(v)
//	}
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established purely through atomic acquire-release orderings. The
// Sequence claim/commit protocol here relies on exactly that, so the race
// detector may flag false positives on the hot path even though the
// orderings are correct; treat stress tests under -race as a sanity check
// on the Go-level synchronization (waiter queue, scheduler), not as proof
// of the lock-free protocol itself.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit memory
// ordering, and [code.hybscloud.com/spin] for CPU pause backoff in
// compare-and-swap retry loops.
package ringchan
