// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// SenderHandle is satisfied by both Sender[T] (bounded) and
// QueueSender[T] (unbounded), for code that only needs to send.
type SenderHandle[T any] interface {
	TrySend(elem *T) error
	Send(elem T) error
	Close()
	IsClosed() bool
}

// ReceiverHandle is satisfied by both Receiver[T] (bounded) and
// QueueReceiver[T] (unbounded), for code that only needs to receive.
type ReceiverHandle[T any] interface {
	TryRecv() (T, error)
	Recv() (T, error)
	Close()
	IsClosed() bool
}

// Drainer signals that no more sends will occur so a receiver can finish
// draining without waiting for every producer clone to close explicitly.
//
// Both Receiver[T] and QueueReceiver[T] implement Drainer.
//
// Example:
//
//	prodWg.Wait() // every producer goroutine has returned
//	recv.Drain()  // force the sender side closed
//	for {
//	    v, err := recv.Recv()
//	    if ringchan.IsClosed(err) {
//	        break
//	    }
//	    process(v)
//	}
type Drainer interface {
	Drain()
}

var (
	_ SenderHandle[int]   = (*Sender[int])(nil)
	_ ReceiverHandle[int] = (*Receiver[int])(nil)
	_ SenderHandle[int]   = (*QueueSender[int])(nil)
	_ ReceiverHandle[int] = (*QueueReceiver[int])(nil)
	_ Drainer             = (*Receiver[int])(nil)
	_ Drainer             = (*QueueReceiver[int])(nil)
)
