// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

// Options configures channel creation.
type Options struct {
	singleSender   bool
	singleReceiver bool
	unbounded      bool
	capacity       int
}

// Builder creates channels with fluent configuration.
//
// Example:
//
//	send, recv := ringchan.BuildMPMC[Request](ringchan.New(4096))
//	send, recv := ringchan.BuildSPSC[Event](ringchan.New(1024).SingleSender().SingleReceiver())
//	send, recv := ringchan.BuildQueueMPSC[Job](ringchan.New(0).Unbounded().SingleReceiver())
type Builder struct {
	opts Options
}

// New creates a channel builder. Capacity rounds up to the next power of
// two and is ignored when Unbounded() is set. New itself does not check
// capacity; the bounded Build functions panic if it is < 2.
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// SingleSender declares that only one goroutine will send.
func (b *Builder) SingleSender() *Builder {
	b.opts.singleSender = true
	return b
}

// SingleReceiver declares that only one goroutine will receive.
func (b *Builder) SingleReceiver() *Builder {
	b.opts.singleReceiver = true
	return b
}

// Unbounded selects the Chain-backed growable queue instead of a
// fixed-capacity ring. Capacity is ignored when set.
func (b *Builder) Unbounded() *Builder {
	b.opts.unbounded = true
	return b
}

// BuildSPSC creates a bounded SPSC channel.
// Panics if the builder is not configured with SingleSender().SingleReceiver().
func BuildSPSC[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	if !b.opts.singleSender || !b.opts.singleReceiver {
		panic("ringchan: BuildSPSC requires SingleSender().SingleReceiver()")
	}
	return NewSPSC[T](b.opts.capacity)
}

// BuildMPSC creates a bounded channel with a cloneable sender and a
// single receiver. Panics if the builder declares SingleSender().
func BuildMPSC[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	if b.opts.singleSender || !b.opts.singleReceiver {
		panic("ringchan: BuildMPSC requires SingleReceiver() without SingleSender()")
	}
	return NewMPSC[T](b.opts.capacity)
}

// BuildSPMC creates a bounded channel with a single sender and a
// cloneable receiver. Panics if the builder declares SingleReceiver().
func BuildSPMC[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	if !b.opts.singleSender || b.opts.singleReceiver {
		panic("ringchan: BuildSPMC requires SingleSender() without SingleReceiver()")
	}
	return NewSPMC[T](b.opts.capacity)
}

// BuildMPMC creates a bounded channel with cloneable senders and
// receivers. Panics if the builder declares either Single* constraint.
func BuildMPMC[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	if b.opts.singleSender || b.opts.singleReceiver {
		panic("ringchan: BuildMPMC requires no Single* constraints")
	}
	return NewMPMC[T](b.opts.capacity)
}

// Build creates a channel with automatic multiplicity selection from the
// Single* constraints, or an unbounded Chain-backed queue if Unbounded()
// was set.
//
//	SingleSender + SingleReceiver → SPSC
//	SingleSender only             → SPMC
//	SingleReceiver only           → MPSC
//	Neither                       → MPMC
func Build[T any](b *Builder) (*Sender[T], *Receiver[T]) {
	if b.opts.unbounded {
		panic("ringchan: Build does not support Unbounded(); use BuildQueue* instead")
	}
	switch {
	case b.opts.singleSender && b.opts.singleReceiver:
		return NewSPSC[T](b.opts.capacity)
	case b.opts.singleSender:
		return NewSPMC[T](b.opts.capacity)
	case b.opts.singleReceiver:
		return NewMPSC[T](b.opts.capacity)
	default:
		return NewMPMC[T](b.opts.capacity)
	}
}

// BuildQueueSPSC creates an unbounded SPSC chain queue.
// Panics if the builder is not configured with SingleSender().SingleReceiver().
func BuildQueueSPSC[T any](b *Builder) (*QueueSender[T], *QueueReceiver[T]) {
	if !b.opts.singleSender || !b.opts.singleReceiver {
		panic("ringchan: BuildQueueSPSC requires SingleSender().SingleReceiver()")
	}
	return NewQueueSPSC[T]()
}

// BuildQueueMPSC creates an unbounded chain queue with a cloneable sender
// and a single receiver.
func BuildQueueMPSC[T any](b *Builder) (*QueueSender[T], *QueueReceiver[T]) {
	if b.opts.singleSender || !b.opts.singleReceiver {
		panic("ringchan: BuildQueueMPSC requires SingleReceiver() without SingleSender()")
	}
	return NewQueueMPSC[T]()
}

// BuildQueueSPMC creates an unbounded chain queue with a single sender
// and a cloneable receiver.
func BuildQueueSPMC[T any](b *Builder) (*QueueSender[T], *QueueReceiver[T]) {
	if !b.opts.singleSender || b.opts.singleReceiver {
		panic("ringchan: BuildQueueSPMC requires SingleSender() without SingleReceiver()")
	}
	return NewQueueSPMC[T]()
}

// BuildQueueMPMC creates an unbounded chain queue with cloneable senders
// and receivers.
func BuildQueueMPMC[T any](b *Builder) (*QueueSender[T], *QueueReceiver[T]) {
	if b.opts.singleSender || b.opts.singleReceiver {
		panic("ringchan: BuildQueueMPMC requires no Single* constraints")
	}
	return NewQueueMPMC[T]()
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
