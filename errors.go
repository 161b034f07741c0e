// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ringchan

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed immediately.
//
// For TrySend: the ring is full (backpressure).
// For TryRecv: the ring is empty (no data available).
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (with backoff) rather than propagating the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosed indicates the channel will never again accept sends and, for
// receives, that the channel is closed and fully drained.
//
// ErrClosed is terminal: once observed for a given endpoint it is observed
// forever after. Use [errors.Is] against ErrClosed rather than comparing
// [ClosedError] directly, since TrySend/Send wrap it with the rescued
// payload.
var ErrClosed = errors.New("ringchan: channel closed")

// ClosedError carries a payload that could not be delivered because the
// channel closed during the send. The payload is a rescued copy taken
// before the slot write (see sendHalf.trySend), so
// the caller can recover or discard it without data loss.
type ClosedError[T any] struct {
	Value T
}

func (e *ClosedError[T]) Error() string {
	return ErrClosed.Error()
}

func (e *ClosedError[T]) Unwrap() error {
	return ErrClosed
}

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsClosed reports whether err indicates the channel is closed, whether or
// not it carries a rescued payload.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic]; ErrClosed is also treated as semantic since
// it is an expected terminal state, not an unexpected failure.
func IsSemantic(err error) bool {
	return iox.IsSemantic(err) || IsClosed(err)
}

// IsNonFailure reports whether err represents a non-failure condition:
// nil, ErrWouldBlock, or ErrClosed.
// Delegates to [iox.IsNonFailure] for the shared cases.
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err) || IsClosed(err)
}

// capacityInvalid panics with a consistent message for constructor misuse.
// Capacity need not already be a power of two; it is rounded up.
func capacityInvalid(capacity int) {
	panic(fmt.Sprintf("ringchan: capacity must be >= 2, got %d", capacity))
}
