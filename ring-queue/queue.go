package ringqueue

import (
	"github.com/michipili/go-stream/stream"
)

const __DefaultGrowBy = 1024

// Queue is a growable circular FIFO. It speaks the stream outcome
// vocabulary so it can stand in for a buffered input: Read reports
// WouldBlock when the queue is empty, and Write always reports Ok,
// growing the storage when full. It never shrinks.
//
// The same structure queues scalar elements and whole buffers; the
// multi-buffered output stream instantiates it as Queue[*stream.Buffer[T]].
type Queue[T any] struct {
	buf    []T
	rd, wr int
	n      int
	growBy int
}

// New creates a queue with the given initial capacity and growth
// increment. Non-positive values fall back to the default of 1024.
func New[T any](capacity, growBy int) *Queue[T] {
	if capacity <= 0 {
		capacity = __DefaultGrowBy
	}
	if growBy <= 0 {
		growBy = __DefaultGrowBy
	}
	return &Queue[T]{
		buf:    make([]T, capacity),
		growBy: growBy,
	}
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	return q.n
}

// Cap returns the current storage capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Read removes and returns the element at the front. An empty queue
// reports WouldBlock: nothing available now, not a failure.
func (q *Queue[T]) Read() (T, stream.Outcome) {
	var zero T
	if q.n == 0 {
		return zero, stream.WouldBlock
	}
	v := q.buf[q.rd]
	q.buf[q.rd] = zero
	q.rd = (q.rd + 1) % len(q.buf)
	q.n--
	return v, stream.Ok
}

// Write appends an element at the back. It always succeeds: a full
// queue grows before insertion, so producers are never starved by the
// queue's own capacity.
func (q *Queue[T]) Write(v T) stream.Outcome {
	if q.n == len(q.buf) {
		q.grow()
	}
	q.buf[q.wr] = v
	q.wr = (q.wr + 1) % len(q.buf)
	q.n++
	return stream.Ok
}

// PeekFront returns the front element without consuming it.
func (q *Queue[T]) PeekFront() (T, stream.Outcome) {
	var zero T
	if q.n == 0 {
		return zero, stream.WouldBlock
	}
	return q.buf[q.rd], stream.Ok
}

// ReplaceFront overwrites the front element in place.
func (q *Queue[T]) ReplaceFront(v T) stream.Outcome {
	if q.n == 0 {
		return stream.WouldBlock
	}
	q.buf[q.rd] = v
	return stream.Ok
}

// grow enlarges the storage by the configured increment. The queue is
// full here, so the logical sequence starts at rd and wraps through
// buf[0:wr]. When the wrapped tail fits the extension it is relocated
// into the new space and the cursors keep their meaning; otherwise the
// whole sequence is laid out flat from index zero. FIFO order is
// unchanged either way.
func (q *Queue[T]) grow() {
	oldCap := len(q.buf)
	next := make([]T, oldCap+q.growBy)

	switch {
	case q.n == 0:
		q.rd, q.wr = 0, 0
	case q.rd < q.wr:
		copy(next, q.buf[:q.wr])
	case q.wr <= q.growBy:
		copy(next, q.buf)
		copy(next[oldCap:], q.buf[:q.wr])
		var zero T
		for i := 0; i < q.wr; i++ {
			next[i] = zero
		}
		q.wr = (oldCap + q.wr) % len(next)
	default:
		for i := 0; i < q.n; i++ {
			next[i] = q.buf[(q.rd+i)%oldCap]
		}
		q.rd = 0
		q.wr = q.n
	}
	q.buf = next
}
